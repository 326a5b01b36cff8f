package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DOTDir writes one Graphviz file per record into a directory.
type DOTDir struct {
	dir string
}

// NewDOTDir creates dir if needed.
func NewDOTDir(dir string) (*DOTDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create DOT directory: %w", err)
	}
	return &DOTDir{dir: dir}, nil
}

// Path returns the file a record with the given name is written to.
func (d *DOTDir) Path(name string) string {
	return filepath.Join(d.dir, fileName(name)+".dot")
}

func (d *DOTDir) Write(_ context.Context, rec *Record) error {
	path := d.Path(rec.Name)
	if err := os.WriteFile(path, []byte(rec.Graph.DOT(rec.Name)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (d *DOTDir) Close() error { return nil }

// fileName keeps letters, digits, dots, dashes and underscores.
func fileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if clean == "" || strings.Trim(clean, ".") == "" {
		return "graph"
	}
	return clean
}
