package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// JSONLines writes one Payload per line.
type JSONLines struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLines writes to w. The caller keeps ownership of w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

// CreateJSONLines creates (or truncates) the file at path and owns it.
func CreateJSONLines(path string) (*JSONLines, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &JSONLines{enc: json.NewEncoder(f), closer: f}, nil
}

func (j *JSONLines) Write(_ context.Context, rec *Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(rec.Payload()); err != nil {
		return fmt.Errorf("failed to write %q: %w", rec.Name, err)
	}
	return nil
}

func (j *JSONLines) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}
