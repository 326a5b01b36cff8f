package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/circuitgraph/internal/config"
	"github.com/vk/circuitgraph/internal/ctxlog"
	"github.com/vk/circuitgraph/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file reachable from paths and collects their
// architecture blocks into one model. Architecture names must be unique
// across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := &config.Model{}
	seen := make(map[string]string)
	parser := hclparse.NewParser()
	base := newEvalContext()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var locals localsRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &locals); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		evalCtx, err := withLocals(base, locals.Locals)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate locals in %s: %w", file, err)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(locals.Remain, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Architectures {
			if prev, dup := seen[block.Name]; dup {
				return nil, fmt.Errorf("architecture %q in %s is already declared in %s", block.Name, file, prev)
			}
			seen[block.Name] = file

			arch, err := translateArchitecture(block, file)
			if err != nil {
				return nil, err
			}
			model.Architectures = append(model.Architectures, arch)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(hclFiles), "architectures", len(model.Architectures))
	return model, nil
}
