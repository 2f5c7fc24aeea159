package hcladapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/fsutil"
)

// Loader is the HCL-specific implementation of document.Loader.
type Loader struct{}

// NewLoader creates a new HCL document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from the given paths and merges the
// translated blocks into one raw document. Parse and decode failures are
// structural errors and abort the load; they never become semantic
// diagnostics.
func (l *Loader) Load(ctx context.Context, paths ...string) (*document.Document, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered HCL document files", "count", len(files))

	doc := &document.Document{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}

		part, err := translateRoot(ctx, &root)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		doc.Merge(part)
	}

	logger.Debug("HCL loading complete",
		"models", len(doc.Models), "tools", len(doc.Tools),
		"prompts", len(doc.Prompts), "flows", len(doc.Flows))
	return doc, nil
}
