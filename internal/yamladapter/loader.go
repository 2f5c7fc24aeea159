package yamladapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/fsutil"
)

// Loader is the YAML-specific implementation of document.Loader.
type Loader struct{}

// NewLoader creates a new YAML document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .yaml/.yml file reachable from the given paths and
// merges the translated collections into one raw document. Unknown fields
// are structural errors; the decoder runs in strict mode.
func (l *Loader) Load(ctx context.Context, paths ...string) (*document.Document, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered YAML document files", "count", len(files))

	doc := &document.Document{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		for {
			var root rootDoc
			if err := dec.Decode(&root); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, fmt.Errorf("failed to decode %s: %w", file, err)
			}
			part, err := translateRoot(&root)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			doc.Merge(part)
		}
	}

	logger.Debug("YAML loading complete",
		"models", len(doc.Models), "tools", len(doc.Tools),
		"prompts", len(doc.Prompts), "flows", len(doc.Flows))
	return doc, nil
}
