package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validHCL = `
tool "echo" {
  input "text" {
    type = string
  }
  output "result" {
    type = string
  }
}

flow "main" {
  input "q" {
    type = string
  }
  output "a" {
    type = string
  }
  step "tool" "s1" {
    tool = "echo"
    bind = { text = "q" }
    out  = { result = "a" }
  }
}
`

const invalidYAML = `
prompts:
  - id: greet
    model: ghost
`

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newApp(t *testing.T, cfg Config) (*App, *bytes.Buffer) {
	t.Helper()
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	var out bytes.Buffer
	return New(&out, &bytes.Buffer{}, validated), &out
}

func TestRunValidDocument(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "main.hcl", validHCL)
	a, out := newApp(t, Config{Paths: []string{dir}})

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "document is valid")
}

func TestRunInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "main.yaml", invalidYAML)
	a, out := newApp(t, Config{Paths: []string{dir}})

	err := a.Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, out.String(), "UnresolvedReference")
	assert.Contains(t, out.String(), "document is invalid")
}

func TestMixedSyntaxesMergeIntoOneDocument(t *testing.T) {
	// The flow lives in HCL; its tool is declared in YAML. The reference
	// only resolves if both loaders feed the same document.
	dir := t.TempDir()
	writeDoc(t, dir, "flow.hcl", `
flow "main" {
  input "q" {
    type = string
  }
  output "a" {
    type = string
  }
  step "tool" "s1" {
    tool = "echo"
    bind = { text = "q" }
    out  = { result = "a" }
  }
}
`)
	writeDoc(t, dir, "tools.yaml", `
tools:
  - id: echo
    inputs:
      - name: text
        type: string
    outputs:
      - name: result
        type: string
`)
	a, _ := newApp(t, Config{Paths: []string{dir}})
	require.NoError(t, a.Run(context.Background()))
}

func TestJSONReport(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "main.yaml", invalidYAML)
	a, out := newApp(t, Config{Paths: []string{dir}, ReportFormat: "json"})

	_, err := a.Validate(context.Background())
	require.NoError(t, err)

	var report struct {
		Valid       bool `json:"valid"`
		Diagnostics []struct {
			Kind        string `json:"kind"`
			Severity    string `json:"severity"`
			ComponentID string `json:"component_id"`
			Summary     string `json:"summary"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	assert.False(t, report.Valid)
	require.NotEmpty(t, report.Diagnostics)
	// The prompt has a broken model reference and no content source.
	kinds := make(map[string]bool)
	for _, d := range report.Diagnostics {
		kinds[d.Kind] = true
	}
	assert.True(t, kinds["UnresolvedReference"])
	assert.True(t, kinds["AmbiguousContentSource"])
}

func TestValidateErrors(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		a, _ := newApp(t, Config{Paths: []string{t.TempDir()}})
		_, err := a.Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no document files found")
	})

	t.Run("structural failure surfaces as an error, not diagnostics", func(t *testing.T) {
		dir := t.TempDir()
		writeDoc(t, dir, "bad.hcl", `tool "t" {`)
		a, out := newApp(t, Config{Paths: []string{dir}})

		_, err := a.Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load documents")
		assert.Empty(t, out.String())
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("paths are required", func(t *testing.T) {
		_, err := NewConfig(Config{})
		require.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := NewConfig(Config{Paths: []string{"."}})
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.ReportFormat)
	})
}
