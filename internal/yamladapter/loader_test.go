package yamladapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/loomspec/internal/document"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func load(t *testing.T, dir string) (*document.Document, error) {
	t.Helper()
	return NewLoader().Load(context.Background(), dir)
}

func TestLoadFullDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.yaml", `
auth_providers:
  - id: key
    scheme: api_key
    env: OPENAI_API_KEY

models:
  - id: gpt4
    provider: openai
    name: gpt-4o
    auth: key

tools:
  - id: search
    description: Keyword search.
    inputs:
      - name: query
        type: string
      - name: limit
        type: number
        optional: true
    outputs:
      - name: results
        type: list(string)

prompts:
  - id: greet
    template: "Hello {{name}}"
    model: gpt4

memories:
  - id: chat
    strategy: buffer

custom_types:
  - id: ticket
    fields:
      - name: title
        type: string

indexes:
  - id: docs
    store: pgvector
    embedder: gpt4

telemetry_sinks:
  - id: otel
    exporter: otlp
    endpoint: localhost:4317

flows:
  - id: main
    memory: chat
    inputs:
      - id: q
        type: string
    outputs:
      - id: a
        type: string
    variables:
      - id: t
        type: ticket
    steps:
      - id: s1
        type: tool
        tool: search
        bind:
          query: q
        out:
          results: a
`)

	doc, err := load(t, dir)
	require.NoError(t, err)

	require.Len(t, doc.Models, 1)
	assert.Equal(t, "gpt4", doc.Models[0].Name)
	require.NotNil(t, doc.Models[0].Auth)
	assert.Equal(t, "key", doc.Models[0].Auth.RefID())

	require.Len(t, doc.Tools, 1)
	tool := doc.Tools[0]
	require.Len(t, tool.Inputs, 2)
	assert.True(t, tool.Inputs[1].Optional)
	assert.True(t, tool.Outputs[0].Type.Type.Equals(cty.List(cty.String)))

	require.Len(t, doc.Flows, 1)
	flow := doc.Flows[0]
	assert.Equal(t, "chat", flow.Memory.RefID())
	require.Len(t, flow.Locals, 1)
	assert.Equal(t, "ticket", flow.Locals[0].Type.CustomID)
	require.Len(t, flow.Steps, 1)
	assert.Equal(t, document.StepTool, flow.Steps[0].Type)
	assert.Equal(t, map[string]string{"query": "q"}, flow.Steps[0].BindIn)
}

func TestLoadInlineReferences(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inline.yaml", `
prompts:
  - id: greet
    template: Hello
    model:
      id: embedded
      provider: openai
      auth:
        id: inline-key
        scheme: api_key
`)

	doc, err := load(t, dir)
	require.NoError(t, err)

	require.Len(t, doc.Prompts, 1)
	ref := doc.Prompts[0].Model
	require.NotNil(t, ref)
	require.True(t, ref.IsInline())

	inline, ok := ref.InlineComponent().(*document.Model)
	require.True(t, ok)
	assert.Equal(t, "embedded", inline.Name)
	require.NotNil(t, inline.Auth)
	assert.True(t, inline.Auth.IsInline())
}

func TestLoadMultiDocumentStream(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stream.yml", `
models:
  - id: a
    provider: openai
---
tools:
  - id: t
    outputs:
      - name: x
        type: string
`)

	doc, err := load(t, dir)
	require.NoError(t, err)
	assert.Len(t, doc.Models, 1)
	assert.Len(t, doc.Tools, 1)
}

func TestLoadStructuralErrors(t *testing.T) {
	t.Run("unknown field", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", `
models:
  - id: m
    provider: openai
    temperature: 0.2
`)
		_, err := load(t, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "temperature")
	})

	t.Run("inline component without an id", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", `
prompts:
  - id: greet
    template: Hello
    model:
      provider: openai
`)
		_, err := load(t, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inline components require an id")
	})

	t.Run("reference that is a sequence", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", `
prompts:
  - id: greet
    template: Hello
    model: [a, b]
`)
		_, err := load(t, dir)
		require.Error(t, err)
	})

	t.Run("tool step without a tool reference", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", `
flows:
  - id: main
    steps:
      - id: s1
        type: tool
`)
		_, err := load(t, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "require a tool reference")
	})
}

func TestParseTypeString(t *testing.T) {
	cases := []struct {
		in   string
		want cty.Type
	}{
		{"string", cty.String},
		{"number", cty.Number},
		{"bool", cty.Bool},
		{"any", cty.DynamicPseudoType},
		{"list(string)", cty.List(cty.String)},
		{"map(number)", cty.Map(cty.Number)},
		{"set(bool)", cty.Set(cty.Bool)},
		{" list( string ) ", cty.List(cty.String)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseTypeString(tc.in)
			require.NoError(t, err)
			assert.True(t, got.Type.Equals(tc.want), got.FriendlyName())
		})
	}

	t.Run("bare identifier is a custom type", func(t *testing.T) {
		got, err := parseTypeString("ticket")
		require.NoError(t, err)
		assert.True(t, got.IsCustom())
		assert.Equal(t, "ticket", got.CustomID)
	})

	t.Run("rejections", func(t *testing.T) {
		for _, in := range []string{"", "list(ticket)", "list(any)", "tuple(string)", "list(string"} {
			_, err := parseTypeString(in)
			assert.Error(t, err, in)
		}
	})
}
