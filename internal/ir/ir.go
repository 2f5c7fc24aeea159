// Package ir defines the validated intermediate representation: the fully
// resolved object graph an execution engine consumes, and the Result type
// that is either Valid(IR) or Invalid(diagnostics).
//
// The IR wraps the raw document after the resolver attached target handles
// in place; it is constructed once per validation run and not persisted.
package ir

import (
	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/flowgraph"
	"github.com/vk/loomspec/internal/symtab"
)

// Flow carries the per-flow validation outcome alongside the resolved
// declaration.
type Flow struct {
	Source *document.Flow
	State  flowgraph.State
}

// Document is the validated program graph.
type Document struct {
	Source  *document.Document
	Symbols *symtab.Table
	Flows   map[string]*Flow
}

// Result is the outcome of one validation run. Callers must treat an
// invalid result as a hard stop before any execution is attempted.
type Result struct {
	IR          *Document
	Diagnostics diag.List
}

// Valid reports whether the document passed validation: no error-severity
// diagnostic was produced.
func (r *Result) Valid() bool {
	return !r.Diagnostics.HasErrors()
}
