// Package validator wires the semantic passes into the fixed-order
// pipeline: symbol table construction, reference resolution, flow graph
// validation, then cross-entity rules. Each pass accumulates diagnostics
// and continues, so one run surfaces every independent problem it can.
//
// Validation is a pure function over the in-memory tree: single-threaded
// per document, no I/O, no shared state between runs. Validating the same
// raw document twice yields identical diagnostics and IR structure.
package validator
