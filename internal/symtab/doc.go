// Package symtab builds the per-run symbol table: a mapping from
// (scope, kind, id) to the owning component. Each kind owns its own id
// namespace within a scope, so a model and a tool may share an id value
// without conflict, while two models may not.
//
// The builder walks every declared collection even after finding a
// duplicate, so all collisions in one document are reported together. The
// table is constructed fresh for each validation run and discarded at the
// end; there is no process-wide registry.
package symtab
