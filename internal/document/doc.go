// Package document defines the format-agnostic raw document model: the
// parsed but unresolved tree of components (models, tools, prompts, flows,
// and so on) that the validator consumes, along with the core Loader
// interface for producing it from various syntaxes.
//
// The raw model is the single source of truth for the symtab, resolve,
// flowgraph and rules packages. Concrete loaders, such as for HCL and YAML,
// are provided in separate packages.
package document
