// Package yamladapter is the YAML implementation of the document.Loader
// interface. It mirrors the HCL adapter for authors who prefer YAML
// documents: the same component vocabulary, translated into the same raw
// model.
//
// Reference slots accept either a bare string (a by-ID reference) or a
// nested mapping (an inline component literal); the distinction is carried
// into the raw model's tagged reference variant.
package yamladapter
