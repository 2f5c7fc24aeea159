// Package hcladapter is the HCL implementation of the document.Loader
// interface. It discovers .hcl files, decodes them against the structural
// schema, and translates the result into the format-agnostic raw document
// model.
//
// The adapter owns structural validation only: field names, shapes, and
// block pairings. Everything semantic, including reference resolution and
// graph checks, belongs to the validator and is not re-verified here.
package hcladapter
