package document

import "github.com/zclconf/go-cty/cty"

// ValueType is the declared type of a variable, parameter or field. It is
// either a cty type (primitive, collection, or structured object) or a
// by-ID reference to a declared custom type. Collections always carry an
// item type because cty constructs them from one.
type ValueType struct {
	// Type holds the concrete cty type. Ignored when CustomID is set.
	Type cty.Type
	// CustomID names a custom_type declaration. Resolved by the resolver.
	CustomID string

	custom *CustomType
}

// TypeOf wraps a concrete cty type.
func TypeOf(t cty.Type) ValueType {
	return ValueType{Type: t}
}

// CustomTypeRef constructs a by-ID reference to a custom type.
func CustomTypeRef(id string) ValueType {
	return ValueType{CustomID: id}
}

// IsCustom reports whether the type names a custom type declaration.
func (v ValueType) IsCustom() bool { return v.CustomID != "" }

// IsZero reports whether no type was declared at all.
func (v ValueType) IsZero() bool { return v.CustomID == "" && v.Type == cty.NilType }

// BindCustom attaches the resolved custom type declaration.
func (v *ValueType) BindCustom(ct *CustomType) { v.custom = ct }

// Custom returns the resolved custom type declaration, or nil.
func (v ValueType) Custom() *CustomType { return v.custom }

// FriendlyName renders the type for diagnostics.
func (v ValueType) FriendlyName() string {
	if v.IsCustom() {
		return v.CustomID
	}
	if v.Type == cty.NilType {
		return "any"
	}
	return v.Type.FriendlyName()
}
