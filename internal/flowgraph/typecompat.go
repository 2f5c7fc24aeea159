package flowgraph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
)

// assignable reports whether a value of type from may flow into a slot of
// type to. Custom types must name the same declaration; concrete types use
// cty's safe conversion rules, so number-to-string coercion and similar
// lossy moves are rejected.
func assignable(from, to document.ValueType) bool {
	if from.IsCustom() || to.IsCustom() {
		return from.CustomID == to.CustomID
	}
	if from.Type == cty.NilType || to.Type == cty.NilType {
		// An undeclared side behaves like "any"; nothing to prove.
		return true
	}
	if from.Type.Equals(to.Type) {
		return true
	}
	return convert.GetConversion(from.Type, to.Type) != nil
}

// checkAssignable reports a TypeMismatch when from cannot flow into to.
// fromDesc and toDesc name the two sides for the message.
func (v *flowValidator) checkAssignable(from, to document.ValueType, subject diag.Subject, fromDesc, toDesc string) {
	if assignable(from, to) {
		return
	}
	v.report(diag.TypeMismatch, subject,
		fmt.Sprintf("%s has type %s, but %s requires %s",
			fromDesc, from.FriendlyName(), toDesc, to.FriendlyName()))
}
