package resolve

import (
	"context"
	"fmt"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/symtab"
)

// resolver carries the per-run state shared by the walk.
type resolver struct {
	table *symtab.Table
	bag   *diag.Bag
}

// Run resolves every reference field and every declared value type in the
// document. It mutates the raw tree in place, attaching target handles, and
// accumulates diagnostics instead of stopping at the first failure.
func Run(ctx context.Context, doc *document.Document, table *symtab.Table, bag *diag.Bag) {
	logger := ctxlog.FromContext(ctx)
	r := &resolver{table: table, bag: bag}

	for _, c := range doc.Components() {
		r.resolveComponent(c, subjectFor(c))
	}
	for _, f := range doc.Flows {
		for _, v := range f.Variables() {
			r.resolveValueType(&v.Type, diag.Subject{
				ComponentKind: string(document.KindVariable),
				ComponentID:   document.QualifyID(f.Name, v.Name),
				Field:         "type",
			})
		}
		for _, s := range f.Steps {
			r.resolveComponent(s, diag.Subject{
				ComponentKind: string(document.KindStep),
				ComponentID:   document.QualifyID(f.Name, s.Name),
			})
		}
	}

	logger.Debug("reference resolution complete")
}

func subjectFor(c document.Component) diag.Subject {
	return diag.Subject{ComponentKind: string(c.Kind()), ComponentID: c.ID()}
}

// resolveComponent resolves every reference slot of one component, plus any
// value types the concrete variant declares.
func (r *resolver) resolveComponent(c document.Component, subject diag.Subject) {
	for _, slot := range c.Refs() {
		s := subject
		s.Field = slot.Field
		r.resolveRef(slot.Ref, s)
	}

	switch v := c.(type) {
	case *document.Tool:
		for i, p := range v.Inputs {
			s := subject
			s.Field = fmt.Sprintf("input[%d].type", i)
			r.resolveValueType(&p.Type, s)
		}
		for i, p := range v.Outputs {
			s := subject
			s.Field = fmt.Sprintf("output[%d].type", i)
			r.resolveValueType(&p.Type, s)
		}
	case *document.CustomType:
		for i, f := range v.Fields {
			s := subject
			s.Field = fmt.Sprintf("field[%d].type", i)
			r.resolveValueType(&f.Type, s)
		}
	}
}

// resolveRef collapses one reference into a resolved handle. Inline
// literals are registered into the document scope first, then resolved
// recursively, so their own references and duplicate ids surface in the
// same run.
func (r *resolver) resolveRef(ref *document.Reference, subject diag.Subject) {
	if ref.IsInline() {
		inline := ref.InlineComponent()
		r.table.Register(symtab.DocumentScope(), inline, r.bag)
		r.resolveComponent(inline, subjectFor(inline))
		// Kind agreement between the slot and the literal is a cross-entity
		// rule; the handle is attached either way so the rule can inspect it.
		ref.Resolve(inline)
		return
	}

	if c, ok := r.table.Lookup(symtab.DocumentScope(), ref.Expect(), ref.RefID()); ok {
		ref.Resolve(c)
		return
	}

	if other, ok := r.table.LookupAnyKind(symtab.DocumentScope(), ref.RefID()); ok {
		r.bag.Add(diag.StageResolve, &diag.Diagnostic{
			Kind:     diag.InvalidReferenceKind,
			Severity: diag.Error,
			Subject:  subject,
			Summary:  fmt.Sprintf("%q names a %s, but this field requires a %s", ref.RefID(), other.Kind(), ref.Expect()),
		})
		return
	}

	r.bag.Add(diag.StageResolve, &diag.Diagnostic{
		Kind:     diag.UnresolvedReference,
		Severity: diag.Error,
		Subject:  subject,
		Summary:  fmt.Sprintf("no %s named %q is declared in this document", ref.Expect(), ref.RefID()),
	})
}

// resolveValueType binds a custom type id to its declaration. Concrete cty
// types need no resolution.
func (r *resolver) resolveValueType(vt *document.ValueType, subject diag.Subject) {
	if !vt.IsCustom() {
		return
	}
	c, ok := r.table.Lookup(symtab.DocumentScope(), document.KindCustomType, vt.CustomID)
	if !ok {
		r.bag.Add(diag.StageResolve, &diag.Diagnostic{
			Kind:     diag.UnresolvedReference,
			Severity: diag.Error,
			Subject:  subject,
			Summary:  fmt.Sprintf("no %s named %q is declared in this document", document.KindCustomType, vt.CustomID),
		})
		return
	}
	vt.BindCustom(c.(*document.CustomType))
}
