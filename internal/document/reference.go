package document

// Reference is a typed slot pointing at another component. Its source value
// is either an inline embedded component literal or a bare ID string to be
// looked up in the enclosing scope. The resolver collapses both forms into
// a resolved target handle; downstream stages only ever call Target and
// never re-inspect the original form.
type Reference struct {
	expect Kind
	id     string
	inline Component
	target Component
}

// ByID constructs a by-ID-string reference expecting the given target kind.
func ByID(expect Kind, id string) *Reference {
	return &Reference{expect: expect, id: id}
}

// Inline constructs a reference wrapping an inline component literal. The
// literal still owns its identity and is registered in the symbol table as
// if it were declared in the top-level collection.
func Inline(expect Kind, c Component) *Reference {
	return &Reference{expect: expect, inline: c, id: c.ID()}
}

// Expect returns the kind the referencing field requires.
func (r *Reference) Expect() Kind { return r.expect }

// RefID returns the identifier named by the reference: the lookup key for
// the by-ID form, or the inline component's own id.
func (r *Reference) RefID() string { return r.id }

// IsInline reports whether the source value was an inline component literal.
func (r *Reference) IsInline() bool { return r.inline != nil }

// InlineComponent returns the embedded literal, or nil for by-ID references.
func (r *Reference) InlineComponent() Component { return r.inline }

// Resolve attaches the resolved target handle. Only the resolver calls this.
func (r *Reference) Resolve(c Component) { r.target = c }

// Resolved reports whether the reference holds a target handle. An
// unresolved reference is not valid IR; a diagnostic must accompany it.
func (r *Reference) Resolved() bool { return r.target != nil }

// Target returns the resolved component handle, or nil if resolution
// failed (in which case a diagnostic was reported).
func (r *Reference) Target() Component { return r.target }
