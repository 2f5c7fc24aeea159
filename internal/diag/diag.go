package diag

import (
	"fmt"
	"strings"
)

// Kind is the stable machine-readable tag of one semantic violation class.
type Kind string

const (
	DuplicateIdentifier       Kind = "DuplicateIdentifier"
	UnresolvedReference       Kind = "UnresolvedReference"
	InvalidReferenceKind      Kind = "InvalidReferenceKind"
	UndeclaredVariable        Kind = "UndeclaredVariable"
	CyclicFlowInvocation      Kind = "CyclicFlowInvocation"
	MissingBinding            Kind = "MissingBinding"
	UnknownBinding            Kind = "UnknownBinding"
	TypeMismatch              Kind = "TypeMismatch"
	IncompleteToolDefinition  Kind = "IncompleteToolDefinition"
	AmbiguousContentSource    Kind = "AmbiguousContentSource"
	MissingProviderField      Kind = "MissingProviderField"
	InvalidSubflowPropagation Kind = "InvalidSubflowPropagation"
)

// Severity distinguishes hard errors from advisories. Only errors make a
// document invalid.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Subject is the location descriptor of a diagnostic: the component kind
// and id it concerns, and optionally the field path within it. Flow-scoped
// ids are qualified with their flow, e.g. "main.summarize".
type Subject struct {
	ComponentKind string
	ComponentID   string
	Field         string
}

func (s Subject) String() string {
	if s.ComponentKind == "" {
		return "document"
	}
	b := fmt.Sprintf("%s %q", s.ComponentKind, s.ComponentID)
	if s.Field != "" {
		b += ", field " + s.Field
	}
	return b
}

// Diagnostic is one structured report of a semantic violation.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Subject  Subject
	Summary  string
	Detail   string
}

func (d *Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s: %s", d.Severity, d.Kind, d.Subject, d.Summary)
	if d.Detail != "" {
		fmt.Fprintf(&b, " (%s)", d.Detail)
	}
	return b.String()
}

// List is an ordered diagnostics report.
type List []*Diagnostic

// HasErrors reports whether the list contains at least one error-severity
// diagnostic.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// ByKind returns every diagnostic of the given kind, preserving order.
func (l List) ByKind(k Kind) List {
	var out List
	for _, d := range l {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

func (l List) String() string {
	var b strings.Builder
	for _, d := range l {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
