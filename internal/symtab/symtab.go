package symtab

import (
	"context"
	"fmt"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
)

// Scope identifies the namespace an id must be unique within: the document
// scope (zero value) or one flow's local scope.
type Scope struct {
	flow string
}

// DocumentScope returns the document-wide scope.
func DocumentScope() Scope { return Scope{} }

// FlowScope returns the local scope of one flow.
func FlowScope(flowID string) Scope { return Scope{flow: flowID} }

// IsDocument reports whether this is the document-wide scope.
func (s Scope) IsDocument() bool { return s.flow == "" }

// Key is the unique address of one component declaration.
type Key struct {
	Scope Scope
	Kind  document.Kind
	ID    string
}

// Table maps (scope, kind, id) keys to their owning components. It also
// remembers registration order per kind so downstream stages can iterate
// deterministically.
type Table struct {
	entries map[Key]document.Component
	order   map[document.Kind][]document.Component
}

// Build walks every declared collection of the document, including each
// flow's local steps and variables, and registers every component.
// Collisions within a scope are reported as DuplicateIdentifier, one per
// extra occurrence, and the first occurrence stays registered.
func Build(ctx context.Context, doc *document.Document, bag *diag.Bag) *Table {
	logger := ctxlog.FromContext(ctx)
	t := &Table{
		entries: make(map[Key]document.Component),
		order:   make(map[document.Kind][]document.Component),
	}

	for _, c := range doc.Components() {
		t.Register(DocumentScope(), c, bag)
	}
	for _, f := range doc.Flows {
		scope := FlowScope(f.Name)
		for _, v := range f.Variables() {
			t.registerLocal(scope, f.Name, v, bag)
		}
		for _, s := range f.Steps {
			t.registerLocal(scope, f.Name, s, bag)
		}
	}

	logger.Debug("symbol table built", "entries", len(t.entries))
	return t
}

// Register adds a document-scoped component. It returns false and reports
// DuplicateIdentifier when the (kind, id) key is already taken. The
// resolver also calls this for inline component literals, which participate
// in uniqueness checks as if declared in the top-level collection.
func (t *Table) Register(scope Scope, c document.Component, bag *diag.Bag) bool {
	key := Key{Scope: scope, Kind: c.Kind(), ID: c.ID()}
	if _, taken := t.entries[key]; taken {
		bag.Add(diag.StageSymbols, &diag.Diagnostic{
			Kind:     diag.DuplicateIdentifier,
			Severity: diag.Error,
			Subject:  diag.Subject{ComponentKind: string(c.Kind()), ComponentID: c.ID()},
			Summary:  fmt.Sprintf("identifier %q is already declared as a %s", c.ID(), c.Kind()),
		})
		return false
	}
	t.entries[key] = c
	t.order[c.Kind()] = append(t.order[c.Kind()], c)
	return true
}

// registerLocal registers a flow-scoped step or variable, qualifying the
// diagnostic subject with the owning flow.
func (t *Table) registerLocal(scope Scope, flowID string, c document.Component, bag *diag.Bag) {
	key := Key{Scope: scope, Kind: c.Kind(), ID: c.ID()}
	if _, taken := t.entries[key]; taken {
		bag.Add(diag.StageSymbols, &diag.Diagnostic{
			Kind:     diag.DuplicateIdentifier,
			Severity: diag.Error,
			Subject: diag.Subject{
				ComponentKind: string(c.Kind()),
				ComponentID:   document.QualifyID(flowID, c.ID()),
			},
			Summary: fmt.Sprintf("identifier %q is already declared in flow %q", c.ID(), flowID),
		})
		return
	}
	t.entries[key] = c
}

// Lookup returns the component registered under (scope, kind, id).
func (t *Table) Lookup(scope Scope, kind document.Kind, id string) (document.Component, bool) {
	c, ok := t.entries[Key{Scope: scope, Kind: kind, ID: id}]
	return c, ok
}

// LookupAnyKind scans the document-scoped kind namespaces in their fixed
// order for a component with the given id, regardless of kind. The resolver
// uses this to distinguish a wrong-kind reference from a plain miss.
func (t *Table) LookupAnyKind(scope Scope, id string) (document.Component, bool) {
	for _, kind := range document.DocumentKinds {
		if c, ok := t.entries[Key{Scope: scope, Kind: kind, ID: id}]; ok {
			return c, true
		}
	}
	return nil, false
}

// All returns every component of the given kind in registration order:
// declaration order first, then inline literals in resolution order.
func (t *Table) All(kind document.Kind) []document.Component {
	return t.order[kind]
}
