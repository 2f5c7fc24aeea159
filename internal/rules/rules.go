package rules

import (
	"context"
	"fmt"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/symtab"
)

// Rule is one independent cross-entity check. Rules assume references
// already hold resolved handles where resolution succeeded.
type Rule func(doc *document.Document, table *symtab.Table, bag *diag.Bag)

// All lists every rule in its fixed run order.
var All = []Rule{
	ReferenceKindAgreement,
	ToolCompleteness,
	PromptContentSource,
	ProviderFieldPairing,
}

// Run applies every rule. No rule's outcome suppresses another's.
func Run(ctx context.Context, doc *document.Document, table *symtab.Table, bag *diag.Bag) {
	logger := ctxlog.FromContext(ctx)
	for _, rule := range All {
		rule(doc, table, bag)
	}
	logger.Debug("cross-entity rules complete", "rules", len(All))
}

// ReferenceKindAgreement verifies that every resolved reference holds a
// target of the kind its slot requires. By-ID lookups are kind-typed, so in
// practice this catches inline literals embedded in the wrong slot: a
// memory object inside a step's tool slot, or a non-model embedder on an
// index. Memory misuse gets its own wording because memories represent
// session state, not invocable units.
func ReferenceKindAgreement(doc *document.Document, table *symtab.Table, bag *diag.Bag) {
	check := func(slot document.Slot, subject diag.Subject) {
		ref := slot.Ref
		if !ref.Resolved() || ref.Target().Kind() == ref.Expect() {
			return
		}
		subject.Field = slot.Field
		summary := fmt.Sprintf("%q is a %s, but this field requires a %s",
			ref.Target().ID(), ref.Target().Kind(), ref.Expect())
		if ref.Target().Kind() == document.KindMemory {
			summary = fmt.Sprintf("memory %q may only be attached to a flow's memory slot, not used as a %s",
				ref.Target().ID(), ref.Expect())
		}
		bag.Add(diag.StageRules, &diag.Diagnostic{
			Kind:     diag.InvalidReferenceKind,
			Severity: diag.Error,
			Subject:  subject,
			Summary:  summary,
		})
	}

	for _, c := range doc.Components() {
		for _, slot := range c.Refs() {
			check(slot, diag.Subject{ComponentKind: string(c.Kind()), ComponentID: c.ID()})
		}
	}
	for _, f := range doc.Flows {
		for _, s := range f.Steps {
			for _, slot := range s.Refs() {
				check(slot, diag.Subject{
					ComponentKind: string(document.KindStep),
					ComponentID:   document.QualifyID(f.Name, s.Name),
				})
			}
		}
	}
}

// ToolCompleteness rejects tools declaring neither input nor output
// parameters. Inline tool literals are included via the symbol table.
func ToolCompleteness(doc *document.Document, table *symtab.Table, bag *diag.Bag) {
	for _, c := range table.All(document.KindTool) {
		tool := c.(*document.Tool)
		if len(tool.Inputs) == 0 && len(tool.Outputs) == 0 {
			bag.Add(diag.StageRules, &diag.Diagnostic{
				Kind:     diag.IncompleteToolDefinition,
				Severity: diag.Error,
				Subject:  diag.Subject{ComponentKind: string(document.KindTool), ComponentID: tool.Name},
				Summary:  "tool declares neither input nor output parameters",
			})
		}
	}
}

// PromptContentSource requires exactly one of the two mutually exclusive
// content sources: inline template text or an external path.
func PromptContentSource(doc *document.Document, table *symtab.Table, bag *diag.Bag) {
	for _, c := range table.All(document.KindPrompt) {
		prompt := c.(*document.Prompt)
		hasTemplate := prompt.Template != ""
		hasPath := prompt.Path != ""
		if hasTemplate == hasPath {
			summary := "prompt declares both an inline template and an external path; exactly one is required"
			if !hasTemplate {
				summary = "prompt declares neither an inline template nor an external path; exactly one is required"
			}
			bag.Add(diag.StageRules, &diag.Diagnostic{
				Kind:     diag.AmbiguousContentSource,
				Severity: diag.Error,
				Subject:  diag.Subject{ComponentKind: string(document.KindPrompt), ComponentID: prompt.Name},
				Summary:  summary,
			})
		}
	}
}

// ProviderFieldPairing enforces provider-specific field requirements on
// models: azure deployments are addressed by endpoint, so provider "azure"
// requires one.
func ProviderFieldPairing(doc *document.Document, table *symtab.Table, bag *diag.Bag) {
	for _, c := range table.All(document.KindModel) {
		model := c.(*document.Model)
		if model.Provider == "azure" && model.Endpoint == "" {
			bag.Add(diag.StageRules, &diag.Diagnostic{
				Kind:     diag.MissingProviderField,
				Severity: diag.Error,
				Subject:  diag.Subject{ComponentKind: string(document.KindModel), ComponentID: model.Name, Field: "endpoint"},
				Summary:  `provider "azure" requires an endpoint`,
			})
		}
	}
}
