package flowgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/resolve"
	"github.com/vk/loomspec/internal/symtab"
)

// validateDoc runs the symbol, resolve and flow-graph passes and returns
// the report plus the per-flow states.
func validateDoc(t *testing.T, doc *document.Document) (diag.List, map[string]State) {
	t.Helper()
	ctx := context.Background()
	bag := diag.NewBag()
	table := symtab.Build(ctx, doc, bag)
	resolve.Run(ctx, doc, table, bag)
	states := Run(ctx, doc, table, bag)
	return bag.Report(), states
}

func stringVar(name string) *document.Variable {
	return &document.Variable{Name: name, Type: document.TypeOf(cty.String)}
}

// echoTool declares one required string input and one string output.
func echoTool() *document.Tool {
	return &document.Tool{
		Name:    "echo",
		Inputs:  []*document.Param{{Name: "text", Type: document.TypeOf(cty.String)}},
		Outputs: []*document.Param{{Name: "result", Type: document.TypeOf(cty.String)}},
	}
}

func TestVariableProduction(t *testing.T) {
	t.Run("input feeding output through a tool is valid", func(t *testing.T) {
		doc := &document.Document{
			Tools: []*document.Tool{echoTool()},
			Flows: []*document.Flow{{
				Name:    "main",
				Inputs:  []*document.Variable{stringVar("q")},
				Outputs: []*document.Variable{stringVar("a")},
				Steps: []*document.Step{{
					Name:    "s1",
					Type:    document.StepTool,
					Tool:    document.ByID(document.KindTool, "echo"),
					BindIn:  map[string]string{"text": "q"},
					BindOut: map[string]string{"result": "a"},
				}},
			}},
		}
		report, states := validateDoc(t, doc)
		assert.Empty(t, report)
		assert.Equal(t, Valid, states["main"])
	})

	t.Run("consuming an undeclared variable", func(t *testing.T) {
		doc := &document.Document{
			Flows: []*document.Flow{{
				Name: "main",
				Steps: []*document.Step{{
					Name:   "s1",
					Type:   document.StepBranch,
					Inputs: []string{"ghost"},
				}},
			}},
		}
		report, states := validateDoc(t, doc)

		undeclared := report.ByKind(diag.UndeclaredVariable)
		require.Len(t, undeclared, 1)
		assert.Equal(t, "main.s1", undeclared[0].Subject.ComponentID)
		assert.Equal(t, Invalid, states["main"])
	})

	t.Run("consuming before production", func(t *testing.T) {
		doc := &document.Document{
			Tools: []*document.Tool{echoTool()},
			Flows: []*document.Flow{{
				Name:    "main",
				Inputs:  []*document.Variable{stringVar("q")},
				Outputs: []*document.Variable{stringVar("a")},
				Locals:  []*document.Variable{stringVar("mid")},
				Steps: []*document.Step{
					{
						// Consumes mid before any step produces it.
						Name:    "early",
						Type:    document.StepTool,
						Tool:    document.ByID(document.KindTool, "echo"),
						BindIn:  map[string]string{"text": "mid"},
						BindOut: map[string]string{"result": "a"},
					},
					{
						Name:    "late",
						Type:    document.StepTool,
						Tool:    document.ByID(document.KindTool, "echo"),
						BindIn:  map[string]string{"text": "q"},
						BindOut: map[string]string{"result": "mid"},
					},
				},
			}},
		}
		report, _ := validateDoc(t, doc)

		undeclared := report.ByKind(diag.UndeclaredVariable)
		require.Len(t, undeclared, 1)
		assert.Contains(t, undeclared[0].Summary, "before any earlier step")
	})

	t.Run("flow output never produced", func(t *testing.T) {
		doc := &document.Document{
			Flows: []*document.Flow{{
				Name:    "main",
				Outputs: []*document.Variable{stringVar("a")},
			}},
		}
		report, _ := validateDoc(t, doc)

		undeclared := report.ByKind(diag.UndeclaredVariable)
		require.Len(t, undeclared, 1)
		assert.Contains(t, undeclared[0].Summary, "never produced")
	})
}

func TestBindingCompleteness(t *testing.T) {
	flowWithBindings := func(bindIn map[string]string) *document.Document {
		return &document.Document{
			Tools: []*document.Tool{echoTool()},
			Flows: []*document.Flow{{
				Name:    "main",
				Inputs:  []*document.Variable{stringVar("q")},
				Outputs: []*document.Variable{stringVar("a")},
				Steps: []*document.Step{{
					Name:    "s1",
					Type:    document.StepTool,
					Tool:    document.ByID(document.KindTool, "echo"),
					BindIn:  bindIn,
					BindOut: map[string]string{"result": "a"},
				}},
			}},
		}
	}

	t.Run("omitting the only required binding", func(t *testing.T) {
		report, _ := validateDoc(t, flowWithBindings(nil))

		missing := report.ByKind(diag.MissingBinding)
		require.Len(t, missing, 1)
		assert.Contains(t, missing[0].Summary, `"text"`)
	})

	t.Run("adding the binding makes the document valid", func(t *testing.T) {
		report, states := validateDoc(t, flowWithBindings(map[string]string{"text": "q"}))
		assert.Empty(t, report)
		assert.Equal(t, Valid, states["main"])
	})

	t.Run("optional parameters need no binding", func(t *testing.T) {
		doc := flowWithBindings(map[string]string{"text": "q"})
		doc.Tools[0].Inputs = append(doc.Tools[0].Inputs, &document.Param{
			Name: "verbose", Type: document.TypeOf(cty.Bool), Optional: true,
		})
		report, _ := validateDoc(t, doc)
		assert.Empty(t, report)
	})

	t.Run("out-binding targeting an undeclared variable", func(t *testing.T) {
		doc := flowWithBindings(map[string]string{"text": "q"})
		doc.Flows[0].Outputs = nil
		doc.Flows[0].Steps[0].BindOut = map[string]string{"result": "typo"}
		report, states := validateDoc(t, doc)

		undeclared := report.ByKind(diag.UndeclaredVariable)
		require.Len(t, undeclared, 1)
		assert.Equal(t, "out.result", undeclared[0].Subject.Field)
		assert.Contains(t, undeclared[0].Summary, `"typo"`)
		assert.Equal(t, Invalid, states["main"])
	})

	t.Run("binding an unknown parameter", func(t *testing.T) {
		report, _ := validateDoc(t, flowWithBindings(map[string]string{"text": "q", "bogus": "q"}))

		unknown := report.ByKind(diag.UnknownBinding)
		require.Len(t, unknown, 1)
		assert.Contains(t, unknown[0].Summary, `"bogus"`)
	})

	t.Run("unresolved tool suppresses binding checks for that step only", func(t *testing.T) {
		doc := flowWithBindings(nil)
		doc.Flows[0].Steps[0].Tool = document.ByID(document.KindTool, "ghost")
		report, states := validateDoc(t, doc)

		assert.Len(t, report.ByKind(diag.UnresolvedReference), 1)
		assert.Empty(t, report.ByKind(diag.MissingBinding))
		assert.Equal(t, Invalid, states["main"])
	})
}

func TestUnresolvedFlowReferencesInvalidateState(t *testing.T) {
	t.Run("memory reference", func(t *testing.T) {
		doc := &document.Document{
			Flows: []*document.Flow{{
				Name:   "main",
				Memory: document.ByID(document.KindMemory, "ghost"),
			}},
		}
		report, states := validateDoc(t, doc)

		assert.Len(t, report.ByKind(diag.UnresolvedReference), 1)
		assert.Equal(t, Invalid, states["main"])
	})

	t.Run("variable with an unresolved custom type", func(t *testing.T) {
		doc := &document.Document{
			Flows: []*document.Flow{{
				Name:   "main",
				Inputs: []*document.Variable{{Name: "d", Type: document.CustomTypeRef("ghost")}},
			}},
		}
		report, states := validateDoc(t, doc)

		assert.Len(t, report.ByKind(diag.UnresolvedReference), 1)
		assert.Equal(t, Invalid, states["main"])
	})

	t.Run("resolved memory keeps the flow valid", func(t *testing.T) {
		doc := &document.Document{
			Memories: []*document.Memory{{Name: "chat", Strategy: "buffer"}},
			Flows: []*document.Flow{{
				Name:   "main",
				Memory: document.ByID(document.KindMemory, "chat"),
			}},
		}
		report, states := validateDoc(t, doc)
		assert.Empty(t, report)
		assert.Equal(t, Valid, states["main"])
	})
}

func TestBindingTypeCompatibility(t *testing.T) {
	doc := &document.Document{
		Tools: []*document.Tool{echoTool()},
		Flows: []*document.Flow{{
			Name:    "main",
			Inputs:  []*document.Variable{{Name: "items", Type: document.TypeOf(cty.List(cty.String))}},
			Outputs: []*document.Variable{stringVar("a")},
			Steps: []*document.Step{{
				Name:    "s1",
				Type:    document.StepTool,
				Tool:    document.ByID(document.KindTool, "echo"),
				BindIn:  map[string]string{"text": "items"},
				BindOut: map[string]string{"result": "a"},
			}},
		}},
	}
	report, _ := validateDoc(t, doc)

	mismatches := report.ByKind(diag.TypeMismatch)
	require.Len(t, mismatches, 1)
	assert.Contains(t, mismatches[0].Summary, "list of string")
}

func TestSubflowBindings(t *testing.T) {
	sub := &document.Flow{
		Name:    "sub",
		Inputs:  []*document.Variable{stringVar("x")},
		Outputs: []*document.Variable{stringVar("y")},
		Steps: []*document.Step{{
			Name:    "inner",
			Type:    document.StepTool,
			Tool:    document.ByID(document.KindTool, "echo"),
			BindIn:  map[string]string{"text": "x"},
			BindOut: map[string]string{"result": "y"},
		}},
	}
	main := &document.Flow{
		Name:    "main",
		Inputs:  []*document.Variable{stringVar("q")},
		Outputs: []*document.Variable{stringVar("a")},
		Steps: []*document.Step{{
			Name:    "call",
			Type:    document.StepFlow,
			Subflow: document.ByID(document.KindFlow, "sub"),
			BindIn:  map[string]string{"x": "q"},
			BindOut: map[string]string{"y": "a"},
		}},
	}

	t.Run("complete bindings are valid", func(t *testing.T) {
		doc := &document.Document{Tools: []*document.Tool{echoTool()}, Flows: []*document.Flow{sub, main}}
		report, states := validateDoc(t, doc)
		assert.Empty(t, report)
		assert.Equal(t, Valid, states["main"])
		assert.Equal(t, Valid, states["sub"])
	})

	t.Run("out-binding targeting an undeclared variable", func(t *testing.T) {
		retargeted := *main
		retargeted.Outputs = nil
		retargeted.Steps = []*document.Step{{
			Name:    "call",
			Type:    document.StepFlow,
			Subflow: document.ByID(document.KindFlow, "sub"),
			BindIn:  map[string]string{"x": "q"},
			BindOut: map[string]string{"y": "typo"},
		}}
		doc := &document.Document{Tools: []*document.Tool{echoTool()}, Flows: []*document.Flow{sub, &retargeted}}
		report, states := validateDoc(t, doc)

		undeclared := report.ByKind(diag.UndeclaredVariable)
		require.Len(t, undeclared, 1)
		assert.Equal(t, "out.y", undeclared[0].Subject.Field)
		assert.Equal(t, Invalid, states["main"])
	})

	t.Run("every sub-flow input is required", func(t *testing.T) {
		stripped := *main
		stripped.Steps = []*document.Step{{
			Name:    "call",
			Type:    document.StepFlow,
			Subflow: document.ByID(document.KindFlow, "sub"),
			BindOut: map[string]string{"y": "a"},
		}}
		doc := &document.Document{Tools: []*document.Tool{echoTool()}, Flows: []*document.Flow{sub, &stripped}}
		report, _ := validateDoc(t, doc)

		missing := report.ByKind(diag.MissingBinding)
		require.Len(t, missing, 1)
		assert.Contains(t, missing[0].Summary, `"x"`)
	})
}

func TestBranchTargets(t *testing.T) {
	branchFlow := func(then, els string) *document.Document {
		return &document.Document{
			Flows: []*document.Flow{
				{
					Name:   "other",
					Inputs: nil,
				},
				{
					Name:   "main",
					Inputs: []*document.Variable{{Name: "flag", Type: document.TypeOf(cty.Bool)}},
					Steps: []*document.Step{
						{Name: "decide", Type: document.StepBranch, Condition: "flag", Then: then, Else: els},
						{Name: "after", Type: document.StepBranch},
					},
				},
			},
		}
	}

	t.Run("sibling step and flow targets resolve", func(t *testing.T) {
		report, _ := validateDoc(t, branchFlow("after", "other"))
		assert.Empty(t, report)
	})

	t.Run("both targets are optional", func(t *testing.T) {
		report, _ := validateDoc(t, branchFlow("", ""))
		assert.Empty(t, report)
	})

	t.Run("a present target must resolve", func(t *testing.T) {
		report, _ := validateDoc(t, branchFlow("after", "ghost"))

		unresolved := report.ByKind(diag.UnresolvedReference)
		require.Len(t, unresolved, 1)
		assert.Equal(t, "else", unresolved[0].Subject.Field)
		assert.Contains(t, unresolved[0].Summary, `"ghost"`)
	})
}
