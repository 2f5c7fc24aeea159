package symtab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
)

func TestBuildRegistersEveryCollection(t *testing.T) {
	doc := &document.Document{
		Models: []*document.Model{{Name: "gpt4", Provider: "openai"}},
		Tools:  []*document.Tool{{Name: "search"}},
		Flows: []*document.Flow{{
			Name:   "main",
			Inputs: []*document.Variable{{Name: "q"}},
			Steps:  []*document.Step{{Name: "s1", Type: document.StepBranch}},
		}},
	}
	bag := diag.NewBag()
	table := Build(context.Background(), doc, bag)
	require.False(t, bag.HasErrors())

	_, ok := table.Lookup(DocumentScope(), document.KindModel, "gpt4")
	assert.True(t, ok)
	_, ok = table.Lookup(DocumentScope(), document.KindTool, "search")
	assert.True(t, ok)
	_, ok = table.Lookup(DocumentScope(), document.KindFlow, "main")
	assert.True(t, ok)
	_, ok = table.Lookup(FlowScope("main"), document.KindVariable, "q")
	assert.True(t, ok)
	_, ok = table.Lookup(FlowScope("main"), document.KindStep, "s1")
	assert.True(t, ok)
}

func TestBuildReportsEveryDuplicate(t *testing.T) {
	t.Run("k extra occurrences yield k diagnostics", func(t *testing.T) {
		doc := &document.Document{
			Models: []*document.Model{
				{Name: "m"}, {Name: "m"}, {Name: "m"},
			},
			Tools: []*document.Tool{
				{Name: "t", Inputs: []*document.Param{{Name: "x"}}},
				{Name: "t", Inputs: []*document.Param{{Name: "x"}}},
			},
		}
		bag := diag.NewBag()
		Build(context.Background(), doc, bag)

		dups := bag.Report().ByKind(diag.DuplicateIdentifier)
		require.Len(t, dups, 3) // two extra models, one extra tool
		assert.Contains(t, dups[0].Summary, `identifier "m" is already declared as a model`)
	})

	t.Run("different kinds may share an id", func(t *testing.T) {
		doc := &document.Document{
			Models: []*document.Model{{Name: "shared"}},
			Tools:  []*document.Tool{{Name: "shared", Inputs: []*document.Param{{Name: "x"}}}},
		}
		bag := diag.NewBag()
		Build(context.Background(), doc, bag)
		assert.False(t, bag.HasErrors())
	})

	t.Run("flow scopes are independent of each other", func(t *testing.T) {
		doc := &document.Document{
			Flows: []*document.Flow{
				{Name: "a", Steps: []*document.Step{{Name: "s", Type: document.StepBranch}}},
				{Name: "b", Steps: []*document.Step{{Name: "s", Type: document.StepBranch}}},
			},
		}
		bag := diag.NewBag()
		Build(context.Background(), doc, bag)
		assert.False(t, bag.HasErrors())
	})

	t.Run("duplicate step ids within one flow collide", func(t *testing.T) {
		doc := &document.Document{
			Flows: []*document.Flow{{
				Name: "a",
				Steps: []*document.Step{
					{Name: "s", Type: document.StepBranch},
					{Name: "s", Type: document.StepBranch},
				},
			}},
		}
		bag := diag.NewBag()
		Build(context.Background(), doc, bag)

		dups := bag.Report().ByKind(diag.DuplicateIdentifier)
		require.Len(t, dups, 1)
		assert.Equal(t, "a.s", dups[0].Subject.ComponentID)
	})
}

func TestLookupAnyKind(t *testing.T) {
	doc := &document.Document{
		Memories: []*document.Memory{{Name: "chat", Strategy: "buffer"}},
	}
	bag := diag.NewBag()
	table := Build(context.Background(), doc, bag)

	c, ok := table.LookupAnyKind(DocumentScope(), "chat")
	require.True(t, ok)
	assert.Equal(t, document.KindMemory, c.Kind())

	_, ok = table.LookupAnyKind(DocumentScope(), "missing")
	assert.False(t, ok)
}
