package validator

import (
	"context"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/flowgraph"
	"github.com/vk/loomspec/internal/ir"
	"github.com/vk/loomspec/internal/resolve"
	"github.com/vk/loomspec/internal/rules"
	"github.com/vk/loomspec/internal/symtab"
)

// Validate runs the full semantic pipeline over a structurally valid raw
// document and returns either a valid IR or the ordered diagnostics list.
// The input tree is mutated in place by the resolver (attaching handles);
// callers that need the pristine tree should reload it.
func Validate(ctx context.Context, doc *document.Document) *ir.Result {
	logger := ctxlog.FromContext(ctx)
	bag := diag.NewBag()

	table := symtab.Build(ctx, doc, bag)
	logger.Debug("pass complete", "stage", diag.StageSymbols.String(), "diagnostics", bag.Count(diag.StageSymbols))

	resolve.Run(ctx, doc, table, bag)
	logger.Debug("pass complete", "stage", diag.StageResolve.String(), "diagnostics", bag.Count(diag.StageResolve))

	states := flowgraph.Run(ctx, doc, table, bag)
	logger.Debug("pass complete", "stage", diag.StageFlowGraph.String(), "diagnostics", bag.Count(diag.StageFlowGraph))

	rules.Run(ctx, doc, table, bag)
	logger.Debug("pass complete", "stage", diag.StageRules.String(), "diagnostics", bag.Count(diag.StageRules))

	flows := make(map[string]*ir.Flow, len(doc.Flows))
	for _, f := range doc.Flows {
		flows[f.Name] = &ir.Flow{Source: f, State: states[f.Name]}
	}

	return &ir.Result{
		IR: &ir.Document{
			Source:  doc,
			Symbols: table,
			Flows:   flows,
		},
		Diagnostics: bag.Report(),
	}
}
