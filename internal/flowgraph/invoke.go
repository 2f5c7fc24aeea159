package flowgraph

import (
	"fmt"
	"strings"

	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
)

// invocationEdges builds the document-wide flow-invocation adjacency list:
// for each flow, the flows it invokes through flow steps or through branch
// targets naming a flow, deduplicated, in step order.
func invocationEdges(doc *document.Document) map[string][]string {
	flowIDs := make(map[string]bool, len(doc.Flows))
	for _, f := range doc.Flows {
		flowIDs[f.Name] = true
	}

	edges := make(map[string][]string, len(doc.Flows))
	for _, f := range doc.Flows {
		seen := make(map[string]bool)
		add := func(target string) {
			if flowIDs[target] && !seen[target] {
				seen[target] = true
				edges[f.Name] = append(edges[f.Name], target)
			}
		}
		for _, s := range f.Steps {
			if s.Type == document.StepFlow && s.Subflow != nil {
				add(s.Subflow.RefID())
			}
			if s.Type == document.StepBranch {
				// Targets that shadow a sibling step id route to the step,
				// not to a flow.
				if !stepIDInFlow(f, s.Then) {
					add(s.Then)
				}
				if !stepIDInFlow(f, s.Else) {
					add(s.Else)
				}
			}
		}
	}
	return edges
}

func stepIDInFlow(f *document.Flow, id string) bool {
	for _, s := range f.Steps {
		if s.Name == id {
			return true
		}
	}
	return false
}

const (
	colorWhite = iota
	colorGray
	colorBlack
)

// detectCycles rejects cycles in the flow-invocation graph, including
// self-invocation. Each detected cycle is reported once as
// CyclicFlowInvocation, carrying the full ordered path (first flow repeated
// at the end, e.g. [A B A]). The returned slice lists every flow that is a
// member of some cycle.
//
// The traversal is iterative with an explicit frame stack, so arbitrarily
// deep invocation chains cannot exhaust the goroutine stack.
func detectCycles(doc *document.Document, bag *diag.Bag) []string {
	edges := invocationEdges(doc)
	color := make(map[string]int, len(doc.Flows))

	var members []string
	member := make(map[string]bool)

	type frame struct {
		id   string
		next int
	}

	for _, f := range doc.Flows {
		if color[f.Name] != colorWhite {
			continue
		}
		stack := []frame{{id: f.Name}}
		color[f.Name] = colorGray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			targets := edges[top.id]
			if top.next < len(targets) {
				t := targets[top.next]
				top.next++
				switch color[t] {
				case colorWhite:
					color[t] = colorGray
					stack = append(stack, frame{id: t})
				case colorGray:
					// t is on the current path: everything from its frame
					// to the top of the stack forms the cycle.
					start := 0
					for i := range stack {
						if stack[i].id == t {
							start = i
							break
						}
					}
					path := make([]string, 0, len(stack)-start+1)
					for _, fr := range stack[start:] {
						path = append(path, fr.id)
					}
					path = append(path, t)
					bag.Add(diag.StageFlowGraph, &diag.Diagnostic{
						Kind:     diag.CyclicFlowInvocation,
						Severity: diag.Error,
						Subject:  diag.Subject{ComponentKind: string(document.KindFlow), ComponentID: t},
						Summary:  fmt.Sprintf("flow invocation cycle: %s", strings.Join(path, " -> ")),
						Detail:   strings.Join(path, ","),
					})
					for _, id := range path {
						if !member[id] {
							member[id] = true
							members = append(members, id)
						}
					}
				}
			} else {
				color[top.id] = colorBlack
				stack = stack[:len(stack)-1]
			}
		}
	}
	return members
}

// propagate marks flows that invoke an invalid flow, directly or
// transitively, as Invalid themselves. The propagation is reported once per
// intrinsically invalid flow, listing every affected ancestor, rather than
// duplicated into each ancestor.
func propagate(doc *document.Document, intrinsic map[string]bool, states map[string]State, bag *diag.Bag) {
	edges := invocationEdges(doc)
	invokers := make(map[string][]string)
	for _, f := range doc.Flows {
		for _, t := range edges[f.Name] {
			invokers[t] = append(invokers[t], f.Name)
		}
	}

	invalid := make(map[string]bool, len(intrinsic))
	for id := range intrinsic {
		invalid[id] = true
	}

	for _, f := range doc.Flows {
		if !intrinsic[f.Name] {
			continue
		}
		// Collect every transitive invoker, deterministic by BFS over the
		// reverse edges with per-level declaration order.
		var affected []string
		seen := map[string]bool{f.Name: true}
		queue := append([]string(nil), invokers[f.Name]...)
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if seen[id] {
				continue
			}
			seen[id] = true
			affected = append(affected, id)
			invalid[id] = true
			queue = append(queue, invokers[id]...)
		}
		if len(affected) > 0 {
			bag.Add(diag.StageFlowGraph, &diag.Diagnostic{
				Kind:     diag.InvalidSubflowPropagation,
				Severity: diag.Warning,
				Subject:  diag.Subject{ComponentKind: string(document.KindFlow), ComponentID: f.Name},
				Summary:  fmt.Sprintf("flow %q is invalid; flows invoking it cannot be executed", f.Name),
				Detail:   "affected: " + strings.Join(affected, ", "),
			})
		}
	}

	for _, f := range doc.Flows {
		if invalid[f.Name] {
			states[f.Name] = Invalid
		} else {
			states[f.Name] = Valid
		}
	}
}
