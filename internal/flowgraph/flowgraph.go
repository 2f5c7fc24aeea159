package flowgraph

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/diag"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/symtab"
)

// State is the validation state of one flow.
type State int

const (
	// Pending means validation has not started.
	Pending State = iota
	// Building means the flow's graph is under construction.
	Building
	// Valid means the flow passed every check and no invoked sub-flow is
	// invalid.
	Valid
	// Invalid means the flow failed a check itself, participates in an
	// invocation cycle, or invokes an invalid sub-flow.
	Invalid
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Building:
		return "building"
	case Valid:
		return "valid"
	default:
		return "invalid"
	}
}

// Run validates every flow and the document-wide invocation graph. The
// returned map carries each flow's final state, keyed by flow id.
func Run(ctx context.Context, doc *document.Document, table *symtab.Table, bag *diag.Bag) map[string]State {
	logger := ctxlog.FromContext(ctx)

	states := make(map[string]State, len(doc.Flows))
	intrinsic := make(map[string]bool)
	for _, f := range doc.Flows {
		states[f.Name] = Pending
	}

	for _, f := range doc.Flows {
		states[f.Name] = Building
		before := bag.Count(diag.StageFlowGraph)
		v := &flowValidator{flow: f, table: table, bag: bag}
		v.validate()
		if bag.Count(diag.StageFlowGraph) > before || v.sawUnresolved {
			intrinsic[f.Name] = true
		}
	}
	logger.Debug("per-flow validation complete", "flows", len(doc.Flows))

	for _, id := range detectCycles(doc, bag) {
		intrinsic[id] = true
	}

	propagate(doc, intrinsic, states, bag)
	return states
}

// flowValidator holds the per-flow walk state.
type flowValidator struct {
	flow  *document.Flow
	table *symtab.Table
	bag   *diag.Bag

	// sawUnresolved records that a reference owned by the flow never
	// resolved, which marks the flow invalid even though the diagnostic
	// belongs to the resolver stage.
	sawUnresolved bool
}

func (v *flowValidator) validate() {
	for _, slot := range v.flow.Refs() {
		if !slot.Ref.Resolved() {
			v.sawUnresolved = true
		}
	}

	declared := make(map[string]*document.Variable)
	for _, vr := range v.flow.Variables() {
		if vr.Type.IsCustom() && vr.Type.Custom() == nil {
			v.sawUnresolved = true
		}
		declared[vr.Name] = vr
	}
	available := make(map[string]bool)
	for _, in := range v.flow.Inputs {
		available[in.Name] = true
	}
	produced := make(map[string]bool)

	for _, s := range v.flow.Steps {
		v.validateStep(s, declared, available)
		// Outputs become available to later steps only; a step cannot
		// consume its own output.
		for _, out := range v.outputsOf(s) {
			if _, ok := declared[out]; ok {
				available[out] = true
				produced[out] = true
			}
		}
	}

	for _, out := range v.flow.Outputs {
		if !produced[out.Name] && !available[out.Name] {
			v.report(diag.UndeclaredVariable, v.subject("outputs"),
				fmt.Sprintf("flow output %q is never produced by any step", out.Name))
		}
	}
}

// outputsOf collects every variable a step produces: direct outputs plus
// output-binding targets, in declaration order.
func (v *flowValidator) outputsOf(s *document.Step) []string {
	out := append([]string(nil), s.Outputs...)
	out = append(out, sortedValues(s.BindOut)...)
	return out
}

func (v *flowValidator) validateStep(s *document.Step, declared map[string]*document.Variable, available map[string]bool) {
	for _, slot := range s.Refs() {
		if !slot.Ref.Resolved() {
			v.sawUnresolved = true
		}
	}

	for _, in := range s.Inputs {
		v.checkConsumed(in, declared, available, v.stepSubject(s, "inputs"))
	}
	for _, out := range s.Outputs {
		if _, ok := declared[out]; !ok {
			v.report(diag.UndeclaredVariable, v.stepSubject(s, "outputs"),
				fmt.Sprintf("variable %q is not declared in flow %q", out, v.flow.Name))
		}
	}

	switch s.Type {
	case document.StepTool:
		v.validateToolInvocation(s, declared, available)
	case document.StepFlow:
		v.validateFlowInvocation(s, declared, available)
	case document.StepBranch:
		if s.Condition != "" {
			v.checkConsumed(s.Condition, declared, available, v.stepSubject(s, "condition"))
		}
		v.checkBranchTarget(s, "then", s.Then)
		v.checkBranchTarget(s, "else", s.Else)
	}
}

// checkConsumed verifies one consumed variable: it must be declared in the
// flow, and either be a flow input or an output of an earlier step.
func (v *flowValidator) checkConsumed(id string, declared map[string]*document.Variable, available map[string]bool, subject diag.Subject) *document.Variable {
	vr, ok := declared[id]
	if !ok {
		v.report(diag.UndeclaredVariable, subject,
			fmt.Sprintf("variable %q is not declared in flow %q", id, v.flow.Name))
		return nil
	}
	if !available[id] {
		v.report(diag.UndeclaredVariable, subject,
			fmt.Sprintf("variable %q is consumed before any earlier step produces it", id))
	}
	return vr
}

// validateToolInvocation checks binding completeness and type compatibility
// against the invoked tool. A step whose tool reference never resolved is
// skipped here; the resolver already reported it, and there is no target to
// check bindings against.
func (v *flowValidator) validateToolInvocation(s *document.Step, declared map[string]*document.Variable, available map[string]bool) {
	if s.Tool == nil || !s.Tool.Resolved() {
		v.sawUnresolved = true
		return
	}
	tool, ok := s.Tool.Target().(*document.Tool)
	if !ok {
		// Wrong-kind target, reported by the cross-entity checker.
		return
	}

	inputs := make(map[string]*document.Param, len(tool.Inputs))
	for _, p := range tool.Inputs {
		inputs[p.Name] = p
	}
	outputs := make(map[string]*document.Param, len(tool.Outputs))
	for _, p := range tool.Outputs {
		outputs[p.Name] = p
	}

	for _, p := range tool.Inputs {
		if p.Optional {
			continue
		}
		if _, bound := s.BindIn[p.Name]; !bound {
			v.report(diag.MissingBinding, v.stepSubject(s, "bind"),
				fmt.Sprintf("required parameter %q of tool %q has no binding", p.Name, tool.Name))
		}
	}
	for _, name := range sortedKeys(s.BindIn) {
		p, known := inputs[name]
		if !known {
			v.report(diag.UnknownBinding, v.stepSubject(s, "bind"),
				fmt.Sprintf("tool %q declares no input parameter %q", tool.Name, name))
			continue
		}
		vr := v.checkConsumed(s.BindIn[name], declared, available, v.stepSubject(s, "bind."+name))
		if vr != nil {
			v.checkAssignable(vr.Type, p.Type, v.stepSubject(s, "bind."+name),
				fmt.Sprintf("variable %q", vr.Name), fmt.Sprintf("parameter %q of tool %q", p.Name, tool.Name))
		}
	}
	for _, name := range sortedKeys(s.BindOut) {
		p, known := outputs[name]
		if !known {
			v.report(diag.UnknownBinding, v.stepSubject(s, "out"),
				fmt.Sprintf("tool %q declares no output parameter %q", tool.Name, name))
			continue
		}
		vr, ok := declared[s.BindOut[name]]
		if !ok {
			v.report(diag.UndeclaredVariable, v.stepSubject(s, "out."+name),
				fmt.Sprintf("variable %q is not declared in flow %q", s.BindOut[name], v.flow.Name))
			continue
		}
		v.checkAssignable(p.Type, vr.Type, v.stepSubject(s, "out."+name),
			fmt.Sprintf("output %q of tool %q", p.Name, tool.Name), fmt.Sprintf("variable %q", vr.Name))
	}
}

// validateFlowInvocation mirrors validateToolInvocation for sub-flow
// targets: every declared input of the sub-flow is a required parameter.
func (v *flowValidator) validateFlowInvocation(s *document.Step, declared map[string]*document.Variable, available map[string]bool) {
	if s.Subflow == nil || !s.Subflow.Resolved() {
		v.sawUnresolved = true
		return
	}
	sub, ok := s.Subflow.Target().(*document.Flow)
	if !ok {
		return
	}

	inputs := make(map[string]*document.Variable, len(sub.Inputs))
	for _, in := range sub.Inputs {
		inputs[in.Name] = in
	}
	outputs := make(map[string]*document.Variable, len(sub.Outputs))
	for _, out := range sub.Outputs {
		outputs[out.Name] = out
	}

	for _, in := range sub.Inputs {
		if _, bound := s.BindIn[in.Name]; !bound {
			v.report(diag.MissingBinding, v.stepSubject(s, "bind"),
				fmt.Sprintf("required input %q of flow %q has no binding", in.Name, sub.Name))
		}
	}
	for _, name := range sortedKeys(s.BindIn) {
		param, known := inputs[name]
		if !known {
			v.report(diag.UnknownBinding, v.stepSubject(s, "bind"),
				fmt.Sprintf("flow %q declares no input %q", sub.Name, name))
			continue
		}
		vr := v.checkConsumed(s.BindIn[name], declared, available, v.stepSubject(s, "bind."+name))
		if vr != nil {
			v.checkAssignable(vr.Type, param.Type, v.stepSubject(s, "bind."+name),
				fmt.Sprintf("variable %q", vr.Name), fmt.Sprintf("input %q of flow %q", param.Name, sub.Name))
		}
	}
	for _, name := range sortedKeys(s.BindOut) {
		param, known := outputs[name]
		if !known {
			v.report(diag.UnknownBinding, v.stepSubject(s, "out"),
				fmt.Sprintf("flow %q declares no output %q", sub.Name, name))
			continue
		}
		vr, ok := declared[s.BindOut[name]]
		if !ok {
			v.report(diag.UndeclaredVariable, v.stepSubject(s, "out."+name),
				fmt.Sprintf("variable %q is not declared in flow %q", s.BindOut[name], v.flow.Name))
			continue
		}
		v.checkAssignable(param.Type, vr.Type, v.stepSubject(s, "out."+name),
			fmt.Sprintf("output %q of flow %q", param.Name, sub.Name), fmt.Sprintf("variable %q", vr.Name))
	}
}

// checkBranchTarget verifies a branch target resolves to a sibling step or
// a document-scoped flow. Both branches are statically required to
// validate; there is no notion of a runtime branch outcome in this pass.
func (v *flowValidator) checkBranchTarget(s *document.Step, field, target string) {
	if target == "" {
		return
	}
	if _, ok := v.table.Lookup(symtab.FlowScope(v.flow.Name), document.KindStep, target); ok {
		return
	}
	if _, ok := v.table.Lookup(symtab.DocumentScope(), document.KindFlow, target); ok {
		return
	}
	v.report(diag.UnresolvedReference, v.stepSubject(s, field),
		fmt.Sprintf("branch target %q is neither a step in flow %q nor a declared flow", target, v.flow.Name))
}

func (v *flowValidator) report(kind diag.Kind, subject diag.Subject, summary string) {
	v.bag.Add(diag.StageFlowGraph, &diag.Diagnostic{
		Kind:     kind,
		Severity: diag.Error,
		Subject:  subject,
		Summary:  summary,
	})
}

func (v *flowValidator) subject(field string) diag.Subject {
	return diag.Subject{
		ComponentKind: string(document.KindFlow),
		ComponentID:   v.flow.Name,
		Field:         field,
	}
}

func (v *flowValidator) stepSubject(s *document.Step, field string) diag.Subject {
	return diag.Subject{
		ComponentKind: string(document.KindStep),
		ComponentID:   document.QualifyID(v.flow.Name, s.Name),
		Field:         field,
	}
}

// sortedKeys returns map keys in lexical order. Binding maps have no
// declaration order of their own, so lexical order keeps reports stable.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedValues(m map[string]string) []string {
	vals := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		vals = append(vals, m[k])
	}
	return vals
}
