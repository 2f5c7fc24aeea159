package document

import "fmt"

// Variable is a typed named slot scoped to one flow.
type Variable struct {
	Name string
	Type ValueType
}

func (v *Variable) Kind() Kind   { return KindVariable }
func (v *Variable) ID() string   { return v.Name }
func (v *Variable) Refs() []Slot { return nil }

// StepType discriminates the step variants inside a flow.
type StepType string

const (
	// StepPrompt renders a prompt against a model.
	StepPrompt StepType = "prompt"
	// StepTool invokes a declared tool through a binding map.
	StepTool StepType = "tool"
	// StepFlow invokes another flow as a nested unit.
	StepFlow StepType = "flow"
	// StepRetrieve queries a retrieval index.
	StepRetrieve StepType = "retrieve"
	// StepBranch routes on a condition variable to sibling steps or flows.
	StepBranch StepType = "branch"
)

// Step is one typed operation inside a flow. Which fields are meaningful
// depends on Type; loaders guarantee the structural pairing (a tool step
// carries a Tool reference, and so on).
type Step struct {
	Name string
	Type StepType

	Prompt  *Reference // prompt steps
	Tool    *Reference // tool steps
	Subflow *Reference // flow steps
	Index   *Reference // retrieve steps

	// Inputs and Outputs name flow-scoped variables consumed and produced
	// directly. Declaration order of steps is the default dependency order.
	Inputs  []string
	Outputs []string

	// BindIn and BindOut map the invoked unit's parameter names to local
	// variable ids for invocation-style steps (tool, flow).
	BindIn  map[string]string
	BindOut map[string]string

	// Branch fields. Condition names the variable routed on; Then and Else
	// each name a sibling step or a flow. Both targets are optional but
	// must resolve when present.
	Condition string
	Then      string
	Else      string
}

func (s *Step) Kind() Kind { return KindStep }
func (s *Step) ID() string { return s.Name }

func (s *Step) Refs() []Slot {
	var out []Slot
	if s.Prompt != nil {
		out = append(out, Slot{Field: "prompt", Ref: s.Prompt})
	}
	if s.Tool != nil {
		out = append(out, Slot{Field: "tool", Ref: s.Tool})
	}
	if s.Subflow != nil {
		out = append(out, Slot{Field: "flow", Ref: s.Subflow})
	}
	if s.Index != nil {
		out = append(out, Slot{Field: "index", Ref: s.Index})
	}
	return out
}

// Flow is a named ordered sequence of steps plus declared flow-level input
// and output variables, local variables, and an optional memory reference.
type Flow struct {
	Name    string
	Inputs  []*Variable
	Outputs []*Variable
	Locals  []*Variable
	Steps   []*Step
	Memory  *Reference // optional, expects a memory
}

func (f *Flow) Kind() Kind { return KindFlow }
func (f *Flow) ID() string { return f.Name }

func (f *Flow) Refs() []Slot {
	if f.Memory == nil {
		return nil
	}
	return []Slot{{Field: "memory", Ref: f.Memory}}
}

// Variables returns the flow's declared variables in a fixed order:
// inputs, outputs, then locals.
func (f *Flow) Variables() []*Variable {
	out := make([]*Variable, 0, len(f.Inputs)+len(f.Outputs)+len(f.Locals))
	out = append(out, f.Inputs...)
	out = append(out, f.Outputs...)
	out = append(out, f.Locals...)
	return out
}

// QualifyID renders a flow-scoped identifier for diagnostics, e.g.
// "main.summarize" for step "summarize" in flow "main".
func QualifyID(flowID, localID string) string {
	return fmt.Sprintf("%s.%s", flowID, localID)
}
