package yamladapter

import (
	"fmt"

	"github.com/vk/loomspec/internal/document"
)

func translateRoot(root *rootDoc) (*document.Document, error) {
	doc := &document.Document{}

	for _, m := range root.Models {
		model, err := translateModel(m)
		if err != nil {
			return nil, err
		}
		doc.Models = append(doc.Models, model)
	}
	for _, t := range root.Tools {
		tool, err := translateTool(t)
		if err != nil {
			return nil, err
		}
		doc.Tools = append(doc.Tools, tool)
	}
	for _, p := range root.Prompts {
		prompt, err := translatePrompt(p)
		if err != nil {
			return nil, err
		}
		doc.Prompts = append(doc.Prompts, prompt)
	}
	for _, f := range root.Flows {
		flow, err := translateFlow(f)
		if err != nil {
			return nil, err
		}
		doc.Flows = append(doc.Flows, flow)
	}
	for _, m := range root.Memories {
		doc.Memories = append(doc.Memories, &document.Memory{Name: m.ID, Strategy: m.Strategy})
	}
	for _, c := range root.CustomTypes {
		ct, err := translateCustomType(c)
		if err != nil {
			return nil, err
		}
		doc.CustomTypes = append(doc.CustomTypes, ct)
	}
	for _, a := range root.AuthProviders {
		doc.AuthProviders = append(doc.AuthProviders, &document.AuthProvider{Name: a.ID, Scheme: a.Scheme, Env: a.Env})
	}
	for _, i := range root.Indexes {
		index, err := translateIndex(i)
		if err != nil {
			return nil, err
		}
		doc.Indexes = append(doc.Indexes, index)
	}
	for _, t := range root.TelemetrySinks {
		doc.TelemetrySinks = append(doc.TelemetrySinks, &document.TelemetrySink{
			Name:     t.ID,
			Exporter: t.Exporter,
			Endpoint: t.Endpoint,
		})
	}

	return doc, nil
}

// translateRef collapses a refValue into the tagged reference variant,
// decoding inline mappings through the given constructor.
func translateRef(owner, field string, expect document.Kind, r *refValue, decodeInline func(*refValue) (document.Component, error)) (*document.Reference, error) {
	if !r.isSet() {
		return nil, nil
	}
	if r.inline == nil {
		return document.ByID(expect, r.id), nil
	}
	if decodeInline == nil {
		return nil, fmt.Errorf("%s: field %q does not accept an inline component", owner, field)
	}
	c, err := decodeInline(r)
	if err != nil {
		return nil, fmt.Errorf("%s: field %q: %w", owner, field, err)
	}
	if c.ID() == "" {
		return nil, fmt.Errorf("%s: field %q: inline components require an id", owner, field)
	}
	return document.Inline(expect, c), nil
}

func translateModel(m *modelDoc) (*document.Model, error) {
	model := &document.Model{
		Name:      m.ID,
		Provider:  m.Provider,
		ModelName: m.Name,
		Endpoint:  m.Endpoint,
	}
	auth, err := translateRef("model "+m.ID, "auth", document.KindAuthProvider, m.Auth, func(r *refValue) (document.Component, error) {
		var a authProviderDoc
		if err := r.inline.Decode(&a); err != nil {
			return nil, err
		}
		return &document.AuthProvider{Name: a.ID, Scheme: a.Scheme, Env: a.Env}, nil
	})
	if err != nil {
		return nil, err
	}
	model.Auth = auth
	return model, nil
}

func translateParams(owner string, params []*paramDoc) ([]*document.Param, error) {
	var out []*document.Param
	for _, p := range params {
		t, err := parseTypeString(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%s, parameter %q: %w", owner, p.Name, err)
		}
		out = append(out, &document.Param{Name: p.Name, Type: t, Optional: p.Optional})
	}
	return out, nil
}

func translateTool(t *toolDoc) (*document.Tool, error) {
	inputs, err := translateParams("tool "+t.ID, t.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := translateParams("tool "+t.ID, t.Outputs)
	if err != nil {
		return nil, err
	}
	return &document.Tool{
		Name:        t.ID,
		Description: t.Description,
		Inputs:      inputs,
		Outputs:     outputs,
	}, nil
}

func inlineModel(r *refValue) (document.Component, error) {
	var m modelDoc
	if err := r.inline.Decode(&m); err != nil {
		return nil, err
	}
	return translateModel(&m)
}

func translatePrompt(p *promptDoc) (*document.Prompt, error) {
	prompt := &document.Prompt{
		Name:     p.ID,
		Template: p.Template,
		Path:     p.Path,
	}
	model, err := translateRef("prompt "+p.ID, "model", document.KindModel, p.Model, inlineModel)
	if err != nil {
		return nil, err
	}
	prompt.Model = model
	return prompt, nil
}

func translateCustomType(c *customTypeDoc) (*document.CustomType, error) {
	ct := &document.CustomType{Name: c.ID}
	for _, f := range c.Fields {
		t, err := parseTypeString(f.Type)
		if err != nil {
			return nil, fmt.Errorf("custom_type %s, field %q: %w", c.ID, f.Name, err)
		}
		ct.Fields = append(ct.Fields, &document.Field{Name: f.Name, Type: t})
	}
	return ct, nil
}

func translateIndex(i *indexDoc) (*document.Index, error) {
	index := &document.Index{Name: i.ID, Store: i.Store}
	embedder, err := translateRef("index "+i.ID, "embedder", document.KindModel, i.Embedder, inlineModel)
	if err != nil {
		return nil, err
	}
	index.Embedder = embedder
	return index, nil
}

func translateVariables(owner string, vars []*variableDoc) ([]*document.Variable, error) {
	var out []*document.Variable
	for _, v := range vars {
		t, err := parseTypeString(v.Type)
		if err != nil {
			return nil, fmt.Errorf("%s, variable %q: %w", owner, v.ID, err)
		}
		out = append(out, &document.Variable{Name: v.ID, Type: t})
	}
	return out, nil
}

func translateFlow(f *flowDoc) (*document.Flow, error) {
	owner := "flow " + f.ID
	inputs, err := translateVariables(owner, f.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := translateVariables(owner, f.Outputs)
	if err != nil {
		return nil, err
	}
	locals, err := translateVariables(owner, f.Variables)
	if err != nil {
		return nil, err
	}

	flow := &document.Flow{
		Name:    f.ID,
		Inputs:  inputs,
		Outputs: outputs,
		Locals:  locals,
	}

	memory, err := translateRef(owner, "memory", document.KindMemory, f.Memory, func(r *refValue) (document.Component, error) {
		var m memoryDoc
		if err := r.inline.Decode(&m); err != nil {
			return nil, err
		}
		return &document.Memory{Name: m.ID, Strategy: m.Strategy}, nil
	})
	if err != nil {
		return nil, err
	}
	flow.Memory = memory

	for _, s := range f.Steps {
		step, err := translateStep(owner, s)
		if err != nil {
			return nil, err
		}
		flow.Steps = append(flow.Steps, step)
	}
	return flow, nil
}

func translateStep(owner string, s *stepDoc) (*document.Step, error) {
	step := &document.Step{
		Name:      s.ID,
		Type:      document.StepType(s.Type),
		Inputs:    s.Inputs,
		Outputs:   s.Outputs,
		BindIn:    s.Bind,
		BindOut:   s.Out,
		Condition: s.Condition,
		Then:      s.Then,
		Else:      s.Else,
	}
	where := fmt.Sprintf("%s, step %q", owner, s.ID)

	switch step.Type {
	case document.StepPrompt:
		if s.Prompt == "" {
			return nil, fmt.Errorf("%s: prompt steps require a prompt reference", where)
		}
		step.Prompt = document.ByID(document.KindPrompt, s.Prompt)
	case document.StepTool:
		tool, err := translateRef(where, "tool", document.KindTool, s.Tool, func(r *refValue) (document.Component, error) {
			var t toolDoc
			if err := r.inline.Decode(&t); err != nil {
				return nil, err
			}
			return translateTool(&t)
		})
		if err != nil {
			return nil, err
		}
		if tool == nil {
			return nil, fmt.Errorf("%s: tool steps require a tool reference", where)
		}
		step.Tool = tool
	case document.StepFlow:
		if s.Flow == "" {
			return nil, fmt.Errorf("%s: flow steps require a flow reference", where)
		}
		step.Subflow = document.ByID(document.KindFlow, s.Flow)
	case document.StepRetrieve:
		if s.Index == "" {
			return nil, fmt.Errorf("%s: retrieve steps require an index reference", where)
		}
		step.Index = document.ByID(document.KindIndex, s.Index)
	case document.StepBranch:
		// Condition and targets are plain fields; nothing to pair here.
	default:
		return nil, fmt.Errorf("%s: unknown step type %q", where, s.Type)
	}

	return step, nil
}
