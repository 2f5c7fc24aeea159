// This file translates the decoded HCL schema structs into the
// format-agnostic raw document model.

package hcladapter

import (
	"context"
	"fmt"

	"github.com/vk/loomspec/internal/document"
)

func translateRoot(ctx context.Context, root *fileRoot) (*document.Document, error) {
	doc := &document.Document{}

	for _, m := range root.Models {
		model, err := translateModel(ctx, m)
		if err != nil {
			return nil, err
		}
		doc.Models = append(doc.Models, model)
	}
	for _, t := range root.Tools {
		tool, err := translateTool(ctx, t)
		if err != nil {
			return nil, err
		}
		doc.Tools = append(doc.Tools, tool)
	}
	for _, p := range root.Prompts {
		prompt, err := translatePrompt(ctx, p)
		if err != nil {
			return nil, err
		}
		doc.Prompts = append(doc.Prompts, prompt)
	}
	for _, f := range root.Flows {
		flow, err := translateFlow(ctx, f)
		if err != nil {
			return nil, err
		}
		doc.Flows = append(doc.Flows, flow)
	}
	for _, m := range root.Memories {
		doc.Memories = append(doc.Memories, translateMemory(m))
	}
	for _, c := range root.CustomTypes {
		ct, err := translateCustomType(ctx, c)
		if err != nil {
			return nil, err
		}
		doc.CustomTypes = append(doc.CustomTypes, ct)
	}
	for _, a := range root.AuthProviders {
		doc.AuthProviders = append(doc.AuthProviders, translateAuthProvider(a))
	}
	for _, i := range root.Indexes {
		index, err := translateIndex(ctx, i)
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

// refSlot builds a reference from the attribute/block pair of one slot.
// Declaring both forms at once is a structural error.
func refSlot(owner, field string, expect document.Kind, id *string, inline document.Component) (*document.Reference, error) {
	hasID := id != nil && *id != ""
	hasInline := inline != nil

	switch {
	case hasID && hasInline:
		return nil, fmt.Errorf("%s: field %q declares both an id reference and an inline block; use one", owner, field)
	case hasID:
		return document.ByID(expect, *id), nil
	case hasInline:
		return document.Inline(expect, inline), nil
	default:
		return nil, nil
	}
}

func translateModel(ctx context.Context, m *modelSchema) (*document.Model, error) {
	model := &document.Model{
		Name:      m.ID,
		Provider:  m.Provider,
		ModelName: m.Name,
		Endpoint:  m.Endpoint,
	}

	var inline document.Component
	if m.AuthBlock != nil {
		inline = translateAuthProvider(m.AuthBlock)
	}
	auth, err := refSlot("model "+m.ID, "auth", document.KindAuthProvider, m.Auth, inline)
	if err != nil {
		return nil, err
	}
	model.Auth = auth
	return model, nil
}

func translateParams(ctx context.Context, owner string, params []*paramSchema) ([]*document.Param, error) {
	var out []*document.Param
	for _, p := range params {
		t, err := typeExprToValueType(ctx, p.Type)
		if err != nil {
			return nil, fmt.Errorf("%s, parameter %q: %w", owner, p.Name, err)
		}
		out = append(out, &document.Param{Name: p.Name, Type: t, Optional: p.Optional})
	}
	return out, nil
}

func translateTool(ctx context.Context, t *toolSchema) (*document.Tool, error) {
	inputs, err := translateParams(ctx, "tool "+t.ID, t.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := translateParams(ctx, "tool "+t.ID, t.Outputs)
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

func translatePrompt(ctx context.Context, p *promptSchema) (*document.Prompt, error) {
	prompt := &document.Prompt{
		Name:     p.ID,
		Template: p.Template,
		Path:     p.Path,
	}

	var inline document.Component
	if p.ModelBlock != nil {
		m, err := translateModel(ctx, p.ModelBlock)
		if err != nil {
			return nil, err
		}
		inline = m
	}
	model, err := refSlot("prompt "+p.ID, "model", document.KindModel, p.Model, inline)
	if err != nil {
		return nil, err
	}
	prompt.Model = model
	return prompt, nil
}

func translateMemory(m *memorySchema) *document.Memory {
	return &document.Memory{Name: m.ID, Strategy: m.Strategy}
}

func translateCustomType(ctx context.Context, c *customTypeSchema) (*document.CustomType, error) {
	ct := &document.CustomType{Name: c.ID}
	for _, f := range c.Fields {
		t, err := typeExprToValueType(ctx, f.Type)
		if err != nil {
			return nil, fmt.Errorf("custom_type %s, field %q: %w", c.ID, f.Name, err)
		}
		ct.Fields = append(ct.Fields, &document.Field{Name: f.Name, Type: t})
	}
	return ct, nil
}

func translateAuthProvider(a *authProviderSchema) *document.AuthProvider {
	return &document.AuthProvider{Name: a.ID, Scheme: a.Scheme, Env: a.Env}
}

func translateIndex(ctx context.Context, i *indexSchema) (*document.Index, error) {
	index := &document.Index{Name: i.ID, Store: i.Store}

	var inline document.Component
	if i.EmbedderBlock != nil {
		m, err := translateModel(ctx, i.EmbedderBlock)
		if err != nil {
			return nil, err
		}
		inline = m
	}
	embedder, err := refSlot("index "+i.ID, "embedder", document.KindModel, i.Embedder, inline)
	if err != nil {
		return nil, err
	}
	index.Embedder = embedder
	return index, nil
}

func translateVariables(ctx context.Context, owner string, vars []*variableSchema) ([]*document.Variable, error) {
	var out []*document.Variable
	for _, v := range vars {
		t, err := typeExprToValueType(ctx, v.Type)
		if err != nil {
			return nil, fmt.Errorf("%s, variable %q: %w", owner, v.Name, err)
		}
		out = append(out, &document.Variable{Name: v.Name, Type: t})
	}
	return out, nil
}

func translateFlow(ctx context.Context, f *flowSchema) (*document.Flow, error) {
	owner := "flow " + f.ID
	inputs, err := translateVariables(ctx, owner, f.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := translateVariables(ctx, owner, f.Outputs)
	if err != nil {
		return nil, err
	}
	locals, err := translateVariables(ctx, owner, f.Locals)
	if err != nil {
		return nil, err
	}

	flow := &document.Flow{
		Name:    f.ID,
		Inputs:  inputs,
		Outputs: outputs,
		Locals:  locals,
	}

	var inlineMem document.Component
	if f.MemoryBlock != nil {
		inlineMem = translateMemory(f.MemoryBlock)
	}
	memory, err := refSlot(owner, "memory", document.KindMemory, f.Memory, inlineMem)
	if err != nil {
		return nil, err
	}
	flow.Memory = memory

	for _, s := range f.Steps {
		step, err := translateStep(ctx, owner, s)
		if err != nil {
			return nil, err
		}
		flow.Steps = append(flow.Steps, step)
	}
	return flow, nil
}

func translateStep(ctx context.Context, owner string, s *stepSchema) (*document.Step, error) {
	step := &document.Step{
		Name:      s.Name,
		Type:      document.StepType(s.Type),
		Inputs:    s.Inputs,
		Outputs:   s.Outputs,
		BindIn:    s.BindIn,
		BindOut:   s.BindOut,
		Condition: s.Condition,
		Then:      s.Then,
		Else:      s.Else,
	}
	where := fmt.Sprintf("%s, step %q", owner, s.Name)

	switch step.Type {
	case document.StepPrompt:
		if s.Prompt == nil || *s.Prompt == "" {
			return nil, fmt.Errorf("%s: prompt steps require a prompt reference", where)
		}
		step.Prompt = document.ByID(document.KindPrompt, *s.Prompt)
	case document.StepTool:
		var inline document.Component
		if s.ToolBlock != nil {
			t, err := translateTool(ctx, s.ToolBlock)
			if err != nil {
				return nil, err
			}
			inline = t
		}
		tool, err := refSlot(where, "tool", document.KindTool, s.Tool, inline)
		if err != nil {
			return nil, err
		}
		if tool == nil {
			return nil, fmt.Errorf("%s: tool steps require a tool reference", where)
		}
		step.Tool = tool
	case document.StepFlow:
		if s.Flow == nil || *s.Flow == "" {
			return nil, fmt.Errorf("%s: flow steps require a flow reference", where)
		}
		step.Subflow = document.ByID(document.KindFlow, *s.Flow)
	case document.StepRetrieve:
		if s.Index == nil || *s.Index == "" {
			return nil, fmt.Errorf("%s: retrieve steps require an index reference", where)
		}
		step.Index = document.ByID(document.KindIndex, *s.Index)
	case document.StepBranch:
		// Condition and targets are plain fields; nothing to pair here.
	default:
		return nil, fmt.Errorf("%s: unknown step type %q", where, s.Type)
	}

	return step, nil
}
