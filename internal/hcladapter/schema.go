package hcladapter

import "github.com/hashicorp/hcl/v2"

// The schema structs mirror the document syntax one-to-one for gohcl
// decoding. Reference slots appear twice where both forms are legal: an
// optional attribute for the by-ID string form and a labeled block for the
// inline literal form.

type modelSchema struct {
	ID        string              `hcl:"id,label"`
	Provider  string              `hcl:"provider"`
	Name      string              `hcl:"name,optional"`
	Endpoint  string              `hcl:"endpoint,optional"`
	Auth      *string             `hcl:"auth,optional"`
	AuthBlock *authProviderSchema `hcl:"auth_provider,block"`
}

type paramSchema struct {
	Name     string         `hcl:"id,label"`
	Type     hcl.Expression `hcl:"type"`
	Optional bool           `hcl:"optional,optional"`
}

type toolSchema struct {
	ID          string         `hcl:"id,label"`
	Description string         `hcl:"description,optional"`
	Inputs      []*paramSchema `hcl:"input,block"`
	Outputs     []*paramSchema `hcl:"output,block"`
}

type promptSchema struct {
	ID         string       `hcl:"id,label"`
	Template   string       `hcl:"template,optional"`
	Path       string       `hcl:"path,optional"`
	Model      *string      `hcl:"model,optional"`
	ModelBlock *modelSchema `hcl:"model,block"`
}

type memorySchema struct {
	ID       string `hcl:"id,label"`
	Strategy string `hcl:"strategy"`
}

type fieldSchema struct {
	Name string         `hcl:"id,label"`
	Type hcl.Expression `hcl:"type"`
}

type customTypeSchema struct {
	ID     string         `hcl:"id,label"`
	Fields []*fieldSchema `hcl:"field,block"`
}

type authProviderSchema struct {
	ID     string `hcl:"id,label"`
	Scheme string `hcl:"scheme"`
	Env    string `hcl:"env,optional"`
}

type indexSchema struct {
	ID            string       `hcl:"id,label"`
	Store         string       `hcl:"store"`
	Embedder      *string      `hcl:"embedder,optional"`
	EmbedderBlock *modelSchema `hcl:"model,block"`
}

type telemetrySinkSchema struct {
	ID       string `hcl:"id,label"`
	Exporter string `hcl:"exporter"`
	Endpoint string `hcl:"endpoint,optional"`
}

type variableSchema struct {
	Name string         `hcl:"id,label"`
	Type hcl.Expression `hcl:"type"`
}

type stepSchema struct {
	Type string `hcl:"type,label"`
	Name string `hcl:"id,label"`

	Prompt    *string      `hcl:"prompt,optional"`
	Tool      *string      `hcl:"tool,optional"`
	ToolBlock *toolSchema  `hcl:"tool,block"`
	Flow      *string      `hcl:"flow,optional"`
	Index     *string      `hcl:"index,optional"`

	Inputs  []string          `hcl:"inputs,optional"`
	Outputs []string          `hcl:"outputs,optional"`
	BindIn  map[string]string `hcl:"bind,optional"`
	BindOut map[string]string `hcl:"out,optional"`

	Condition string `hcl:"condition,optional"`
	Then      string `hcl:"then,optional"`
	Else      string `hcl:"else,optional"`
}

type flowSchema struct {
	ID          string            `hcl:"id,label"`
	Memory      *string           `hcl:"memory,optional"`
	MemoryBlock *memorySchema     `hcl:"memory,block"`
	Inputs      []*variableSchema `hcl:"input,block"`
	Outputs     []*variableSchema `hcl:"output,block"`
	Locals      []*variableSchema `hcl:"variable,block"`
	Steps       []*stepSchema     `hcl:"step,block"`
}

// fileRoot decodes all possible top-level blocks from any document file.
type fileRoot struct {
	Models         []*modelSchema         `hcl:"model,block"`
	Tools          []*toolSchema          `hcl:"tool,block"`
	Prompts        []*promptSchema        `hcl:"prompt,block"`
	Flows          []*flowSchema          `hcl:"flow,block"`
	Memories       []*memorySchema        `hcl:"memory,block"`
	CustomTypes    []*customTypeSchema    `hcl:"custom_type,block"`
	AuthProviders  []*authProviderSchema  `hcl:"auth_provider,block"`
	Indexes        []*indexSchema         `hcl:"index,block"`
	TelemetrySinks []*telemetrySinkSchema `hcl:"telemetry_sink,block"`
	Remain         hcl.Body               `hcl:",remain"`
}
