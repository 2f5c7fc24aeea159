package yamladapter

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// refValue carries one reference slot as authored: a scalar id or an inline
// mapping. The mapping node is kept raw and decoded against the expected
// component shape during translation.
type refValue struct {
	id     string
	inline *yaml.Node
}

func (r *refValue) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Decode(&r.id)
	case yaml.MappingNode:
		r.inline = n
		return nil
	default:
		return fmt.Errorf("line %d: a reference must be an id string or an inline mapping", n.Line)
	}
}

func (r *refValue) isSet() bool {
	return r != nil && (r.id != "" || r.inline != nil)
}

type modelDoc struct {
	ID       string    `yaml:"id"`
	Provider string    `yaml:"provider"`
	Name     string    `yaml:"name"`
	Endpoint string    `yaml:"endpoint"`
	Auth     *refValue `yaml:"auth"`
}

type paramDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
}

type toolDoc struct {
	ID          string      `yaml:"id"`
	Description string      `yaml:"description"`
	Inputs      []*paramDoc `yaml:"inputs"`
	Outputs     []*paramDoc `yaml:"outputs"`
}

type promptDoc struct {
	ID       string    `yaml:"id"`
	Template string    `yaml:"template"`
	Path     string    `yaml:"path"`
	Model    *refValue `yaml:"model"`
}

type memoryDoc struct {
	ID       string `yaml:"id"`
	Strategy string `yaml:"strategy"`
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type customTypeDoc struct {
	ID     string      `yaml:"id"`
	Fields []*fieldDoc `yaml:"fields"`
}

type authProviderDoc struct {
	ID     string `yaml:"id"`
	Scheme string `yaml:"scheme"`
	Env    string `yaml:"env"`
}

type indexDoc struct {
	ID       string    `yaml:"id"`
	Store    string    `yaml:"store"`
	Embedder *refValue `yaml:"embedder"`
}

type telemetrySinkDoc struct {
	ID       string `yaml:"id"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

type variableDoc struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
}

type stepDoc struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`

	Prompt string    `yaml:"prompt"`
	Tool   *refValue `yaml:"tool"`
	Flow   string    `yaml:"flow"`
	Index  string    `yaml:"index"`

	Inputs  []string          `yaml:"inputs"`
	Outputs []string          `yaml:"outputs"`
	Bind    map[string]string `yaml:"bind"`
	Out     map[string]string `yaml:"out"`

	Condition string `yaml:"condition"`
	Then      string `yaml:"then"`
	Else      string `yaml:"else"`
}

type flowDoc struct {
	ID        string         `yaml:"id"`
	Memory    *refValue      `yaml:"memory"`
	Inputs    []*variableDoc `yaml:"inputs"`
	Outputs   []*variableDoc `yaml:"outputs"`
	Variables []*variableDoc `yaml:"variables"`
	Steps     []*stepDoc     `yaml:"steps"`
}

type rootDoc struct {
	Models         []*modelDoc         `yaml:"models"`
	Tools          []*toolDoc          `yaml:"tools"`
	Prompts        []*promptDoc        `yaml:"prompts"`
	Flows          []*flowDoc          `yaml:"flows"`
	Memories       []*memoryDoc        `yaml:"memories"`
	CustomTypes    []*customTypeDoc    `yaml:"custom_types"`
	AuthProviders  []*authProviderDoc  `yaml:"auth_providers"`
	Indexes        []*indexDoc         `yaml:"indexes"`
	TelemetrySinks []*telemetrySinkDoc `yaml:"telemetry_sinks"`
}
