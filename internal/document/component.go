package document

import "context"

// Kind discriminates the component variants declared in a document.
type Kind string

const (
	KindModel         Kind = "model"
	KindTool          Kind = "tool"
	KindPrompt        Kind = "prompt"
	KindFlow          Kind = "flow"
	KindMemory        Kind = "memory"
	KindCustomType    Kind = "custom_type"
	KindAuthProvider  Kind = "auth_provider"
	KindIndex         Kind = "index"
	KindTelemetrySink Kind = "telemetry_sink"
	KindStep          Kind = "step"
	KindVariable      Kind = "variable"
)

// DocumentKinds lists every document-scoped kind in a fixed, deterministic
// order. Flow-scoped kinds (step, variable) are not included.
var DocumentKinds = []Kind{
	KindModel, KindTool, KindPrompt, KindFlow, KindMemory,
	KindCustomType, KindAuthProvider, KindIndex, KindTelemetrySink,
}

// Component is the capability interface shared by every declarable unit.
// The resolver and checkers operate on this closed variant set rather than
// on the concrete structs.
type Component interface {
	// Kind returns the variant discriminator.
	Kind() Kind
	// ID returns the identifier, unique within the component's scope.
	ID() string
	// Refs returns every reference slot the component owns, in declaration
	// order. Nested slots (list and map elements) are flattened with
	// indexed field paths.
	Refs() []Slot
}

// Slot pairs a reference with the field path it was declared at, so
// diagnostics can point a user at the offending field.
type Slot struct {
	Field string
	Ref   *Reference
}

// Model declares a language or embedding model endpoint.
type Model struct {
	Name      string
	Provider  string
	ModelName string
	Endpoint  string
	Auth      *Reference // optional, expects an auth_provider
}

func (m *Model) Kind() Kind { return KindModel }
func (m *Model) ID() string { return m.Name }

func (m *Model) Refs() []Slot {
	if m.Auth == nil {
		return nil
	}
	return []Slot{{Field: "auth", Ref: m.Auth}}
}

// Param declares one named, typed parameter of a tool's input or output
// schema.
type Param struct {
	Name     string
	Type     ValueType
	Optional bool
}

// Tool declares an invocable tool with input and output parameter sets.
type Tool struct {
	Name        string
	Description string
	Inputs      []*Param
	Outputs     []*Param
}

func (t *Tool) Kind() Kind   { return KindTool }
func (t *Tool) ID() string   { return t.Name }
func (t *Tool) Refs() []Slot { return nil }

// Prompt declares a prompt template. Exactly one of Template (inline text)
// and Path (external file) may be set; the cross-entity checker enforces
// this.
type Prompt struct {
	Name     string
	Template string
	Path     string
	Model    *Reference // optional, expects a model
}

func (p *Prompt) Kind() Kind { return KindPrompt }
func (p *Prompt) ID() string { return p.Name }

func (p *Prompt) Refs() []Slot {
	if p.Model == nil {
		return nil
	}
	return []Slot{{Field: "model", Ref: p.Model}}
}

// Memory declares persistent conversational or session state. Memories are
// attachable only to a flow's memory slot, never to a step.
type Memory struct {
	Name     string
	Strategy string
}

func (m *Memory) Kind() Kind   { return KindMemory }
func (m *Memory) ID() string   { return m.Name }
func (m *Memory) Refs() []Slot { return nil }

// Field is one named, typed field of a custom type.
type Field struct {
	Name string
	Type ValueType
}

// CustomType declares a user-defined structured type usable as a variable
// or parameter type.
type CustomType struct {
	Name   string
	Fields []*Field
}

func (c *CustomType) Kind() Kind   { return KindCustomType }
func (c *CustomType) ID() string   { return c.Name }
func (c *CustomType) Refs() []Slot { return nil }

// AuthProvider declares a credential source for models and tools.
type AuthProvider struct {
	Name   string
	Scheme string
	Env    string
}

func (a *AuthProvider) Kind() Kind   { return KindAuthProvider }
func (a *AuthProvider) ID() string   { return a.Name }
func (a *AuthProvider) Refs() []Slot { return nil }

// Index declares a retrieval index. Its embedder must resolve to a model.
type Index struct {
	Name     string
	Store    string
	Embedder *Reference // expects a model
}

func (i *Index) Kind() Kind { return KindIndex }
func (i *Index) ID() string { return i.Name }

func (i *Index) Refs() []Slot {
	if i.Embedder == nil {
		return nil
	}
	return []Slot{{Field: "embedder", Ref: i.Embedder}}
}

// TelemetrySink declares where execution traces should be exported. The
// validator treats it as data only; no telemetry is emitted here.
type TelemetrySink struct {
	Name     string
	Exporter string
	Endpoint string
}

func (t *TelemetrySink) Kind() Kind   { return KindTelemetrySink }
func (t *TelemetrySink) ID() string   { return t.Name }
func (t *TelemetrySink) Refs() []Slot { return nil }

// Document is the top-level raw tree: every component collection in
// declaration order, still unresolved.
type Document struct {
	Models         []*Model
	Tools          []*Tool
	Prompts        []*Prompt
	Flows          []*Flow
	Memories       []*Memory
	CustomTypes    []*CustomType
	AuthProviders  []*AuthProvider
	Indexes        []*Index
	TelemetrySinks []*TelemetrySink
}

// Components returns every document-scoped component in a fixed kind order,
// declaration order within each kind. The deterministic order underpins the
// validator's idempotence guarantee.
func (d *Document) Components() []Component {
	var out []Component
	for _, m := range d.Models {
		out = append(out, m)
	}
	for _, t := range d.Tools {
		out = append(out, t)
	}
	for _, p := range d.Prompts {
		out = append(out, p)
	}
	for _, f := range d.Flows {
		out = append(out, f)
	}
	for _, m := range d.Memories {
		out = append(out, m)
	}
	for _, c := range d.CustomTypes {
		out = append(out, c)
	}
	for _, a := range d.AuthProviders {
		out = append(out, a)
	}
	for _, i := range d.Indexes {
		out = append(out, i)
	}
	for _, t := range d.TelemetrySinks {
		out = append(out, t)
	}
	return out
}

// Merge appends every collection of other onto d. Loaders for different
// syntaxes each produce a partial document; the app merges them before
// validation.
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}
	d.Models = append(d.Models, other.Models...)
	d.Tools = append(d.Tools, other.Tools...)
	d.Prompts = append(d.Prompts, other.Prompts...)
	d.Flows = append(d.Flows, other.Flows...)
	d.Memories = append(d.Memories, other.Memories...)
	d.CustomTypes = append(d.CustomTypes, other.CustomTypes...)
	d.AuthProviders = append(d.AuthProviders, other.AuthProviders...)
	d.Indexes = append(d.Indexes, other.Indexes...)
	d.TelemetrySinks = append(d.TelemetrySinks, other.TelemetrySinks...)
}

// Loader is the interface for a syntax-specific document loader. A loader
// performs structural validation only (field names and shapes); all
// semantic checks belong to the validator.
type Loader interface {
	// Load reads every document file reachable from the given paths,
	// translates them into the raw model, and returns the merged result.
	Load(ctx context.Context, paths ...string) (*Document, error)
}
