package schema

// Option is one dropdown entry: display label, then value.
type Option [2]string

// Label returns the display text of the option.
func (o Option) Label() string { return o[0] }

// Value returns the value emitted when the option is selected.
func (o Option) Value() string { return o[1] }

// Arg describes one input of the block, in template order.
type Arg struct {
	Type string
	Name string

	// Default is nil when the key is omitted.
	Default *Value

	// Options is nil when the key is omitted.
	Options []Option

	// HasCheck controls whether the check key is written at all.
	// An empty Check with HasCheck set is written as null (accept anything).
	HasCheck bool
	Check    string
}

// BlockSchema is the declarative shape description of a block.
type BlockSchema struct {
	Type    string
	Message string
	Args    []Arg

	// PreviousStatement and NextStatement are written as null when set and omitted otherwise.
	PreviousStatement bool
	NextStatement     bool

	// Output controls the output key; an empty OutputType is written as null.
	Output     bool
	OutputType string

	InputsInline bool
	Colour       string
	Tooltip      string
}

// Codegen carries the code-generation template. The template is opaque here.
type Codegen struct {
	Template      string `json:"template" yaml:"template"`
	ProducesValue bool   `json:"producesValue" yaml:"producesValue"`
}

// Bundle is the complete export artifact.
type Bundle struct {
	Shape   BlockSchema
	Codegen Codegen
}

// Wire keys of the artifact.
const (
	KeyShape   = "shapeSchema"
	KeyCodegen = "codegen"

	KeyType              = "type"
	KeyMessage           = "message0"
	KeyArgs              = "args0"
	KeyPreviousStatement = "previousStatement"
	KeyNextStatement     = "nextStatement"
	KeyOutput            = "output"
	KeyInputsInline      = "inputsInline"
	KeyColour            = "colour"
	KeyTooltip           = "tooltip"

	KeyArgType    = "type"
	KeyArgName    = "name"
	KeyArgDefault = "default"
	KeyArgOptions = "options"
	KeyArgCheck   = "check"

	KeyTemplate      = "template"
	KeyProducesValue = "producesValue"
)
