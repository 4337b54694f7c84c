package loam

// BlockMetadata is the frontmatter of a library block document.
// The document body holds the python template.
type BlockMetadata struct {
	ID           string `json:"id" mapstructure:"id"`
	Name         string `json:"name" mapstructure:"name"`
	Tooltip      string `json:"tooltip" mapstructure:"tooltip"`
	Color        string `json:"color" mapstructure:"color"`
	Style        string `json:"style" mapstructure:"style"`
	InputsInline *bool  `json:"inputs_inline" mapstructure:"inputs_inline"`

	Output     bool   `json:"output" mapstructure:"output"`
	OutputType string `json:"output_type" mapstructure:"output_type"`
	Previous   bool   `json:"previous" mapstructure:"previous"`
	Next       bool   `json:"next" mapstructure:"next"`

	Inputs []InputMetadata `json:"inputs" mapstructure:"inputs"`
}

// InputMetadata describes one input in block frontmatter.
// Options accept either a list of {label, value} maps or "label,value" lines.
type InputMetadata struct {
	Type    string `json:"type" mapstructure:"type"`
	Name    string `json:"name" mapstructure:"name"`
	Default any    `json:"default" mapstructure:"default"`
	Options any    `json:"options" mapstructure:"options"`
	Check   string `json:"check" mapstructure:"check"`
}
