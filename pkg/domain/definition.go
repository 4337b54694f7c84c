package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// TypePrefix is prepended to every derived block type.
const TypePrefix = "custom_"

var typeStrip = regexp.MustCompile(`[^a-z0-9_]`)

// Connections describes how the block attaches to its neighbours.
// Output excludes Previous and Next: enabling it clears both.
type Connections struct {
	Output     bool   `json:"output" yaml:"output" mapstructure:"output"`
	OutputType string `json:"outputType" yaml:"outputType" mapstructure:"outputType"`
	Previous   bool   `json:"previous" yaml:"previous" mapstructure:"previous"`
	Next       bool   `json:"next" yaml:"next" mapstructure:"next"`
}

// Controls reports which connection toggles are editable.
type Controls struct {
	PreviousEnabled bool `json:"previousEnabled"`
	NextEnabled     bool `json:"nextEnabled"`
}

// BlockDefinition is the in-progress definition of a custom block.
type BlockDefinition struct {
	// Name is the label template, e.g. "move %1 steps".
	Name string `json:"name"`
	// Type is derived from Name by Refresh and never set directly.
	Type           string      `json:"type"`
	Tooltip        string      `json:"tooltip"`
	Color          string      `json:"color"`
	Style          string      `json:"style"`
	InputsInline   bool        `json:"inputsInline"`
	PythonTemplate string      `json:"pythonTemplate"`
	Connections    Connections `json:"connections"`
	Inputs         InputList   `json:"inputs"`
}

// NewDefinition creates a definition populated with the built-in defaults.
func NewDefinition() *BlockDefinition {
	d := &BlockDefinition{
		Name:           "new_block",
		Color:          "#4C97FF",
		Style:          "custom_blocks",
		InputsInline:   true,
		PythonTemplate: "# python code\n",
		Connections: Connections{
			Previous: true,
			Next:     true,
		},
	}
	d.Refresh()
	return d
}

// DeriveType computes the block type from a label template: the first whitespace
// delimited token, lower-cased and stripped to [a-z0-9_], with TypePrefix prepended.
// An empty token yields an empty type.
func DeriveType(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	token := typeStrip.ReplaceAllString(strings.ToLower(fields[0]), "")
	if token == "" {
		return ""
	}
	return TypePrefix + token
}

// Refresh recomputes the derived fields.
func (d *BlockDefinition) Refresh() {
	d.Type = DeriveType(d.Name)
}

// SetName replaces the label template and re-derives the type.
func (d *BlockDefinition) SetName(name string) {
	d.Name = name
	d.Refresh()
}

// SetOutput toggles the output connection. Enabling it clears Previous and Next.
func (d *BlockDefinition) SetOutput(on bool) {
	d.Connections.Output = on
	if on {
		d.Connections.Previous = false
		d.Connections.Next = false
	}
}

// SetPrevious toggles the top notch. It cannot be enabled while the block has an output.
func (d *BlockDefinition) SetPrevious(on bool) error {
	if on && d.Connections.Output {
		return fmt.Errorf("%w: previous", ErrConnectionDisabled)
	}
	d.Connections.Previous = on
	return nil
}

// SetNext toggles the bottom notch. It cannot be enabled while the block has an output.
func (d *BlockDefinition) SetNext(on bool) error {
	if on && d.Connections.Output {
		return fmt.Errorf("%w: next", ErrConnectionDisabled)
	}
	d.Connections.Next = on
	return nil
}

// Controls reports which connection toggles the editor should allow.
func (d *BlockDefinition) Controls() Controls {
	return Controls{
		PreviousEnabled: !d.Connections.Output,
		NextEnabled:     !d.Connections.Output,
	}
}

// AddInput appends an input and makes sure the template references its position.
func (d *BlockDefinition) AddInput(kind InputKind) InputDefinition {
	in := d.Inputs.Add(kind)
	pos := d.Inputs.Len()
	if !HasPlaceholder(d.Name, pos) {
		if d.Name == "" {
			d.SetName(Placeholder(pos))
		} else {
			d.SetName(d.Name + " " + Placeholder(pos))
		}
	}
	return in
}

// RemoveInput deletes an input. The template is left as is; a dangling
// placeholder simply renders as an empty segment.
func (d *BlockDefinition) RemoveInput(id int) error {
	return d.Inputs.Remove(id)
}

// UpdateInput sets one property of an input.
func (d *BlockDefinition) UpdateInput(id int, key, raw string) error {
	return d.Inputs.Update(id, key, raw)
}

// Clone returns a deep copy suitable for export snapshots.
func (d *BlockDefinition) Clone() *BlockDefinition {
	out := *d
	out.Inputs = d.Inputs.Clone()
	return &out
}
