package domain

import (
	"fmt"
	"strings"
)

// InputKind identifies the widget or connector an input renders as.
type InputKind string

// Field kinds render as inline editable widgets without a connector.
const (
	KindFieldInput    InputKind = "field_input"
	KindFieldNumber   InputKind = "field_number"
	KindFieldDropdown InputKind = "field_dropdown"
	KindFieldCheckbox InputKind = "field_checkbox"
	KindFieldColour   InputKind = "field_colour"
	KindFieldAngle    InputKind = "field_angle"
)

// Value kinds render with a puzzle-tab connector and accept another block.
const (
	KindInputValue     InputKind = "input_value"
	KindInputStatement InputKind = "input_statement"
)

// Family groups input kinds by how they render and compile.
type Family int

const (
	// FamilyUnknown is reported for kinds outside the fixed enumeration.
	FamilyUnknown Family = iota
	// FamilyField inputs carry an optional default value.
	FamilyField
	// FamilyValue inputs carry a check tag.
	FamilyValue
)

// Kinds returns every known input kind, field kinds first.
func Kinds() []InputKind {
	return []InputKind{
		KindFieldInput,
		KindFieldNumber,
		KindFieldDropdown,
		KindFieldCheckbox,
		KindFieldColour,
		KindFieldAngle,
		KindInputValue,
		KindInputStatement,
	}
}

// Family reports which family the kind belongs to.
func (k InputKind) Family() Family {
	switch k {
	case KindFieldInput, KindFieldNumber, KindFieldDropdown, KindFieldCheckbox, KindFieldColour, KindFieldAngle:
		return FamilyField
	case KindInputValue, KindInputStatement:
		return FamilyValue
	default:
		return FamilyUnknown
	}
}

// IsField reports whether k renders as an inline widget.
func (k InputKind) IsField() bool { return k.Family() == FamilyField }

// IsValue reports whether k renders with a connector tab.
func (k InputKind) IsValue() bool { return k.Family() == FamilyValue }

// Known reports whether k is part of the fixed enumeration.
func (k InputKind) Known() bool { return k.Family() != FamilyUnknown }

// ParseInputKind converts a raw kind string, rejecting kinds outside the enumeration.
func ParseInputKind(raw string) (InputKind, error) {
	k := InputKind(strings.TrimSpace(raw))
	if !k.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
	return k, nil
}

// word is the trailing "_"-separated word of the kind, used for generated names.
func (k InputKind) word() string {
	s := string(k)
	if i := strings.LastIndex(s, "_"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// Input property keys accepted by InputDefinition.Set.
const (
	PropName    = "name"
	PropType    = "type"
	PropDefault = "default"
	PropOptions = "options"
	PropCheck   = "check"
)

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
}

// InputDefinition is one input of the block.
type InputDefinition struct {
	ID   int       `json:"id" yaml:"id"`
	Kind InputKind `json:"type" yaml:"type"`
	Name string    `json:"name" yaml:"name"`

	// Default is only meaningful for field kinds. Nil means "no default".
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`

	// Options is only populated for dropdown fields.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// Check restricts what a value input accepts. Empty accepts anything.
	Check string `json:"check,omitempty" yaml:"check,omitempty"`
}

// Set assigns a raw property value as typed by the user.
// Options are parsed from their line-oriented text form; everything else is stored verbatim.
func (in *InputDefinition) Set(key, raw string) error {
	switch key {
	case PropName:
		in.Name = raw
	case PropType:
		in.Kind = InputKind(raw)
	case PropDefault:
		in.Default = &raw
	case PropOptions:
		in.Options = ParseOptions(raw)
	case PropCheck:
		in.Check = raw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProperty, key)
	}
	return nil
}

// Clone returns a deep copy of the input.
func (in InputDefinition) Clone() InputDefinition {
	out := in
	if in.Default != nil {
		d := *in.Default
		out.Default = &d
	}
	if in.Options != nil {
		out.Options = append([]Option(nil), in.Options...)
	}
	return out
}

// ParseOptions reads one option per line as "label,value".
// The line is split on its first comma; a missing value defaults to the label.
// Blank lines are skipped, nothing else is rejected.
func ParseOptions(raw string) []Option {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	opts := make([]Option, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		label, value, found := strings.Cut(line, ",")
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if !found || value == "" {
			value = label
		}
		opts = append(opts, Option{Label: label, Value: value})
	}
	return opts
}

// FormatOptions is the inverse of ParseOptions, used to fill the options text box.
func FormatOptions(opts []Option) string {
	lines := make([]string, len(opts))
	for i, o := range opts {
		lines[i] = o.Label + "," + o.Value
	}
	return strings.Join(lines, "\n")
}
