package compiler

import (
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/schema"
)

// Import rebuilds an editable definition from an artifact.
// Each argument becomes an input with a fresh id; numeric defaults are turned back
// into their text form. Fields the artifact does not carry keep their defaults.
func Import(b schema.Bundle) *domain.BlockDefinition {
	def := domain.NewDefinition()
	def.Name = b.Shape.Message
	def.Tooltip = b.Shape.Tooltip
	def.Color = b.Shape.Colour
	def.InputsInline = b.Shape.InputsInline
	def.PythonTemplate = b.Codegen.Template
	def.Connections = domain.Connections{
		Output:     b.Shape.Output,
		OutputType: b.Shape.OutputType,
		Previous:   b.Shape.PreviousStatement && !b.Shape.Output,
		Next:       b.Shape.NextStatement && !b.Shape.Output,
	}
	def.Refresh()

	for _, arg := range b.Shape.Args {
		in := def.Inputs.Add(domain.InputKind(arg.Type))
		// Edit only fails for unknown ids and in.ID was just handed out.
		_ = def.Inputs.Edit(in.ID, func(d *domain.InputDefinition) {
			d.Name = arg.Name
			d.Check = arg.Check
			d.Options = nil
			if arg.Options != nil {
				d.Options = make([]domain.Option, len(arg.Options))
				for i, o := range arg.Options {
					d.Options[i] = domain.Option{Label: o.Label(), Value: o.Value()}
				}
			}
			if arg.Default != nil {
				s := arg.Default.String()
				d.Default = &s
			}
		})
	}
	return def
}

// Load parses and imports an artifact in one step. Only malformed documents are
// rejected: empty or repeated argument names are free text, as in the editor.
func Load(data []byte, format string) (*domain.BlockDefinition, error) {
	b, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return Import(b), nil
}
