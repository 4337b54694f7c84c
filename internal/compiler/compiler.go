package compiler

import (
	"strings"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/schema"
)

// Compile converts a definition into its export artifact.
// It is pure: the same definition always yields the same bundle.
func Compile(def *domain.BlockDefinition) schema.Bundle {
	items := def.Inputs.Items()
	args := make([]schema.Arg, 0, len(items))
	for _, in := range items {
		args = append(args, compileInput(in))
	}

	return schema.Bundle{
		Shape: schema.BlockSchema{
			Type:              domain.DeriveType(def.Name),
			Message:           strings.TrimSpace(def.Name),
			Args:              args,
			PreviousStatement: def.Connections.Previous && !def.Connections.Output,
			NextStatement:     def.Connections.Next && !def.Connections.Output,
			Output:            def.Connections.Output,
			OutputType:        def.Connections.OutputType,
			InputsInline:      def.InputsInline,
			Colour:            def.Color,
			Tooltip:           def.Tooltip,
		},
		Codegen: schema.Codegen{
			Template:      def.PythonTemplate,
			ProducesValue: def.Connections.Output,
		},
	}
}

func compileInput(in domain.InputDefinition) schema.Arg {
	arg := schema.Arg{
		Type: string(in.Kind),
		Name: strings.ToUpper(in.Name),
	}

	switch in.Kind.Family() {
	case domain.FamilyField:
		if in.Default != nil && *in.Default != "" {
			v := schema.ParseValue(*in.Default)
			arg.Default = &v
		}
	case domain.FamilyValue:
		arg.HasCheck = true
		arg.Check = in.Check
	}

	if in.Options != nil {
		arg.Options = make([]schema.Option, len(in.Options))
		for i, o := range in.Options {
			arg.Options[i] = schema.Option{o.Label, o.Value}
		}
	}
	return arg
}
