// Package schema defines the portable artifact produced for a custom block.
//
// A Bundle pairs the declarative shape description consumed by the block editor
// (BlockSchema) with the code-generation descriptor (Codegen). The package owns the
// exact wire contract of that artifact: key order, keys that must be present with a
// null value (previousStatement, nextStatement, a wildcard check or output type) and
// keys that must be omitted entirely.
//
//	b := schema.Bundle{
//	    Shape: schema.BlockSchema{
//	        Type:    "custom_move",
//	        Message: "move %1 steps",
//	        Args: []schema.Arg{
//	            {Type: "input_value", Name: "STEPS", HasCheck: true},
//	        },
//	        PreviousStatement: true,
//	        NextStatement:     true,
//	    },
//	    Codegen: schema.Codegen{Template: "robot.move({STEPS})"},
//	}
//
//	data, err := b.MarshalIndentJSON()
//
// Default values typed by the user are coerced with ParseValue, which yields a number
// when the text is a finite number and keeps the original string otherwise.
//
// The package has no knowledge of the editing model; compilers and importers convert
// to and from it.
package schema
