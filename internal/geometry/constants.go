package geometry

import "github.com/Edusharks/block-ide-vite-sub001/pkg/domain"

// Shape is the outline variant of a block.
type Shape string

const (
	// ShapeStatement chains vertically with optional top and bottom notches.
	ShapeStatement Shape = "statement"
	// ShapeExpression produces a value and carries a tab on its left edge.
	ShapeExpression Shape = "expression"
)

// BlockMetrics holds the fixed sizing of a block shape.
type BlockMetrics struct {
	MinWidth float64
	Height   float64
}

var blockMetrics = map[Shape]BlockMetrics{
	ShapeStatement:  {MinWidth: 120, Height: 40},
	ShapeExpression: {MinWidth: 120, Height: 32},
}

// Metrics returns the sizing table entry for a shape.
func Metrics(s Shape) BlockMetrics {
	if m, ok := blockMetrics[s]; ok {
		return m
	}
	return blockMetrics[ShapeStatement]
}

// Horizontal layout.
const (
	LeftPadding  = 10.0
	RightPadding = 10.0
	FieldGap     = 6.0
)

// Outline details.
const (
	CornerRadius = 4.0

	NotchOffset = 12.0
	NotchWidth  = 15.0
	NotchHeight = 4.0

	OutputTabWidth   = 16.0
	OutputTabHeight  = 16.0
	OutputTabOffsetY = 8.0
)

// Field placeholders.
const (
	FieldHeight = 24.0
	FieldRadius = 4.0

	ValueTabWidth  = 6.0
	ValueTabHeight = 12.0

	// FallbackFieldWidth is used for kinds outside the enumeration.
	FallbackFieldWidth = 40.0
)

// DefaultCellWidth is the advance of one monospace cell used by the default measurer.
const DefaultCellWidth = 7.0

// FieldWidth returns the default rendered width of an input kind.
func FieldWidth(k domain.InputKind) float64 {
	switch k {
	case domain.KindFieldInput:
		return 60
	case domain.KindFieldNumber:
		return 40
	case domain.KindFieldDropdown:
		return 80
	case domain.KindFieldCheckbox:
		return 20
	case domain.KindFieldColour:
		return 30
	case domain.KindFieldAngle:
		return 50
	case domain.KindInputValue:
		return 50
	case domain.KindInputStatement:
		return 70
	default:
		return FallbackFieldWidth
	}
}
