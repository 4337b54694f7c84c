package geometry

import "github.com/mattn/go-runewidth"

// Measurer returns the rendered pixel width of a run of text.
// Implementations must be deterministic for a fixed font configuration.
type Measurer interface {
	MeasureText(text string) float64
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(text string) float64

func (f MeasureFunc) MeasureText(text string) float64 { return f(text) }

// RuneWidthMeasurer approximates a monospace font: every terminal cell is CellWidth wide.
// East Asian wide runes take two cells, combining marks take none.
type RuneWidthMeasurer struct {
	CellWidth float64
}

func (m RuneWidthMeasurer) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text)) * m.CellWidth
}

// DefaultMeasurer is used when no measurer is injected.
var DefaultMeasurer Measurer = RuneWidthMeasurer{CellWidth: DefaultCellWidth}
