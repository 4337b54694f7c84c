package svg

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Edusharks/block-ide-vite-sub001/internal/geometry"
)

// Style controls the colours of a rendered block.
type Style struct {
	Fill      string
	Stroke    string
	Text      string
	FieldFill string
	FontSize  float64
}

// DefaultStyle returns the style used when the definition has no colour.
func DefaultStyle() Style {
	return Style{
		Fill:      "#4C97FF",
		Stroke:    "#3373CC",
		Text:      "#FFFFFF",
		FieldFill: "#FFFFFF",
		FontSize:  12,
	}
}

// WithFill returns s with the block colour replaced, ignoring empty values.
func (s Style) WithFill(colour string) Style {
	if colour != "" {
		s.Fill = colour
	}
	return s
}

// Render produces a standalone SVG document for a computed block geometry.
// The canvas leaves room below the block for the next-statement tab.
func Render(g geometry.Geometry, style Style) string {
	if style.FontSize == 0 {
		style.FontSize = DefaultStyle().FontSize
	}
	pad := geometry.NotchHeight + 1
	w, h := g.Width+2, g.Height+pad+1

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="-1 -1 %s %s">`, num(w), num(h), num(w), num(h))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, `  <path class="block-outline" d="%s" fill="%s" stroke="%s"/>`, g.Path, attr(style.Fill), attr(style.Stroke))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, `  <g transform="translate(%s,0)">`, num(g.ContentOffset))
	sb.WriteString("\n")
	for _, f := range g.Fields {
		fmt.Fprintf(&sb, `    <rect class="block-field" data-input-id="%d" data-kind="%s" x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s"/>`,
			f.InputID, attr(string(f.Kind)), num(f.Rect.X), num(f.Rect.Y), num(f.Rect.Width), num(f.Rect.Height), num(f.Radius),
			attr(style.FieldFill), attr(style.Stroke))
		sb.WriteString("\n")
		if len(f.Connector) > 0 {
			fmt.Fprintf(&sb, `    <path class="block-connector" d="%s" fill="%s"/>`, f.ConnectorPath(), attr(style.Stroke))
			sb.WriteString("\n")
		}
	}
	for _, l := range g.Labels {
		fmt.Fprintf(&sb, `    <text class="block-label" x="%s" y="%s" dominant-baseline="middle" font-family="monospace" font-size="%s" fill="%s">%s</text>`,
			num(l.X), num(l.Y), num(style.FontSize), attr(style.Text), html.EscapeString(l.Text))
		sb.WriteString("\n")
	}
	sb.WriteString("  </g>\n</svg>\n")
	return sb.String()
}

func attr(s string) string {
	return html.EscapeString(s)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
