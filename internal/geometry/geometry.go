package geometry

import (
	"math"
	"strings"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
)

// Rect is an axis-aligned box in block-local coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FieldPlacement is the rounded box drawn for a referenced input.
type FieldPlacement struct {
	InputID int              `json:"inputId"`
	Name    string           `json:"name"`
	Kind    domain.InputKind `json:"kind"`
	Rect    Rect             `json:"rect"`
	Radius  float64          `json:"radius"`
	// Connector is the notch cut into value inputs. Empty for fields.
	Connector Path `json:"-"`
}

// ConnectorPath returns the serialized connector notch, or "".
func (f FieldPlacement) ConnectorPath() string {
	return f.Connector.String()
}

// LabelPlacement is a run of literal label text. Y is the vertical centre line.
type LabelPlacement struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// Geometry is the derived preview of a definition.
type Geometry struct {
	Shape  Shape   `json:"shape"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// ContentOffset is the horizontal space reserved for the output tab.
	// Field and label placements are relative to it.
	ContentOffset float64          `json:"contentOffset"`
	Outline       Path             `json:"-"`
	Path          string           `json:"path"`
	Fields        []FieldPlacement `json:"fields"`
	Labels        []LabelPlacement `json:"labels"`
}

// Compute lays out the label template of def and builds its outline.
//
// Literal segments are trimmed and measured with m; whitespace-only segments are skipped
// without advancing the cursor. A placeholder whose position has no input is dropped.
// A nil measurer falls back to DefaultMeasurer.
func Compute(def *domain.BlockDefinition, m Measurer) Geometry {
	if m == nil {
		m = DefaultMeasurer
	}

	shape := ShapeStatement
	if def.Connections.Output {
		shape = ShapeExpression
	}
	metrics := Metrics(shape)

	g := Geometry{
		Shape:  shape,
		Height: metrics.Height,
		Fields: []FieldPlacement{},
		Labels: []LabelPlacement{},
	}
	if shape == ShapeExpression {
		g.ContentOffset = OutputTabWidth / 2
	}

	fieldY := (metrics.Height - FieldHeight) / 2
	cursor := LeftPadding

	for _, tok := range domain.Tokenize(def.Name) {
		switch tok.Kind {
		case domain.TokenLiteral:
			text := strings.TrimSpace(tok.Text)
			if text == "" {
				continue
			}
			w := m.MeasureText(text)
			g.Labels = append(g.Labels, LabelPlacement{Text: text, X: cursor, Y: metrics.Height / 2, Width: w})
			cursor += w + FieldGap

		case domain.TokenPlaceholder:
			in, ok := def.Inputs.At(tok.Index)
			if !ok {
				continue
			}
			w := FieldWidth(in.Kind)
			f := FieldPlacement{
				InputID: in.ID,
				Name:    in.Name,
				Kind:    in.Kind,
				Rect:    Rect{X: cursor, Y: fieldY, Width: w, Height: FieldHeight},
				Radius:  FieldRadius,
			}
			if in.Kind.IsValue() {
				f.Connector = valueConnector(cursor, fieldY)
			}
			g.Fields = append(g.Fields, f)
			cursor += w + FieldGap
		}
	}

	g.Width = math.Max(metrics.MinWidth, cursor+RightPadding) + g.ContentOffset

	if shape == ShapeExpression {
		g.Outline = expressionOutline(g.Width, g.Height, g.ContentOffset)
	} else {
		g.Outline = statementOutline(g.Width, g.Height, def.Connections.Previous, def.Connections.Next)
	}
	g.Path = g.Outline.String()
	return g
}

// statementOutline traces a rounded rectangle clockwise from the top-left corner,
// cutting the previous notch into the top edge and adding the next tab below the bottom edge.
func statementOutline(w, h float64, previous, next bool) Path {
	r := CornerRadius
	var p Path
	p.MoveTo(0, r)
	p.ArcTo(r, r, 0)
	if previous {
		p.HorizontalTo(NotchOffset)
		p.LineTo(NotchOffset+NotchHeight, NotchHeight)
		p.HorizontalTo(NotchOffset+NotchWidth-NotchHeight)
		p.LineTo(NotchOffset+NotchWidth, 0)
	}
	p.HorizontalTo(w - r)
	p.ArcTo(r, w, r)
	p.VerticalTo(h - r)
	p.ArcTo(r, w-r, h)
	if next {
		p.HorizontalTo(NotchOffset + NotchWidth)
		p.LineTo(NotchOffset+NotchWidth-NotchHeight, h+NotchHeight)
		p.HorizontalTo(NotchOffset + NotchHeight)
		p.LineTo(NotchOffset, h)
	}
	p.HorizontalTo(r)
	p.ArcTo(r, 0, h-r)
	p.Close()
	return p
}

// expressionOutline traces the body starting at x0 and a tab reaching back to x=0.
func expressionOutline(w, h, x0 float64) Path {
	r := CornerRadius
	var p Path
	p.MoveTo(x0+r, 0)
	p.HorizontalTo(w - r)
	p.ArcTo(r, w, r)
	p.VerticalTo(h - r)
	p.ArcTo(r, w-r, h)
	p.HorizontalTo(x0 + r)
	p.ArcTo(r, x0, h-r)
	p.VerticalTo(OutputTabOffsetY + OutputTabHeight)
	p.HorizontalTo(0)
	p.VerticalTo(OutputTabOffsetY)
	p.HorizontalTo(x0)
	p.VerticalTo(r)
	p.ArcTo(r, x0+r, 0)
	p.Close()
	return p
}

func valueConnector(x, y float64) Path {
	top := y + (FieldHeight-ValueTabHeight)/2
	var p Path
	p.MoveTo(x, top)
	p.HorizontalTo(x + ValueTabWidth)
	p.VerticalTo(top + ValueTabHeight)
	p.HorizontalTo(x)
	p.Close()
	return p
}
