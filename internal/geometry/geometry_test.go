package geometry

import (
	"strings"
	"testing"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenPerByte makes label widths easy to reason about.
var tenPerByte = MeasureFunc(func(s string) float64 { return float64(len(s)) * 10 })

func TestCompute_EmptyNameUsesMinimumWidth(t *testing.T) {
	def := domain.NewDefinition()
	def.SetName("")

	g := Compute(def, tenPerByte)

	assert.Equal(t, ShapeStatement, g.Shape)
	assert.Equal(t, Metrics(ShapeStatement).MinWidth, g.Width)
	assert.Equal(t, Metrics(ShapeStatement).Height, g.Height)
	assert.Empty(t, g.Fields)
	assert.Empty(t, g.Labels)
	assert.NotEmpty(t, g.Path)
}

func TestCompute_LabelsAndFieldsAdvanceCursor(t *testing.T) {
	def := domain.NewDefinition()
	def.SetName("move")
	def.AddInput(domain.KindInputValue)
	def.SetName("move %1 steps")

	g := Compute(def, tenPerByte)

	require.Len(t, g.Labels, 2)
	require.Len(t, g.Fields, 1)

	assert.Equal(t, "move", g.Labels[0].Text)
	assert.Equal(t, LeftPadding, g.Labels[0].X)
	assert.Equal(t, 40.0, g.Labels[0].Width)

	field := g.Fields[0]
	assert.Equal(t, "VALUE1", field.Name)
	assert.Equal(t, LeftPadding+40+FieldGap, field.Rect.X)
	assert.Equal(t, FieldWidth(domain.KindInputValue), field.Rect.Width)
	assert.Equal(t, FieldHeight, field.Rect.Height)
	assert.NotEmpty(t, field.ConnectorPath(), "value inputs carry a connector notch")

	steps := g.Labels[1]
	assert.Equal(t, "steps", steps.Text)
	assert.Equal(t, field.Rect.X+field.Rect.Width+FieldGap, steps.X)

	want := steps.X + steps.Width + FieldGap + RightPadding
	assert.Equal(t, want, g.Width)
}

func TestCompute_FieldsHaveNoConnector(t *testing.T) {
	def := domain.NewDefinition()
	def.AddInput(domain.KindFieldDropdown)

	g := Compute(def, tenPerByte)

	require.Len(t, g.Fields, 1)
	assert.Empty(t, g.Fields[0].Connector)
	assert.Equal(t, "", g.Fields[0].ConnectorPath())
}

func TestCompute_DropsUnresolvedPlaceholders(t *testing.T) {
	def := domain.NewDefinition()
	def.AddInput(domain.KindFieldNumber)
	def.SetName("go %3 %1 %99999999999999999999")

	g := Compute(def, tenPerByte)

	require.Len(t, g.Fields, 1)
	assert.Equal(t, 0, g.Fields[0].InputID)
}

func TestCompute_UnknownKindUsesFallbackWidth(t *testing.T) {
	def := domain.NewDefinition()
	in := def.AddInput(domain.KindFieldInput)
	require.NoError(t, def.UpdateInput(in.ID, domain.PropType, "field_variable"))

	g := Compute(def, tenPerByte)

	require.Len(t, g.Fields, 1)
	assert.Equal(t, FallbackFieldWidth, g.Fields[0].Rect.Width)
	assert.Empty(t, g.Fields[0].Connector)
}

func TestCompute_WhitespaceLiteralsDoNotAdvance(t *testing.T) {
	def := domain.NewDefinition()
	def.AddInput(domain.KindFieldNumber)
	def.AddInput(domain.KindFieldNumber)
	def.SetName("%1   %2")

	g := Compute(def, tenPerByte)

	require.Len(t, g.Fields, 2)
	assert.Equal(t, g.Fields[0].Rect.X+g.Fields[0].Rect.Width+FieldGap, g.Fields[1].Rect.X)
}

func TestCompute_WidthIsMonotonicInInputs(t *testing.T) {
	def := domain.NewDefinition()
	def.SetName("a")
	prev := Compute(def, tenPerByte).Width

	for _, k := range domain.Kinds() {
		def.AddInput(k)
		w := Compute(def, tenPerByte).Width
		assert.GreaterOrEqual(t, w, prev, "adding %s shrank the block", k)
		prev = w
	}
}

func TestCompute_StatementNotches(t *testing.T) {
	def := domain.NewDefinition()

	g := Compute(def, tenPerByte)
	assert.True(t, g.Outline.Contains(Segment{Op: OpLine, X: NotchOffset + NotchHeight, Y: NotchHeight}), "top notch")
	assert.True(t, g.Outline.Contains(Segment{Op: OpLine, X: NotchOffset + NotchWidth - NotchHeight, Y: g.Height + NotchHeight}), "bottom tab")

	require.NoError(t, def.SetPrevious(false))
	require.NoError(t, def.SetNext(false))
	g = Compute(def, tenPerByte)
	assert.False(t, g.Outline.Contains(Segment{Op: OpLine, X: NotchOffset + NotchHeight, Y: NotchHeight}))
	assert.False(t, g.Outline.Contains(Segment{Op: OpLine, X: NotchOffset + NotchWidth - NotchHeight, Y: g.Height + NotchHeight}))
}

func TestCompute_ExpressionShape(t *testing.T) {
	def := domain.NewDefinition()
	def.SetOutput(true)

	g := Compute(def, tenPerByte)

	assert.Equal(t, ShapeExpression, g.Shape)
	assert.Equal(t, OutputTabWidth/2, g.ContentOffset)
	assert.Equal(t, Metrics(ShapeExpression).Height, g.Height)
	assert.True(t, g.Outline.Contains(Segment{Op: OpHoriz, X: 0}), "output tab reaches the left edge")
	assert.False(t, g.Outline.Contains(Segment{Op: OpLine, X: NotchOffset + NotchHeight, Y: NotchHeight}))
	assert.True(t, strings.HasPrefix(g.Path, "M 12 0 "), g.Path)

	statement := domain.NewDefinition()
	assert.Greater(t, g.Width, Compute(statement, tenPerByte).Width)
}

func TestCompute_NilMeasurerUsesDefault(t *testing.T) {
	def := domain.NewDefinition()
	def.SetName("x")

	assert.Equal(t, Compute(def, DefaultMeasurer), Compute(def, nil))
}

func TestPath_String(t *testing.T) {
	var p Path
	p.MoveTo(0, 4)
	p.ArcTo(4, 4, 0)
	p.HorizontalTo(112.5)
	p.VerticalTo(36)
	p.LineTo(-1, 2)
	p.Close()

	assert.Equal(t, "M 0 4 A 4 4 0 0 1 4 0 H 112.5 V 36 L -1 2 Z", p.String())
	assert.Equal(t, "", Path(nil).String())
}

func TestRuneWidthMeasurer(t *testing.T) {
	m := RuneWidthMeasurer{CellWidth: 5}
	assert.Equal(t, 15.0, m.MeasureText("abc"))
	assert.Equal(t, 20.0, m.MeasureText("日本"))
	assert.Equal(t, 0.0, m.MeasureText(""))
}
