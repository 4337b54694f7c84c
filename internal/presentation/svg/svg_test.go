package svg

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/Edusharks/block-ide-vite-sub001/internal/geometry"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Statement(t *testing.T) {
	def := domain.NewDefinition()
	def.SetName("say <hi> %1")
	def.AddInput(domain.KindInputValue)
	g := geometry.Compute(def, geometry.DefaultMeasurer)

	out := Render(g, DefaultStyle().WithFill("#FF8800"))

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Contains(t, out, `d="`+g.Path+`"`)
	assert.Contains(t, out, `fill="#FF8800"`)
	assert.Contains(t, out, `data-kind="input_value"`)
	assert.Contains(t, out, `class="block-connector"`)
	assert.Contains(t, out, "&lt;hi&gt;")
	assert.Contains(t, out, `translate(0,0)`)
	assert.Equal(t, 2, strings.Count(out, `class="block-label"`))

	var doc struct {
		XMLName xml.Name `xml:"svg"`
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &doc), "output must be well-formed")
}

func TestRender_ExpressionOffset(t *testing.T) {
	def := domain.NewDefinition()
	def.SetOutput(true)
	def.AddInput(domain.KindFieldCheckbox)
	g := geometry.Compute(def, geometry.DefaultMeasurer)

	out := Render(g, Style{Fill: "red"})

	assert.Contains(t, out, `translate(8,0)`)
	assert.NotContains(t, out, `class="block-connector"`)
	assert.Contains(t, out, `font-size="12"`)
}

func TestStyle_WithFill(t *testing.T) {
	s := DefaultStyle()
	assert.Equal(t, s, s.WithFill(""))
	assert.Equal(t, "#000", s.WithFill("#000").Fill)
}
