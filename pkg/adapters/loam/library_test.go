package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Edusharks/block-ide-vite-sub001/internal/testutils"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moveBlock = `---
name: move %1 steps
tooltip: Move the sprite forward
color: "#4C97FF"
inputs:
  - type: input_value
    name: STEPS
    check: Number
---
robot.move({STEPS})
`

const turnBlock = `---
name: turn %1 by %2
output: true
output_type: Number
previous: true
inputs:
  - type: field_dropdown
    name: DIR
    options:
      - label: left
        value: LEFT
      - label: right
        value: RIGHT
  - type: field_number
    name: DEG
    default: 90
---
`

func seed(t *testing.T, files map[string]string) *Library {
	t.Helper()
	_, repo := testutils.SetupLibrary(t, files)
	return New(loam.NewTypedRepository[BlockMetadata](repo))
}

func TestLibrary_List(t *testing.T) {
	lib := seed(t, map[string]string{
		"move.md": moveBlock,
		"turn.md": turnBlock,
	})

	entries, err := lib.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "move", entries[0].ID)
	assert.Equal(t, "custom_move", entries[0].Type)
	assert.Equal(t, "Move the sprite forward", entries[0].Tooltip)
	assert.Equal(t, "turn", entries[1].ID)
	assert.Equal(t, "custom_turn", entries[1].Type)
}

func TestLibrary_Get_DecodesDefinition(t *testing.T) {
	lib := seed(t, map[string]string{"move.md": moveBlock})

	def, err := lib.Get(context.Background(), "move")
	require.NoError(t, err)

	assert.Equal(t, "move %1 steps", def.Name)
	assert.Equal(t, "custom_move", def.Type)
	assert.Equal(t, "#4C97FF", def.Color)
	assert.Equal(t, "custom_blocks", def.Style)
	assert.True(t, def.InputsInline)
	assert.Contains(t, def.PythonTemplate, "robot.move({STEPS})")
	assert.False(t, def.Connections.Output)

	require.Equal(t, 1, def.Inputs.Len())
	in, ok := def.Inputs.At(0)
	require.True(t, ok)
	assert.Equal(t, 0, in.ID)
	assert.Equal(t, domain.KindInputValue, in.Kind)
	assert.Equal(t, "STEPS", in.Name)
	assert.Equal(t, "Number", in.Check)
	assert.Nil(t, in.Default)
}

func TestLibrary_Get_OutputClearsStatementConnections(t *testing.T) {
	lib := seed(t, map[string]string{"turn.md": turnBlock})

	def, err := lib.Get(context.Background(), "turn.md")
	require.NoError(t, err)

	assert.True(t, def.Connections.Output)
	assert.Equal(t, "Number", def.Connections.OutputType)
	assert.False(t, def.Connections.Previous)
	assert.False(t, def.Connections.Next)
	assert.Equal(t, "# python code\n", def.PythonTemplate)

	dir, ok := def.Inputs.At(0)
	require.True(t, ok)
	assert.Equal(t, []domain.Option{{Label: "left", Value: "LEFT"}, {Label: "right", Value: "RIGHT"}}, dir.Options)

	deg, ok := def.Inputs.At(1)
	require.True(t, ok)
	require.NotNil(t, deg.Default)
	assert.Equal(t, "90", *deg.Default)
	assert.Equal(t, 2, def.Inputs.NextID())
}

func TestLibrary_Get_OptionLines(t *testing.T) {
	lib := seed(t, map[string]string{"pick.md": `---
name: pick %1
inputs:
  - type: field_dropdown
    options: "red,RED\nblue"
---
`})

	def, err := lib.Get(context.Background(), "pick")
	require.NoError(t, err)
	in, ok := def.Inputs.At(0)
	require.True(t, ok)
	assert.Equal(t, "DROPDOWN1", in.Name)
	assert.Equal(t, []domain.Option{{Label: "red", Value: "RED"}, {Label: "blue", Value: "blue"}}, in.Options)
}

func TestLibrary_Get_OptionMapsDefaultValueToLabel(t *testing.T) {
	lib := seed(t, map[string]string{"paint.md": `---
name: paint %1
inputs:
  - type: field_dropdown
    name: COLOUR
    options:
      - label: red
      - label: blue
        value: BLUE
---
`})

	def, err := lib.Get(context.Background(), "paint")
	require.NoError(t, err)
	in, ok := def.Inputs.At(0)
	require.True(t, ok)
	assert.Equal(t, []domain.Option{{Label: "red", Value: "red"}, {Label: "blue", Value: "BLUE"}}, in.Options)
}

func TestLibrary_Get_UnknownKind(t *testing.T) {
	lib := seed(t, map[string]string{"bad.md": `---
name: bad %1
inputs:
  - type: field_slider
---
`})

	_, err := lib.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestLibrary_Get_NotFound(t *testing.T) {
	lib := seed(t, map[string]string{"move.md": moveBlock})

	_, err := lib.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBlockNotFound)
}

func TestLibrary_List_DetectsCollisions(t *testing.T) {
	lib := seed(t, map[string]string{
		"foo.md":   "---\nid: foo\nname: foo\n---\n",
		"foo.json": `{ "id": "foo", "name": "foo" }`,
	})

	_, err := lib.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "move.md"), []byte(moveBlock), 0644))

	lib, err := Open(dir)
	require.NoError(t, err)

	entries, err := lib.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "move", entries[0].ID)
}
