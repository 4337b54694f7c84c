package mcp

import (
	"context"
	"encoding/json"
	"testing"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(blockfactory.New())
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestToolsAreRegistered(t *testing.T) {
	s := newTestServer(t)
	msg := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	for _, name := range []string{"create_session", "set_field", "add_input", "remove_input", "update_input", "compile_block", "preview_block"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}

func TestEditingFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	created, err := s.handleCreateSession(ctx, toolRequest("create_session", nil), map[string]any{})
	require.NoError(t, err)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, "custom_new_block", created.Type)
	id := created.SessionID

	res, err := s.handleSetField(ctx, toolRequest("set_field", nil), map[string]any{"session_id": id, "field": "name", "value": "move"})
	require.NoError(t, err)
	assert.Equal(t, "custom_move", res.Type)

	res, err = s.handleAddInput(ctx, toolRequest("add_input", nil), map[string]any{"session_id": id, "kind": "field_number"})
	require.NoError(t, err)
	assert.Equal(t, "move %1", res.Name)
	require.Len(t, res.Inputs, 1)
	assert.Equal(t, "NUMBER1", res.Inputs[0].Name)

	res, err = s.handleUpdateInput(ctx, toolRequest("update_input", nil), map[string]any{"session_id": id, "input_id": float64(0), "key": "default", "value": float64(10)})
	require.NoError(t, err)
	assert.Contains(t, res.Artifact, `"default": 10`)

	res, err = s.handleSetField(ctx, toolRequest("set_field", nil), map[string]any{"session_id": id, "field": "output", "value": true})
	require.NoError(t, err)
	assert.False(t, res.Controls.PreviousEnabled)
	assert.Contains(t, res.Artifact, `"output": null`)

	res, err = s.handleRemoveInput(ctx, toolRequest("remove_input", nil), map[string]any{"session_id": id, "input_id": "0"})
	require.NoError(t, err)
	assert.Empty(t, res.Inputs)
	assert.Equal(t, "move %1", res.Name)
}

func TestToolErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	created, err := s.handleCreateSession(ctx, toolRequest("create_session", nil), map[string]any{})
	require.NoError(t, err)
	id := created.SessionID

	_, err = s.handleRemoveInput(ctx, toolRequest("remove_input", nil), map[string]any{"session_id": id, "input_id": 9})
	assert.ErrorIs(t, err, domain.ErrInputNotFound)

	_, err = s.handleAddInput(ctx, toolRequest("add_input", nil), map[string]any{"session_id": id, "kind": "field_slider"})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	_, err = s.handleSetField(ctx, toolRequest("set_field", nil), map[string]any{"session_id": "nope", "field": "name", "value": "x"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.handleSetField(ctx, toolRequest("set_field", nil), map[string]any{"field": "name", "value": "x"})
	assert.Error(t, err)

	_, err = s.handleCreateSession(ctx, toolRequest("create_session", nil), map[string]any{"library": "move"})
	assert.Error(t, err)
}

func TestCreateSession_ImportArtifact(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	artifact := `shapeSchema:
  type: custom_say
  message0: say %1
  args0:
    - type: field_input
      name: TEXT
      default: hello
codegen:
  template: say({TEXT})
`
	res, err := s.handleCreateSession(ctx, toolRequest("create_session", nil), map[string]any{"artifact": artifact})
	require.NoError(t, err)
	assert.Equal(t, "custom_say", res.Type)
	require.Len(t, res.Inputs, 1)
	assert.Equal(t, "TEXT", res.Inputs[0].Name)
	assert.Equal(t, "hello", res.Inputs[0].Default)
}

func TestCompileAndPreview(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	created, err := s.handleCreateSession(ctx, toolRequest("create_session", nil), map[string]any{})
	require.NoError(t, err)
	id := created.SessionID

	res, err := s.handleCompileBlock(ctx, toolRequest("compile_block", map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), `"type": "custom_new_block"`)

	res, err = s.handleCompileBlock(ctx, toolRequest("compile_block", map[string]any{"session_id": id, "format": "yaml"}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), "type: custom_new_block")

	res, err = s.handleCompileBlock(ctx, toolRequest("compile_block", map[string]any{"session_id": id, "format": "toml"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handlePreviewBlock(ctx, toolRequest("preview_block", map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), "<svg")

	res, err = s.handlePreviewBlock(ctx, toolRequest("preview_block", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
