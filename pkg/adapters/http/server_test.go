package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/compiler"
	"github.com/Edusharks/block-ide-vite-sub001/internal/logging"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/ports"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLibrary struct {
	blocks map[string]*domain.BlockDefinition
}

func (l *stubLibrary) List(ctx context.Context) ([]ports.LibraryEntry, error) {
	var out []ports.LibraryEntry
	for id, def := range l.blocks {
		out = append(out, ports.LibraryEntry{ID: id, Type: def.Type, Name: def.Name})
	}
	return out, nil
}

func (l *stubLibrary) Get(ctx context.Context, id string) (*domain.BlockDefinition, error) {
	def, ok := l.blocks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlockNotFound, id)
	}
	return def.Clone(), nil
}

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *blockfactory.Factory) {
	t.Helper()
	seed := domain.NewDefinition()
	seed.SetName("wait %1 seconds")
	seed.AddInput(domain.KindFieldNumber)

	f := blockfactory.New(blockfactory.WithLibrary(&stubLibrary{
		blocks: map[string]*domain.BlockDefinition{"wait": seed},
	}))
	return NewHandler(f, opts...), f
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, h http.Handler, body string) sessionResponse {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", "application/json", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "blockfactory-http", info["app"])
	assert.Equal(t, blockfactory.Version, info["version"])
	assert.Equal(t, "0.4.0", info["api_version"])
}

func TestOpenAPISpec(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "Block Factory API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/sessions/{id}/events"))

	h, _ := newTestHandler(t)
	w := do(t, h, http.MethodGet, "/openapi.yaml", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestSessionLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)
	created := createSession(t, h, "")
	assert.Equal(t, "custom_new_block", created.Snapshot.Definition.Type)

	w := do(t, h, http.MethodGet, "/sessions", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)

	w = do(t, h, http.MethodGet, "/sessions/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodDelete, "/sessions/"+created.ID, "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/"+created.ID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "session not found")

	w = do(t, h, http.MethodDelete, "/sessions/"+created.ID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyEvents(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createSession(t, h, "").ID
	events := "/sessions/" + id + "/events"

	w := do(t, h, http.MethodPost, events, "application/json", `{"kind":"set_field","field":"name","value":"move"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, events, "application/json", `{"kind":"add_input","value":"input_value"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, events, "application/json", `{"kind":"update_input","target":"0","key":"name","value":"steps"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var snap blockfactory.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "custom_move", snap.Definition.Type)
	assert.Equal(t, "move %1", snap.Definition.Name)
	require.Len(t, snap.Inputs, 1)
	assert.Equal(t, "steps", snap.Inputs[0].Name)

	w = do(t, h, http.MethodPost, events, "application/json", `{"kind":"set_field","field":"output","value":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Definition.Connections.Output)
	assert.False(t, snap.Controls.PreviousEnabled)
}

func TestApplyEvents_Errors(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createSession(t, h, "").ID
	events := "/sessions/" + id + "/events"

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"missing kind", `{"value":"x"}`, http.StatusBadRequest},
		{"unknown attribute", `{"kind":"set_field","colour":"red"}`, http.StatusBadRequest},
		{"unknown event", `{"kind":"explode"}`, http.StatusBadRequest},
		{"unknown field", `{"kind":"set_field","field":"size","value":"3"}`, http.StatusBadRequest},
		{"unknown kind", `{"kind":"add_input","value":"field_slider"}`, http.StatusBadRequest},
		{"missing input", `{"kind":"remove_input","target":42}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, events, "application/json", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := do(t, h, http.MethodPost, "/sessions/missing/events", "application/json", `{"kind":"add_input","value":"input_value"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyEvents_RejectedLeavesSessionUntouched(t *testing.T) {
	h, f := newTestHandler(t)
	id := createSession(t, h, "").ID
	events := "/sessions/" + id + "/events"

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, events, "application/json", `{"kind":"set_field","field":"output","value":"true"}`).Code)
	w := do(t, h, http.MethodPost, events, "application/json", `{"kind":"set_field","field":"next","value":"true"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	snap, err := f.Open(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, snap.Definition.Connections.Output)
	assert.False(t, snap.Definition.Connections.Next)
}

func TestCreateSession_FromLibrary(t *testing.T) {
	h, _ := newTestHandler(t)

	created := createSession(t, h, `{"library":"wait"}`)
	assert.Equal(t, "custom_wait", created.Snapshot.Definition.Type)
	require.Len(t, created.Snapshot.Inputs, 1)

	w := do(t, h, http.MethodPost, "/sessions", "application/json", `{"library":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/library", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"wait"`)
}

func TestCreateSession_Import(t *testing.T) {
	h, _ := newTestHandler(t)

	def := domain.NewDefinition()
	def.SetName("say %1")
	def.AddInput(domain.KindFieldInput)
	data, err := compiler.Compile(def).MarshalIndentJSON()
	require.NoError(t, err)

	created := createSession(t, h, `{"import":`+string(data)+`}`)
	assert.Equal(t, "custom_say", created.Snapshot.Definition.Type)
	require.Len(t, created.Snapshot.Inputs, 1)

	yml, err := compiler.Encode(compiler.Compile(def), compiler.FormatYAML)
	require.NoError(t, err)
	w := do(t, h, http.MethodPost, "/sessions", "application/yaml", string(yml))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/sessions", "application/json", `{"import":{"shapeSchema":{"type":"custom_x","args0":["field_input"]}}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestPreview(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createSession(t, h, `{"library":"wait"}`).ID

	w := do(t, h, http.MethodGet, "/sessions/"+id+"/preview", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var g map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Contains(t, g, "width")

	w = do(t, h, http.MethodGet, "/sessions/"+id+"/preview.svg", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<svg"))
	assert.Contains(t, w.Body.String(), `data-kind="field_number"`)
}

func TestExport(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createSession(t, h, `{"library":"wait"}`).ID

	w := do(t, h, http.MethodGet, "/sessions/"+id+"/export", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=custom_wait.json", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"type": "custom_wait"`)

	w = do(t, h, http.MethodGet, "/sessions/"+id+"/export?format=yaml", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=custom_wait.yaml", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "type: custom_wait")

	w = do(t, h, http.MethodGet, "/sessions/"+id+"/export?format=toml", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsMounted(t *testing.T) {
	h, _ := newTestHandler(t, WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "metrics")
	})))
	w := do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "metrics", w.Body.String())

	h, _ = newTestHandler(t)
	w = do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamSession(t *testing.T) {
	srv := NewServer(blockfactory.New())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	var created sessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/"+created.ID+"/stream", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return srv.Streams.Subscribers(created.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	ev, err := http.Post(ts.URL+"/sessions/"+created.ID+"/events", "application/json",
		strings.NewReader(`{"kind":"set_field","field":"name","value":"jump"}`))
	require.NoError(t, err)
	ev.Body.Close()
	require.Equal(t, http.StatusOK, ev.StatusCode)

	var lines []string
	scanner := bufio.NewScanner(stream.Body)
	for scanner.Scan() {
		line := scanner.Text()
		lines = append(lines, line)
		if strings.HasPrefix(line, "data: {") {
			break
		}
	}
	out := strings.Join(lines, "\n")
	assert.Contains(t, out, "event: ping")
	assert.Contains(t, out, "event: snapshot")
	assert.Contains(t, out, `"type":"custom_jump"`)
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())
	ch, cancel := sm.Subscribe("s1")
	assert.Equal(t, 1, sm.Subscribers("s1"))

	sm.Broadcast("s1", "hello")
	assert.Equal(t, "hello", <-ch)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("s1"))
	_, open := <-ch
	assert.False(t, open)

	sm.Broadcast("s1", "dropped")
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent(map[string]any{"kind": "update_input", "target": float64(3), "key": "default", "value": float64(10)})
	require.NoError(t, err)
	assert.Equal(t, domain.UpdateInput(3, "default", "10"), ev)

	ev, err = DecodeEvent(map[string]any{"kind": "set_field", "field": "next", "value": false})
	require.NoError(t, err)
	assert.Equal(t, domain.SetField(domain.FieldNext, "false"), ev)

	_, err = DecodeEvent(map[string]any{"kind": "set_field", "bogus": 1})
	assert.Error(t, err)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("wrap: %w", domain.ErrSessionNotFound)))
	assert.Equal(t, http.StatusNotFound, StatusFor(domain.ErrInputNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusFor(domain.ErrConnectionDisabled))
	assert.Equal(t, http.StatusBadRequest, StatusFor(&schema.AggregateError{Errors: []error{errors.New("x")}}))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("disk on fire")))
}
