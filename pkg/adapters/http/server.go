package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/compiler"
	"github.com/Edusharks/block-ide-vite-sub001/internal/logging"
	"github.com/Edusharks/block-ide-vite-sub001/internal/presentation/svg"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mitchellh/mapstructure"
	"github.com/oapi-codegen/runtime"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server exposes a Factory over HTTP.
type Server struct {
	Factory *blockfactory.Factory
	Streams *StreamManager

	metrics http.Handler
	origins []string
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithAllowedOrigins restricts CORS origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server over factory.
func NewServer(factory *blockfactory.Factory, opts ...Option) *Server {
	s := &Server{
		Factory: factory,
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for factory.
func NewHandler(factory *blockfactory.Factory, opts ...Option) http.Handler {
	return NewServer(factory, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(RawSpec())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/library", s.ListLibrary)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/events", s.ApplyEvent)
			r.Get("/preview", s.GetPreview)
			r.Get("/preview.svg", s.GetPreviewSVG)
			r.Get("/export", s.ExportSession)
			r.Get("/stream", s.StreamSession)
		})
	})
	return r
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	} else if err != nil {
		s.logger.Error("failed to load OpenAPI spec", "err", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "blockfactory-http",
		"version":     blockfactory.Version,
		"api_version": apiVersion,
	})
}

// ListLibrary handles GET /library.
func (s *Server) ListLibrary(w http.ResponseWriter, r *http.Request) {
	lib := s.Factory.Library()
	if lib == nil {
		s.writeJSON(w, http.StatusOK, []any{})
		return
	}
	entries, err := lib.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Factory.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

type createSessionRequest struct {
	Library string          `json:"library"`
	Import  json.RawMessage `json:"import"`
}

type sessionResponse struct {
	ID       string                `json:"id"`
	Snapshot blockfactory.Snapshot `json:"snapshot"`
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		id   string
		snap blockfactory.Snapshot
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case len(bytes.TrimSpace(body)) == 0:
		id, snap, err = s.Factory.Create(r.Context(), nil)
	case strings.Contains(mediaType, "yaml"):
		id, snap, err = s.Factory.Import(r.Context(), body, compiler.FormatYAML)
	default:
		var req createSessionRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.logger.Warn("create session: invalid request body", "err", err)
			s.writeStatus(w, http.StatusBadRequest, "invalid request body")
			return
		}
		switch {
		case req.Library != "":
			id, snap, err = s.Factory.CreateFromLibrary(r.Context(), req.Library)
		case len(req.Import) > 0:
			id, snap, err = s.Factory.Import(r.Context(), req.Import, compiler.FormatJSON)
		default:
			id, snap, err = s.Factory.Create(r.Context(), nil)
		}
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sessionResponse{ID: id, Snapshot: snap})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	snap, err := s.Factory.Open(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if err := s.Factory.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyEvent handles POST /sessions/{id}/events.
func (s *Server) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.logger.Warn("apply event: invalid request body", "err", err)
		s.writeStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ev, err := DecodeEvent(raw)
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.Factory.Apply(r.Context(), id, ev)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.broadcast(id, snap)
	s.writeJSON(w, http.StatusOK, snap)
}

// GetPreview handles GET /sessions/{id}/preview.
func (s *Server) GetPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	snap, err := s.Factory.Open(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap.Geometry)
}

// GetPreviewSVG handles GET /sessions/{id}/preview.svg.
func (s *Server) GetPreviewSVG(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	snap, err := s.Factory.Open(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	style := svg.DefaultStyle().WithFill(snap.Definition.Color)
	w.Header().Set("Content-Type", "image/svg+xml")
	io.WriteString(w, svg.Render(snap.Geometry, style))
}

// ExportSession handles GET /sessions/{id}/export.
func (s *Server) ExportSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	format := compiler.FormatJSON
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		s.writeStatus(w, http.StatusBadRequest, fmt.Sprintf("invalid format parameter: %v", err))
		return
	}

	var buf bytes.Buffer
	name, err := s.Factory.Export(r.Context(), id, &buf, format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	contentType := "application/json"
	if f, _ := compiler.ParseFormat(format); f == compiler.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Write(buf.Bytes())
}

// StreamSession handles GET /sessions/{id}/stream (SSE).
func (s *Server) StreamSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if _, err := s.Factory.Open(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeStatus(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()
	s.logger.Info("SSE client subscribed", "session_id", id)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// DecodeEvent converts a loosely typed event document into a domain event.
// Scalars are coerced, so {"target": "2"} and {"value": true} are accepted.
func DecodeEvent(raw map[string]any) (domain.Event, error) {
	var ev domain.Event
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &ev,
	})
	if err != nil {
		return ev, err
	}
	if err := dec.Decode(raw); err != nil {
		return ev, fmt.Errorf("invalid event: %w", err)
	}
	if bv, ok := raw["value"].(bool); ok {
		ev.Value = fmt.Sprint(bv)
	}
	if ev.Kind == "" {
		return ev, errors.New("invalid event: missing kind")
	}
	return ev, nil
}

func (s *Server) broadcast(id string, snap blockfactory.Snapshot) {
	if s.Streams.Subscribers(id) == 0 {
		return
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(snap.Serialized)); err != nil {
		s.logger.Error("failed to compact snapshot", "session_id", id, "err", err)
		return
	}
	s.Streams.Broadcast(id, buf.String())
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, fmt.Sprintf("invalid session id: %v", err))
		return "", false
	}
	return id, true
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	var aggr *schema.AggregateError
	var verr *schema.ValidationError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrInputNotFound),
		errors.Is(err, domain.ErrBlockNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownProperty),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrConnectionDisabled),
		errors.Is(err, domain.ErrUnknownEvent),
		errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, compiler.ErrUnsupportedFormat),
		errors.Is(err, compiler.ErrInvalidArtifact),
		errors.As(err, &aggr),
		errors.As(err, &verr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeStatus(w, status, err.Error())
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
