package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	blockfactory "github.com/Edusharks/block-ide-vite-sub001"
	"github.com/Edusharks/block-ide-vite-sub001/internal/compiler"
	"github.com/Edusharks/block-ide-vite-sub001/internal/editor"
	"github.com/Edusharks/block-ide-vite-sub001/internal/logging"
	"github.com/Edusharks/block-ide-vite-sub001/internal/presentation/svg"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// LibraryURI is the resource listing the block library.
const LibraryURI = "blockfactory://library"

// SessionResult is the structured result of every editing tool.
type SessionResult struct {
	SessionID string            `json:"session_id" jsonschema_description:"The session to pass to follow-up tools"`
	Type      string            `json:"type" jsonschema_description:"Derived block type"`
	Name      string            `json:"name" jsonschema_description:"Label template"`
	Inputs    []editor.InputRow `json:"inputs" jsonschema_description:"Inputs in template order"`
	Controls  domain.Controls   `json:"controls" jsonschema_description:"Which connection toggles are editable"`
	Artifact  string            `json:"artifact" jsonschema_description:"Pretty-printed JSON export artifact"`
}

// Server exposes a Factory as an MCP server.
type Server struct {
	factory   *blockfactory.Factory
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server over factory.
func NewServer(factory *blockfactory.Factory, opts ...Option) *Server {
	s := &Server{
		factory:   factory,
		mcpServer: server.NewMCPServer("blockfactory-mcp", blockfactory.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
	}))
	r.Handle("/sse", sseServer.SSEHandler())
	r.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Start editing a new block. Seeds from a library block or an exported artifact when given, otherwise from the defaults."),
		mcp.WithString("library", mcp.Description("ID of a library block to start from (optional)")),
		mcp.WithString("artifact", mcp.Description("Exported artifact (JSON or YAML) to import (optional)")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleCreateSession))

	s.mcpServer.AddTool(mcp.NewTool("set_field",
		mcp.WithDescription("Change one definition field. Boolean fields (inputsInline, output, previous, next) accept true/false."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field ID"), mcp.Enum(fieldNames()...)),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleSetField))

	s.mcpServer.AddTool(mcp.NewTool("add_input",
		mcp.WithDescription("Append an input. The label template gains a %N placeholder when it lacks one."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Input kind"), mcp.Enum(kindNames()...)),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleAddInput))

	s.mcpServer.AddTool(mcp.NewTool("remove_input",
		mcp.WithDescription("Remove an input by ID. The label template is left unchanged."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithNumber("input_id", mcp.Required(), mcp.Description("Input ID")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleRemoveInput))

	s.mcpServer.AddTool(mcp.NewTool("update_input",
		mcp.WithDescription("Set one property of an input. Options are one \"label,value\" pair per line."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithNumber("input_id", mcp.Required(), mcp.Description("Input ID")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Property"),
			mcp.Enum(domain.PropName, domain.PropType, domain.PropDefault, domain.PropOptions, domain.PropCheck)),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		mcp.WithOutputSchema[SessionResult](),
	), mcp.NewStructuredToolHandler(s.handleUpdateInput))

	s.mcpServer.AddTool(mcp.NewTool("compile_block",
		mcp.WithDescription("Return the export artifact of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("format", mcp.Description("json (default) or yaml"), mcp.Enum(compiler.FormatJSON, compiler.FormatYAML)),
	), s.handleCompileBlock)

	s.mcpServer.AddTool(mcp.NewTool("preview_block",
		mcp.WithDescription("Render the block preview as an SVG document."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handlePreviewBlock)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(LibraryURI, "Block library",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		lib := s.factory.Library()
		if lib == nil {
			return nil, errors.New("no block library configured")
		}
		entries, err := lib.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list library: %w", err)
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      LibraryURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

type createArgs struct {
	Library  string `mapstructure:"library"`
	Artifact string `mapstructure:"artifact"`
}

type setFieldArgs struct {
	SessionID string `mapstructure:"session_id"`
	Field     string `mapstructure:"field"`
	Value     string `mapstructure:"value"`
}

type addInputArgs struct {
	SessionID string `mapstructure:"session_id"`
	Kind      string `mapstructure:"kind"`
}

type inputArgs struct {
	SessionID string `mapstructure:"session_id"`
	InputID   int    `mapstructure:"input_id"`
	Key       string `mapstructure:"key"`
	Value     string `mapstructure:"value"`
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResult, error) {
	var in createArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResult{}, err
	}

	var (
		id   string
		snap blockfactory.Snapshot
		err  error
	)
	switch {
	case in.Library != "":
		id, snap, err = s.factory.CreateFromLibrary(ctx, in.Library)
	case strings.TrimSpace(in.Artifact) != "":
		id, snap, err = s.factory.Import(ctx, []byte(in.Artifact), "")
	default:
		id, snap, err = s.factory.Create(ctx, nil)
	}
	if err != nil {
		return SessionResult{}, fmt.Errorf("create session failed: %w", err)
	}
	return toResult(id, snap), nil
}

func (s *Server) handleSetField(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResult, error) {
	var in setFieldArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResult{}, err
	}
	return s.apply(ctx, in.SessionID, domain.SetField(domain.Field(in.Field), in.Value))
}

func (s *Server) handleAddInput(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResult, error) {
	var in addInputArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResult{}, err
	}
	return s.apply(ctx, in.SessionID, domain.AddInput(domain.InputKind(in.Kind)))
}

func (s *Server) handleRemoveInput(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResult, error) {
	var in inputArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResult{}, err
	}
	return s.apply(ctx, in.SessionID, domain.RemoveInput(in.InputID))
}

func (s *Server) handleUpdateInput(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (SessionResult, error) {
	var in inputArgs
	if err := decodeArgs(args, &in); err != nil {
		return SessionResult{}, err
	}
	return s.apply(ctx, in.SessionID, domain.UpdateInput(in.InputID, in.Key, in.Value))
}

func (s *Server) handleCompileBlock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := request.GetString("format", compiler.FormatJSON)

	var sb strings.Builder
	if _, err := s.factory.Export(ctx, id, &sb, format); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handlePreviewBlock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, err := s.factory.Open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preview failed: %v", err)), nil
	}
	return mcp.NewToolResultText(svg.Render(snap.Geometry, svg.DefaultStyle().WithFill(snap.Definition.Color))), nil
}

func (s *Server) apply(ctx context.Context, id string, ev domain.Event) (SessionResult, error) {
	if id == "" {
		return SessionResult{}, errors.New("session_id is required")
	}
	snap, err := s.factory.Apply(ctx, id, ev)
	if err != nil {
		s.logger.Debug("MCP event rejected", "session_id", id, "kind", ev.Kind, "err", err)
		return SessionResult{}, fmt.Errorf("%s rejected: %w", ev.Kind, err)
	}
	return toResult(id, snap), nil
}

func toResult(id string, snap blockfactory.Snapshot) SessionResult {
	return SessionResult{
		SessionID: id,
		Type:      snap.Definition.Type,
		Name:      snap.Definition.Name,
		Inputs:    snap.Inputs,
		Controls:  snap.Controls,
		Artifact:  snap.Serialized,
	}
}

// decodeArgs coerces loosely typed tool arguments (numbers as strings, booleans as values).
func decodeArgs(args map[string]any, out any) error {
	normalized := make(map[string]any, len(args))
	for k, v := range args {
		if b, ok := v.(bool); ok {
			v = fmt.Sprint(b)
		}
		normalized[k] = v
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(normalized); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func fieldNames() []string {
	fields := domain.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

func kindNames() []string {
	kinds := domain.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
