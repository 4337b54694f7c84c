package blockfactory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Edusharks/block-ide-vite-sub001/internal/compiler"
	"github.com/Edusharks/block-ide-vite-sub001/internal/editor"
	"github.com/Edusharks/block-ide-vite-sub001/internal/geometry"
	"github.com/Edusharks/block-ide-vite-sub001/internal/logging"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/adapters/memory"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/ports"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/session"
	"github.com/google/uuid"
)

// Snapshot is the derived state of a session after an edit.
type Snapshot = editor.Snapshot

// Factory hosts editing sessions. Each session holds exactly one definition;
// edits to the same session are serialized.
type Factory struct {
	store    ports.DefinitionStore
	locker   ports.DistributedLocker
	library  ports.BlockLibrary
	sessions *session.Manager
	measurer geometry.Measurer
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Factory.
type Option func(*Factory)

// WithStore sets the definition store (default: in-memory).
func WithStore(store ports.DefinitionStore) Option {
	return func(f *Factory) {
		f.store = store
	}
}

// WithLocker enables distributed session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(f *Factory) {
		f.locker = locker
	}
}

// WithLibrary sets the catalogue used by CreateFromLibrary.
func WithLibrary(library ports.BlockLibrary) Option {
	return func(f *Factory) {
		f.library = library
	}
}

// WithMeasurer sets the text measurement of the preview.
func WithMeasurer(m geometry.Measurer) Option {
	return func(f *Factory) {
		f.measurer = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(f *Factory) {
		f.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// New creates a Factory.
func New(opts ...Option) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	if f.store == nil {
		f.store = memory.NewStore()
	}
	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	if f.measurer == nil {
		f.measurer = geometry.DefaultMeasurer
	}

	sessionOpts := []session.Option{session.WithLogger(f.logger)}
	if f.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(f.locker))
	}
	f.sessions = session.NewManager(f.store, sessionOpts...)
	return f
}

func (f *Factory) editor(sessionID string, def *domain.BlockDefinition) *editor.Editor {
	return editor.Open(def,
		editor.WithLogger(f.logger),
		editor.WithMeasurer(f.measurer),
		editor.WithLifecycleHooks(f.hooks),
		editor.WithSessionID(sessionID),
	)
}

// Create starts a new session from seed, or from the built-in defaults when seed is nil.
func (f *Factory) Create(ctx context.Context, seed *domain.BlockDefinition) (string, Snapshot, error) {
	id := uuid.NewString()
	def, _, err := f.sessions.LoadOrCreate(ctx, id, seed)
	if err != nil {
		return "", Snapshot{}, err
	}
	f.logger.Info("session created", "session_id", id)
	return id, f.editor(id, def).Snapshot(), nil
}

// CreateFromLibrary starts a new session seeded with a library block.
func (f *Factory) CreateFromLibrary(ctx context.Context, blockID string) (string, Snapshot, error) {
	if f.library == nil {
		return "", Snapshot{}, fmt.Errorf("no block library configured")
	}
	def, err := f.library.Get(ctx, blockID)
	if err != nil {
		return "", Snapshot{}, err
	}
	return f.Create(ctx, def)
}

// Import starts a new session from an exported artifact. An empty format is sniffed.
func (f *Factory) Import(ctx context.Context, data []byte, format string) (string, Snapshot, error) {
	def, err := compiler.Load(data, format)
	if err != nil {
		return "", Snapshot{}, err
	}
	return f.Create(ctx, def)
}

// Open returns the current snapshot of a session.
func (f *Factory) Open(ctx context.Context, sessionID string) (Snapshot, error) {
	def, err := f.sessions.Load(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return f.editor(sessionID, def).Snapshot(), nil
}

// Apply dispatches one event against a session and persists the result.
// A rejected event leaves the stored definition untouched.
func (f *Factory) Apply(ctx context.Context, sessionID string, ev domain.Event) (Snapshot, error) {
	var snap Snapshot
	_, err := f.sessions.Update(ctx, sessionID, func(def *domain.BlockDefinition) error {
		e := f.editor(sessionID, def)
		s, err := e.Dispatch(ctx, ev)
		if err != nil {
			return err
		}
		*def = *e.Definition()
		snap = s
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Export writes the session's artifact to w and returns the suggested file name.
func (f *Factory) Export(ctx context.Context, sessionID string, w io.Writer, format string) (string, error) {
	def, err := f.sessions.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return f.editor(sessionID, def).Export(ctx, w, format)
}

// ExportFile writes the session's artifact into dir and returns the file path.
func (f *Factory) ExportFile(ctx context.Context, sessionID, dir, format string) (string, error) {
	def, err := f.sessions.Load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return f.editor(sessionID, def).ExportFile(ctx, dir, format)
}

// Delete ends a session. Unknown sessions return domain.ErrSessionNotFound.
func (f *Factory) Delete(ctx context.Context, sessionID string) error {
	if _, err := f.sessions.Load(ctx, sessionID); err != nil {
		return err
	}
	if err := f.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	f.logger.Info("session deleted", "session_id", sessionID)
	return nil
}

// List returns the IDs of all sessions.
func (f *Factory) List(ctx context.Context) ([]string, error) {
	return f.sessions.List(ctx)
}

// Library returns the configured block library, or nil.
func (f *Factory) Library() ports.BlockLibrary {
	return f.library
}
