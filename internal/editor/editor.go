package editor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Edusharks/block-ide-vite-sub001/internal/compiler"
	"github.com/Edusharks/block-ide-vite-sub001/internal/geometry"
	"github.com/Edusharks/block-ide-vite-sub001/internal/logging"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/schema"
	"github.com/spf13/cast"
)

// Snapshot is everything derived from one state of the definition.
// It is replaced as a whole after every accepted mutation.
type Snapshot struct {
	Definition *domain.BlockDefinition `json:"definition"`
	Controls   domain.Controls         `json:"controls"`
	Inputs     []InputRow              `json:"inputs"`
	Geometry   geometry.Geometry       `json:"geometry"`
	Bundle     schema.Bundle           `json:"schema"`
	// Serialized is the pretty-printed JSON artifact.
	Serialized string `json:"serialized"`
}

// Editor owns one in-progress definition and its derived snapshot.
// It is not safe for concurrent use; hosts serialize access per session.
type Editor struct {
	def      *domain.BlockDefinition
	snap     Snapshot
	logger   *slog.Logger
	measurer geometry.Measurer
	hooks    domain.LifecycleHooks
	session  string
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithMeasurer injects the text measurement used by the preview.
func WithMeasurer(m geometry.Measurer) Option {
	return func(e *Editor) {
		e.measurer = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithSessionID tags hooks and logs with the hosting session.
func WithSessionID(id string) Option {
	return func(e *Editor) {
		e.session = id
	}
}

// New starts an editor on a fresh definition with the built-in defaults.
func New(opts ...Option) *Editor {
	return Open(domain.NewDefinition(), opts...)
}

// Open starts an editor on a copy of def.
func Open(def *domain.BlockDefinition, opts ...Option) *Editor {
	e := &Editor{def: def.Clone()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.measurer == nil {
		e.measurer = geometry.DefaultMeasurer
	}
	if e.session != "" {
		e.logger = e.logger.With("session_id", e.session)
	}
	e.derive(context.Background())
	return e
}

// Definition returns a copy of the current definition.
func (e *Editor) Definition() *domain.BlockDefinition {
	return e.def.Clone()
}

// Snapshot returns the last derived snapshot.
func (e *Editor) Snapshot() Snapshot {
	return e.snap
}

// Dispatch applies one event. On error the definition and snapshot are left untouched.
func (e *Editor) Dispatch(ctx context.Context, ev domain.Event) (Snapshot, error) {
	next := e.def.Clone()
	if err := apply(next, ev); err != nil {
		e.logger.Debug("mutation rejected", "kind", ev.Kind, "field", ev.Field, "input_id", ev.Target, "err", err)
		if e.hooks.OnReject != nil {
			e.hooks.OnReject(ctx, e.mutationEvent(domain.HookReject, ev, err))
		}
		return e.snap, err
	}

	e.def = next
	e.derive(ctx)
	e.logger.Debug("mutation applied", "kind", ev.Kind, "field", ev.Field, "input_id", ev.Target)
	if e.hooks.OnMutation != nil {
		e.hooks.OnMutation(ctx, e.mutationEvent(domain.HookMutation, ev, nil))
	}
	return e.snap, nil
}

// Replace swaps in a whole new definition, e.g. after an import.
func (e *Editor) Replace(ctx context.Context, def *domain.BlockDefinition) Snapshot {
	e.def = def.Clone()
	e.derive(ctx)
	return e.snap
}

// SetField changes one definition field. Boolean fields accept anything cast understands.
func (e *Editor) SetField(ctx context.Context, f domain.Field, value string) (Snapshot, error) {
	return e.Dispatch(ctx, domain.SetField(f, value))
}

// AddInput appends an input of the given kind.
func (e *Editor) AddInput(ctx context.Context, kind domain.InputKind) (Snapshot, error) {
	return e.Dispatch(ctx, domain.AddInput(kind))
}

// RemoveInput deletes an input.
func (e *Editor) RemoveInput(ctx context.Context, id int) (Snapshot, error) {
	return e.Dispatch(ctx, domain.RemoveInput(id))
}

// UpdateInput sets one property of an input.
func (e *Editor) UpdateInput(ctx context.Context, id int, key, value string) (Snapshot, error) {
	return e.Dispatch(ctx, domain.UpdateInput(id, key, value))
}

func apply(def *domain.BlockDefinition, ev domain.Event) error {
	switch ev.Kind {
	case domain.EventSetField:
		return setField(def, ev.Field, ev.Value)
	case domain.EventAddInput:
		kind, err := domain.ParseInputKind(ev.Value)
		if err != nil {
			return err
		}
		def.AddInput(kind)
		return nil
	case domain.EventRemoveInput:
		return def.RemoveInput(ev.Target)
	case domain.EventUpdateInput:
		return def.UpdateInput(ev.Target, ev.Key, ev.Value)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev.Kind)
	}
}

func setField(def *domain.BlockDefinition, f domain.Field, value string) error {
	if f.IsBool() {
		on, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", f, err)
		}
		switch f {
		case domain.FieldInputsInline:
			def.InputsInline = on
		case domain.FieldOutput:
			def.SetOutput(on)
		case domain.FieldPrevious:
			return def.SetPrevious(on)
		case domain.FieldNext:
			return def.SetNext(on)
		}
		return nil
	}

	switch f {
	case domain.FieldName:
		def.SetName(value)
	case domain.FieldTooltip:
		def.Tooltip = value
	case domain.FieldColor:
		def.Color = value
	case domain.FieldStyle:
		def.Style = value
	case domain.FieldPythonTemplate:
		def.PythonTemplate = value
	case domain.FieldOutputType:
		def.Connections.OutputType = value
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, f)
	}
	return nil
}

// derive recomputes every view of the definition in order:
// type, input rows, geometry, schema and its serialization.
func (e *Editor) derive(ctx context.Context) {
	start := time.Now()

	e.def.Refresh()
	rows := Rows(e.def)
	geo := geometry.Compute(e.def, e.measurer)
	bundle := compiler.Compile(e.def)
	serialized, err := bundle.MarshalIndentJSON()
	if err != nil {
		e.logger.Error("failed to serialize schema", "err", err)
	}

	e.snap = Snapshot{
		Definition: e.def.Clone(),
		Controls:   e.def.Controls(),
		Inputs:     rows,
		Geometry:   geo,
		Bundle:     bundle,
		Serialized: string(serialized),
	}

	if e.hooks.OnDerive != nil {
		e.hooks.OnDerive(ctx, &domain.DeriveEvent{
			EventBase: e.base(domain.HookDerive),
			BlockType: e.def.Type,
			Inputs:    e.def.Inputs.Len(),
			Duration:  time.Since(start),
		})
	}
}

func (e *Editor) base(t domain.HookType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: e.session}
}

func (e *Editor) mutationEvent(t domain.HookType, ev domain.Event, err error) *domain.MutationEvent {
	return &domain.MutationEvent{EventBase: e.base(t), Event: ev, Err: err}
}
