package domain

import (
	"context"
	"time"
)

// HookType defines the category of a lifecycle notification.
type HookType string

const (
	HookMutation HookType = "mutation"
	HookReject   HookType = "reject"
	HookDerive   HookType = "derive"
	HookExport   HookType = "export"
)

// EventBase contains common fields for all lifecycle notifications.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      HookType  `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// MutationEvent is fired after an event was applied, or rejected, against a definition.
type MutationEvent struct {
	EventBase
	Event Event `json:"event"`
	Err   error `json:"-"`
}

// DeriveEvent is fired after a full re-derivation pass.
type DeriveEvent struct {
	EventBase
	BlockType string        `json:"block_type"`
	Inputs    int           `json:"inputs"`
	Duration  time.Duration `json:"duration"`
}

// ExportEvent is fired when an export artifact is produced.
type ExportEvent struct {
	EventBase
	FileName string `json:"file_name"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
}

// LifecycleHooks defines callbacks for editor observability.
type LifecycleHooks struct {
	OnMutation func(context.Context, *MutationEvent)
	OnReject   func(context.Context, *MutationEvent)
	OnDerive   func(context.Context, *DeriveEvent)
	OnExport   func(context.Context, *ExportEvent)
}

// Merge combines two hook sets; both callbacks run, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnMutation: chain(h.OnMutation, other.OnMutation),
		OnReject:   chain(h.OnReject, other.OnReject),
		OnDerive:   chain(h.OnDerive, other.OnDerive),
		OnExport:   chain(h.OnExport, other.OnExport),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e T) {
		a(ctx, e)
		b(ctx, e)
	}
}
