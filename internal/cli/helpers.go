package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Edusharks/block-ide-vite-sub001/internal/config"
	"github.com/Edusharks/block-ide-vite-sub001/internal/logging"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// NewLogger builds the application logger from configuration.
// Debug forces the debug level.
func NewLogger(cfg config.LogConfig, debug bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level, cfg.Format), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMutation: func(ctx context.Context, e *domain.MutationEvent) {
			logger.Debug("Mutation", "session_id", e.SessionID, "kind", e.Event.Kind, "field", e.Event.Field, "input_id", e.Event.Target)
		},
		OnReject: func(ctx context.Context, e *domain.MutationEvent) {
			logger.Debug("Mutation Rejected", "session_id", e.SessionID, "kind", e.Event.Kind, "err", e.Err)
		},
		OnDerive: func(ctx context.Context, e *domain.DeriveEvent) {
			logger.Debug("Derived", "session_id", e.SessionID, "block_type", e.BlockType, "inputs", e.Inputs, "duration", e.Duration)
		},
		OnExport: func(ctx context.Context, e *domain.ExportEvent) {
			logger.Debug("Exported", "session_id", e.SessionID, "file", e.FileName, "format", e.Format, "bytes", e.Bytes)
		},
	}
}

// IsInterrupted reports whether err ends an input loop normally: end of input or cancellation.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}
