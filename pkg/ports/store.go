package ports

import (
	"context"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
)

// DefinitionStore persists the in-progress definition of each editing session.
type DefinitionStore interface {
	// Save persists the definition for a given session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, def *domain.BlockDefinition) error

	// Load retrieves the definition for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.BlockDefinition, error)

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
