package ports

import (
	"context"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
)

// LibraryEntry summarizes one stored block without decoding its inputs.
type LibraryEntry struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Tooltip string `json:"tooltip,omitempty"`
}

// BlockLibrary is a read-only catalogue of ready-made block definitions
// that sessions can be seeded from.
type BlockLibrary interface {
	List(ctx context.Context) ([]LibraryEntry, error)

	// Get returns the definition with the given ID, or domain.ErrBlockNotFound.
	Get(ctx context.Context, id string) (*domain.BlockDefinition, error)
}
