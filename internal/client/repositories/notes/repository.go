package notes

import (
	"context"

	"github.com/dbelyakov/noteleaf/internal/client/models"
)

// Repository describes the operations of the local note cache.
// Implementations are backed by a local SQLite database.
type Repository interface {
	// Save inserts a new note at the head of the cache, so ListAll returns
	// the most recently saved note first.
	Save(ctx context.Context, note *models.LocalNote) error

	// Update overwrites the given fields of a cached note. It reports
	// whether a note with that id existed.
	Update(ctx context.Context, note *models.LocalNote) (bool, error)

	// Delete removes a note from the cache and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// GetByID returns a single cached note.
	GetByID(ctx context.Context, id string) (*models.LocalNote, error)

	// ListAll returns all cached notes, most recently saved first.
	ListAll(ctx context.Context) ([]*models.LocalNote, error)

	// Count returns the number of cached notes.
	Count(ctx context.Context) (int, error)

	// ClearAll empties the cache. Called after cached notes have been
	// converted to server notes.
	ClearAll(ctx context.Context) error
}
