package notes

import (
	"context"

	"github.com/dbelyakov/noteleaf/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, userID, id string) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleFavorite(ctx context.Context, userID, id string) (*models.Note, error)
	List(ctx context.Context, userID string, query *models.NoteQuery) ([]*models.Note, error)
	Count(ctx context.Context, userID string, query *models.NoteQuery) (int64, error)
}
