package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dbelyakov/noteleaf/internal/dbx"
	"github.com/dbelyakov/noteleaf/internal/server/models"
	"github.com/dbelyakov/noteleaf/internal/server/repositories/repomanager"
)

// LocalNoteInput is one cached client-side note submitted for
// conversion into a persisted note.
type LocalNoteInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

func (s *NoteService) Create(ctx context.Context, userID, title, content string, tags []string) (*models.Note, error) {

	repo := s.repomanager.Notes(s.db)

	note, err := repo.Create(ctx, &models.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
		Tags:    tags,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	return note, nil
}

func (s *NoteService) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	return s.repomanager.Notes(s.db).GetByID(ctx, userID, id)
}

func (s *NoteService) Update(ctx context.Context, userID, id, title, content string, tags []string) (*models.Note, error) {
	return s.repomanager.Notes(s.db).Update(ctx, &models.Note{
		ID:      id,
		UserID:  userID,
		Title:   title,
		Content: content,
		Tags:    tags,
	})
}

func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	return s.repomanager.Notes(s.db).Delete(ctx, userID, id)
}

func (s *NoteService) ToggleFavorite(ctx context.Context, userID, id string) (*models.Note, error) {
	return s.repomanager.Notes(s.db).ToggleFavorite(ctx, userID, id)
}

// List returns one page of the user's notes plus pagination metadata.
func (s *NoteService) List(ctx context.Context, userID string, query *models.NoteQuery) (*models.NotePage, error) {

	query.Normalize()

	repo := s.repomanager.Notes(s.db)

	total, err := repo.Count(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("error counting notes: %w", err)
	}

	notes, err := repo.List(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))

	return &models.NotePage{
		Notes:      notes,
		Pagination: buildPagination(query, total, totalPages),
	}, nil
}

func buildPagination(q *models.NoteQuery, total int64, totalPages int) models.Pagination {
	return models.Pagination{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    q.Page < totalPages,
		HasPrev:    q.Page > 1 && totalPages > 0,
	}
}

// ConvertLocal persists a batch of client-cached notes in one
// transaction. Either every note is created or none is; a partial batch
// never survives, so the client can safely keep its cache on error and
// clear it on success. Submitted order is newest-first: each note gets
// an explicit created_at one millisecond older than the previous one,
// so the default created_at DESC listing shows the batch in cache order.
func (s *NoteService) ConvertLocal(ctx context.Context, userID string, inputs []LocalNoteInput) ([]*models.Note, error) {

	if len(inputs) == 0 {
		return []*models.Note{}, nil
	}

	converted := make([]*models.Note, 0, len(inputs))
	base := time.Now().UTC()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)
		for i, input := range inputs {
			note, err := repo.Create(ctx, &models.Note{
				UserID:  userID,
				Title:   input.Title,
				Content: input.Content,
				Tags:    input.Tags,
				// not the column default: now() inside the transaction
				// would stamp the whole batch with one instant
				CreatedAt: base.Add(-time.Duration(i) * time.Millisecond),
			})
			if err != nil {
				return fmt.Errorf("error converting note %q: %w", input.Title, err)
			}
			converted = append(converted, note)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return converted, nil
}
