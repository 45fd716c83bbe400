package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dbelyakov/noteleaf/internal/client/api"
	"github.com/dbelyakov/noteleaf/internal/client/models"
	"github.com/dbelyakov/noteleaf/internal/client/repositories/notes"
	"github.com/dbelyakov/noteleaf/internal/common"
)

// NoteService defines note operations for the CLI. While the user is
// anonymous, notes live in the local SQLite cache; after login they live on
// the server. The service routes each call to the right backend based on the
// stored bearer token.
//
// Contract:
//   - Add / Get / Update / Delete / ToggleFavorite / List: note CRUD against
//     the active backend.
//   - MigrateLocal: convert all cached notes into server notes in one batch
//     and clear the cache. The cache is only cleared when the whole batch
//     succeeded, so a failed migration loses nothing.
//
// All methods must honor context cancellation/timeouts.
type NoteService interface {
	Add(ctx context.Context, title, content string, tags []string) (*api.Note, error)
	Get(ctx context.Context, id string) (*api.Note, error)
	Update(ctx context.Context, id, title, content string, tags []string) (*api.Note, error)
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) (*api.Note, error)
	List(ctx context.Context, params api.ListParams) (*api.NotePage, error)
	MigrateLocal(ctx context.Context) (int, error)
}

type noteService struct {
	client *api.Client
	db     *sql.DB
}

// NewNoteService constructs a NoteService bound to the given API client and
// local cache database.
func NewNoteService(client *api.Client, db *sql.DB) NoteService {
	return &noteService{client: client, db: db}
}

func (s *noteService) cacheRepo() notes.Repository {
	return notes.NewSQLiteRepository(s.db)
}

func (s *noteService) online() bool {
	return s.client.Token() != ""
}

func localToView(n *models.LocalNote) *api.Note {
	return &api.Note{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		Favorite:  n.Favorite,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (s *noteService) Add(ctx context.Context, title, content string, tags []string) (*api.Note, error) {
	if s.online() {
		return s.client.CreateNote(ctx, title, content, tags)
	}

	now := time.Now().UTC()
	n := &models.LocalNote{
		ID:        models.NewLocalID(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cacheRepo().Save(ctx, n); err != nil {
		return nil, err
	}
	return localToView(n), nil
}

func (s *noteService) Get(ctx context.Context, id string) (*api.Note, error) {
	if s.online() && !models.IsLocalID(id) {
		return s.client.GetNote(ctx, id)
	}

	n, err := s.cacheRepo().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return localToView(n), nil
}

func (s *noteService) Update(ctx context.Context, id, title, content string, tags []string) (*api.Note, error) {
	if s.online() && !models.IsLocalID(id) {
		return s.client.UpdateNote(ctx, id, title, content, tags)
	}

	repo := s.cacheRepo()
	n, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n.Title = title
	n.Content = content
	n.Tags = tags
	n.UpdatedAt = time.Now().UTC()

	found, err := repo.Update(ctx, n)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, common.ErrorNotFound
	}
	return localToView(n), nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	if s.online() && !models.IsLocalID(id) {
		return s.client.DeleteNote(ctx, id)
	}

	found, err := s.cacheRepo().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return common.ErrorNotFound
	}
	return nil
}

func (s *noteService) ToggleFavorite(ctx context.Context, id string) (*api.Note, error) {
	if s.online() && !models.IsLocalID(id) {
		return s.client.ToggleFavorite(ctx, id)
	}

	repo := s.cacheRepo()
	n, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n.Favorite = !n.Favorite
	n.UpdatedAt = time.Now().UTC()

	found, err := repo.Update(ctx, n)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, common.ErrorNotFound
	}
	return localToView(n), nil
}

// List returns the user's notes. Anonymous users get the cache as a single
// page, most recently saved first. Search, tag and favorite filters are
// applied to cached notes in-process; sorting and pagination stay
// server-side only.
func (s *noteService) List(ctx context.Context, params api.ListParams) (*api.NotePage, error) {
	if s.online() {
		return s.client.ListNotes(ctx, params)
	}

	cached, err := s.cacheRepo().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.LocalNote, 0, len(cached))
	for _, n := range cached {
		if matchesCached(n, params) {
			matched = append(matched, n)
		}
	}

	page := &api.NotePage{
		Notes: make([]api.Note, 0, len(matched)),
		Pagination: api.Pagination{
			Page:       1,
			Limit:      len(matched),
			Total:      len(matched),
			TotalPages: 1,
		},
	}
	for _, n := range matched {
		page.Notes = append(page.Notes, *localToView(n))
	}
	return page, nil
}

// matchesCached mirrors the server's filter semantics for cached notes:
// case-insensitive substring search over title, content and tags, tag
// filter matching any of the requested tags, favorites-only flag.
func matchesCached(n *models.LocalNote, params api.ListParams) bool {
	if params.FavoritesOnly && !n.Favorite {
		return false
	}

	if len(params.Tags) > 0 {
		found := false
	tags:
		for _, want := range params.Tags {
			for _, have := range n.Tags {
				if have == want {
					found = true
					break tags
				}
			}
		}
		if !found {
			return false
		}
	}

	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		if strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Content), needle) {
			return true
		}
		for _, tag := range n.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
		return false
	}

	return true
}

// MigrateLocal converts every cached note into a server note and clears the
// cache. The server converts the batch transactionally; the cache is cleared
// only after the server confirms, so an aborted migration can be retried
// without losing notes.
func (s *noteService) MigrateLocal(ctx context.Context) (int, error) {
	if !s.online() {
		return 0, common.ErrorUnauthorized
	}

	repo := s.cacheRepo()

	cached, err := repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(cached) == 0 {
		return 0, nil
	}

	payloads := make([]api.LocalNotePayload, 0, len(cached))
	for _, n := range cached {
		payloads = append(payloads, api.LocalNotePayload{
			Title:   n.Title,
			Content: n.Content,
			Tags:    n.Tags,
		})
	}

	converted, err := s.client.ConvertLocal(ctx, payloads)
	if err != nil {
		return 0, err
	}

	if err := repo.ClearAll(ctx); err != nil {
		return len(converted), err
	}
	return len(converted), nil
}
