package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dbelyakov/noteleaf/internal/client/models"
	"github.com/dbelyakov/noteleaf/internal/common"
	"github.com/dbelyakov/noteleaf/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(data string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

// Save inserts a note at the head of the cache. New notes get a position
// smaller than any existing one, so ascending position order is
// most-recent-first.
func (r *SQLiteRepository) Save(ctx context.Context, n *models.LocalNote) error {
	tags, err := encodeTags(n.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO local_notes (id, title, content, tags, favorite, position, created_at, updated_at)
			values (?, ?, ?, ?, ?, (SELECT COALESCE(MIN(position), 0) - 1 FROM local_notes), ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.Title, n.Content, tags, n.Favorite, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// Update overwrites title, content, tags, favorite and updated_at of a cached note.
func (r *SQLiteRepository) Update(ctx context.Context, n *models.LocalNote) (bool, error) {
	tags, err := encodeTags(n.Tags)
	if err != nil {
		return false, err
	}

	query := `update local_notes set title=?, content=?, tags=?, favorite=?, updated_at=? where id=?`
	res, err := r.db.ExecContext(ctx, query, n.Title, n.Content, tags, n.Favorite, n.UpdatedAt, n.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update note: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

// Delete removes a note from the cache.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `delete from local_notes where id=?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

// GetByID returns a single cached note.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.LocalNote, error) {
	query := `select id, title, content, tags, favorite, created_at, updated_at from local_notes where id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	n, err := scanNote(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return n, nil
}

func scanNote(scan func(dest ...any) error) (*models.LocalNote, error) {
	n := &models.LocalNote{}
	var tags string
	if err := scan(&n.ID, &n.Title, &n.Content, &tags, &n.Favorite, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	decoded, err := decodeTags(tags)
	if err != nil {
		return nil, err
	}
	n.Tags = decoded
	return n, nil
}

// ListAll lists cached notes, most recently saved first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*models.LocalNote, error) {
	query := `select id, title, content, tags, favorite, created_at, updated_at from local_notes order by position asc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := []*models.LocalNote{}
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of cached notes.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	row := r.db.QueryRowContext(ctx, `select count(*) from local_notes`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}

// ClearAll empties the cache.
func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	query := `delete from local_notes`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	return nil
}
