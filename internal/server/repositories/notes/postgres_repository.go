package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dbelyakov/noteleaf/internal/common"
	"github.com/dbelyakov/noteleaf/internal/dbx"
	"github.com/dbelyakov/noteleaf/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const noteColumns = `id, user_id, title, content, tags, favorite, created_at, updated_at`

func scanNote(scan func(dest ...any) error) (*models.Note, error) {
	note := &models.Note{}
	var tags []byte
	err := scan(&note.ID, &note.UserID, &note.Title, &note.Content, &tags,
		&note.Favorite, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(tags, &note.Tags); err != nil {
		return nil, fmt.Errorf("tags decode error: %w", err)
	}
	return note, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {

	tags, err := encodeTags(note.Tags)
	if err != nil {
		return nil, fmt.Errorf("tags encode error: %w", err)
	}

	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	// A caller-supplied created_at wins over the column default. Inside a
	// transaction now() is the same instant for every row, so batch inserts
	// that need a distinct timestamp per row must bring their own.
	if !note.CreatedAt.IsZero() {
		query :=
			`INSERT INTO notes (id, user_id, title, content, tags, favorite, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			 `

		_, err = r.db.ExecContext(ctx, query,
			note.ID, note.UserID, note.Title, note.Content, tags, note.Favorite, note.CreatedAt)
		note.UpdatedAt = note.CreatedAt
	} else {
		query :=
			`INSERT INTO notes (id, user_id, title, content, tags, favorite)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING created_at, updated_at
			 `

		err = r.db.QueryRowContext(ctx, query,
			note.ID, note.UserID, note.Title, note.Content, tags, note.Favorite).
			Scan(&note.CreatedAt, &note.UpdatedAt)
	}

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if note.Tags == nil {
		note.Tags = []string{}
	}

	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Note, error) {
	query :=
		`SELECT ` + noteColumns + ` FROM notes
		 WHERE id = $1 AND user_id = $2
		 `

	row := r.db.QueryRowContext(ctx, query, id, userID)
	return scanNote(row.Scan)
}

func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) (*models.Note, error) {

	tags, err := encodeTags(note.Tags)
	if err != nil {
		return nil, fmt.Errorf("tags encode error: %w", err)
	}

	query :=
		`UPDATE notes SET title = $3, content = $4, tags = $5, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + noteColumns

	row := r.db.QueryRowContext(ctx, query, note.ID, note.UserID, note.Title, note.Content, tags)
	return scanNote(row.Scan)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query :=
		`DELETE FROM notes
		 WHERE id = $1 AND user_id = $2
		 `

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) ToggleFavorite(ctx context.Context, userID, id string) (*models.Note, error) {
	query :=
		`UPDATE notes SET favorite = NOT favorite, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + noteColumns

	row := r.db.QueryRowContext(ctx, query, id, userID)
	return scanNote(row.Scan)
}

// sortColumns maps the public sort fields to real columns. Anything not
// in this map never reaches the SQL string.
var sortColumns = map[models.SortField]string{
	models.SortByCreatedAt: "created_at",
	models.SortByUpdatedAt: "updated_at",
	models.SortByTitle:     "title",
}

// buildFilter renders the WHERE clause shared by List and Count.
// The first placeholder is always the user id; tenant isolation is a
// property of the query itself, not of the caller.
func buildFilter(userID string, q *models.NoteQuery) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		args = append(args, pattern)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(title ILIKE $%d OR content ILIKE $%d OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) tag WHERE tag ILIKE $%d))`,
			n, n, n))
	}

	if len(q.Tags) > 0 {
		args = append(args, q.Tags)
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) tag WHERE tag = ANY($%d))`,
			len(args)))
	}

	if q.FavoritesOnly {
		conds = append(conds, "favorite = true")
	}

	return strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, userID string, q *models.NoteQuery) ([]*models.Note, error) {

	where, args := buildFilter(userID, q)

	direction := "DESC"
	if q.SortAsc {
		direction = "ASC"
	}

	// Secondary sort by id keeps pagination stable when the sort key ties.
	query := fmt.Sprintf(
		`SELECT %s FROM notes WHERE %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		noteColumns, where, sortColumns[q.SortBy], direction, len(args)+1, len(args)+2)

	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Note{}
	for rows.Next() {
		note, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID string, q *models.NoteQuery) (int64, error) {

	where, args := buildFilter(userID, q)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM notes WHERE %s`, where)

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}
