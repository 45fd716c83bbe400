package notes

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dbelyakov/noteleaf/internal/common"
	"github.com/dbelyakov/noteleaf/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func noteRows(notes ...*models.Note) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "content", "tags", "favorite", "created_at", "updated_at",
	})
	for _, n := range notes {
		rows.AddRow(n.ID, n.UserID, n.Title, n.Content, []byte(`["x","y"]`),
			n.Favorite, n.CreatedAt, n.UpdatedAt)
	}
	return rows
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+notes\s*\(id,\s*user_id,\s*title,\s*content,\s*tags,\s*favorite\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "u-1", "A", "B", []byte(`["x"]`), false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(now, now))

	got, err := repo.Create(context.Background(), &models.Note{
		UserID: "u-1", Title: "A", Content: "B", Tags: []string{"x"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestCreate_ExplicitCreatedAtIsInserted(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+notes\s*\(id,\s*user_id,\s*title,\s*content,\s*tags,\s*favorite,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$7\)\s*$`

	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "u-1", "A", "B", []byte(`[]`), false, createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.Note{
		UserID: "u-1", Title: "A", Content: "B", CreatedAt: createdAt,
	})
	require.NoError(t, err)
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.Equal(t, createdAt, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilTagsBecomeEmptyArray(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT\s+INTO\s+notes`).
		WithArgs(sqlmock.AnyArg(), "u-1", "A", "B", []byte(`[]`), false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(now, now))

	got, err := repo.Create(context.Background(), &models.Note{UserID: "u-1", Title: "A", Content: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)
}

func TestGetByID_ScopedToOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	n := &models.Note{ID: "n-1", UserID: "u-1", Title: "A", Content: "B",
		CreatedAt: time.Now(), UpdatedAt: time.Now()}
	mock.ExpectQuery(q).WithArgs("n-1", "u-1").WillReturnRows(noteRows(n))

	got, err := repo.GetByID(context.Background(), "u-1", "n-1")
	require.NoError(t, err)
	assert.Equal(t, "n-1", got.ID)
	assert.Equal(t, []string{"x", "y"}, got.Tags)
}

func TestGetByID_ForeignNoteIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.+\s+FROM\s+notes\s+WHERE\s+id`).
		WithArgs("n-1", "u-other").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "u-other", "n-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_RefreshesUpdatedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+notes\s+SET\s+title\s*=\s*\$3,\s*content\s*=\s*\$4,\s*tags\s*=\s*\$5,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+.+$`

	created := time.Now().Add(-time.Hour)
	n := &models.Note{ID: "n-1", UserID: "u-1", Title: "A2", Content: "B2",
		CreatedAt: created, UpdatedAt: time.Now()}
	mock.ExpectQuery(q).
		WithArgs("n-1", "u-1", "A2", "B2", []byte(`["x","y"]`)).
		WillReturnRows(noteRows(n))

	got, err := repo.Update(context.Background(), &models.Note{
		ID: "n-1", UserID: "u-1", Title: "A2", Content: "B2", Tags: []string{"x", "y"},
	})
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestDelete_SecondCallIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).WithArgs("n-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("n-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u-1", "n-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u-1", "n-1"), common.ErrorNotFound)
}

func TestToggleFavorite(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+notes\s+SET\s+favorite\s*=\s*NOT\s+favorite,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+.+$`

	n := &models.Note{ID: "n-1", UserID: "u-1", Favorite: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now()}
	mock.ExpectQuery(q).WithArgs("n-1", "u-1").WillReturnRows(noteRows(n))

	got, err := repo.ToggleFavorite(context.Background(), "u-1", "n-1")
	require.NoError(t, err)
	assert.True(t, got.Favorite)
}

func TestList_DefaultQueryShape(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+ASC\s+LIMIT\s+\$2\s+OFFSET\s+\$3$`

	n1 := &models.Note{ID: "n-1", UserID: "u-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	n2 := &models.Note{ID: "n-2", UserID: "u-1", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	mock.ExpectQuery(q).WithArgs("u-1", 10, 0).WillReturnRows(noteRows(n1, n2))

	query := &models.NoteQuery{}
	query.Normalize()
	got, err := repo.List(context.Background(), "u-1", query)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n-1", got[0].ID)
}

func TestList_SearchAndFavoritesFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+WHERE\s+user_id\s*=\s*\$1\s+AND\s+\(title\s+ILIKE\s+\$2\s+OR\s+content\s+ILIKE\s+\$2\s+OR\s+EXISTS.+\)\s+AND\s+favorite\s*=\s*true\s+ORDER\s+BY\s+title\s+ASC,\s*id\s+ASC\s+LIMIT\s+\$3\s+OFFSET\s+\$4$`

	mock.ExpectQuery(q).WithArgs("u-1", "%groc%", 20, 20).WillReturnRows(noteRows())

	query := &models.NoteQuery{
		Search: "groc", FavoritesOnly: true,
		SortBy: models.SortByTitle, SortAsc: true,
		Page: 2, Limit: 20,
	}
	query.Normalize()
	got, err := repo.List(context.Background(), "u-1", query)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// pgxLikeConverter passes string slices through untouched, the way pgx
// does. database/sql's default converter rejects them, which would make
// the mock fail on an argument production code sends just fine.
type pgxLikeConverter struct{}

func (pgxLikeConverter) ConvertValue(v any) (driver.Value, error) {
	if _, ok := v.([]string); ok {
		return v, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func TestList_TagFilterUsesAnyMatch(t *testing.T) {
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(pgxLikeConverter{}),
	)
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	q := `(?s)EXISTS\s+\(SELECT\s+1\s+FROM\s+jsonb_array_elements_text\(tags\)\s+tag\s+WHERE\s+tag\s*=\s*ANY\(\$2\)\)`

	mock.ExpectQuery(q).WithArgs("u-1", sqlmock.AnyArg(), 10, 0).WillReturnRows(noteRows())

	query := &models.NoteQuery{Tags: []string{"work", "home"}}
	query.Normalize()
	_, err = repo.List(context.Background(), "u-1", query)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	query := &models.NoteQuery{}
	query.Normalize()
	total, err := repo.Count(context.Background(), "u-1", query)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.+\s+FROM\s+notes`).WillReturnError(errors.New("db down"))

	query := &models.NoteQuery{}
	query.Normalize()
	_, err := repo.List(context.Background(), "u-1", query)
	assert.ErrorContains(t, err, "db down")
}
