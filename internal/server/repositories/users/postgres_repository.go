package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const userColumns = `id, email, password_hash, google_id, name, avatar, reset_token, reset_token_expiry, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.GoogleID,
		&user.Name, &user.Avatar, &user.ResetToken, &user.ResetTokenExpiry, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, email, password_hash, google_id, name, avatar)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.GoogleID, user.Name, user.Avatar).
		Scan(&user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) LinkGoogleAccount(ctx context.Context, email, googleID string, avatar *string) (*models.User, error) {
	query :=
		`UPDATE users SET google_id = $2, avatar = COALESCE($3, avatar)
		 WHERE email = $1
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, email, googleID, avatar))
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, email, token string, expiry time.Time) error {
	query :=
		`UPDATE users SET reset_token = $2, reset_token_expiry = $3
		 WHERE email = $1
		 `

	result, err := r.db.ExecContext(ctx, query, email, token, expiry)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(result)
}

// UpdatePassword replaces the password hash and invalidates any pending
// reset code in one statement, keeping the code single-use.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	query :=
		`UPDATE users SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL
		 WHERE email = $1
		 `

	result, err := r.db.ExecContext(ctx, query, email, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(result)
}

func requireOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
