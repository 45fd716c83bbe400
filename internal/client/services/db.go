// Package services contains application services for the Noteleaf client:
// authentication, note management with an anonymous local cache, and the
// reconciler that converts cached notes into server notes after login.
package services

import (
	"context"
	"database/sql"

	"github.com/dbelyakov/noteleaf/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded SQLite migrations to the local cache.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local cache database and
// applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}
