package repository

import (
	"context"
	"fmt"

	"github.com/qolzam/bookcatalog/internal/database"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		genre JSONB NOT NULL DEFAULT '[]'::jsonb,
		publisher TEXT NOT NULL DEFAULT '',
		publication_year INT NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_author ON books(author)`,
	`CREATE INDEX IF NOT EXISTS idx_books_publication_year ON books(publication_year)`,
	`CREATE INDEX IF NOT EXISTS idx_books_genre ON books USING GIN (genre)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		genre TEXT NOT NULL DEFAULT '[]',
		publisher TEXT NOT NULL DEFAULT '',
		publication_year INTEGER NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_books_author ON books(author)`,
	`CREATE INDEX IF NOT EXISTS idx_books_publication_year ON books(publication_year)`,
}

// Migrate creates the books table and its indexes if they do not exist
func Migrate(ctx context.Context, client *database.Client) error {
	var statements []string
	switch client.Dialect() {
	case database.DialectPostgres:
		statements = postgresSchema
	case database.DialectSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("no books schema for dialect %q", client.Dialect())
	}

	for _, stmt := range statements {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply books schema: %w", err)
		}
	}
	return nil
}
