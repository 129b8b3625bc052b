package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitTripDocuments, downInitTripDocuments)
}

func upInitTripDocuments(ctx context.Context, tx *sql.Tx) error {
	// One row per trip; each collection is a whole jsonb value so a
	// patch replaces a column, never a nested path.
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE trip_documents (
			id VARCHAR(255) PRIMARY KEY,
			days JSONB NOT NULL DEFAULT '[]'::jsonb,
			expenses JSONB NOT NULL DEFAULT '[]'::jsonb,
			links JSONB NOT NULL DEFAULT '[]'::jsonb,
			todos JSONB NOT NULL DEFAULT '[]'::jsonb,
			todo_categories JSONB NOT NULL DEFAULT '[]'::jsonb,
			expense_categories JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func downInitTripDocuments(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS trip_documents;`)
	return err
}
