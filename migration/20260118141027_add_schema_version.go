package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddSchemaVersion, downAddSchemaVersion)
}

// Documents written before the version stamp existed read back as
// version 0 and get their itinerary refreshed on next load.
func upAddSchemaVersion(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		ALTER TABLE trip_documents
			ADD COLUMN schema_version INTEGER NOT NULL DEFAULT 0;
	`)
	return err
}

func downAddSchemaVersion(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		ALTER TABLE trip_documents
			DROP COLUMN schema_version;
	`)
	return err
}
