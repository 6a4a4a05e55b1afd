package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode and pragmas are configured in db.go's New function.
func InitSchema(db *sql.DB) error {
	return createEquivalencyRowsTable(db)
}

func createEquivalencyRowsTable(db *sql.DB) error {
	// position preserves the order rows appear in the agreement file;
	// the UNIQUE constraint enforces first-occurrence-wins dedupe per
	// campus (inserts use ON CONFLICT DO NOTHING).
	query := `
	CREATE TABLE IF NOT EXISTS equivalency_rows (
		campus TEXT NOT NULL,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		minimum_required TEXT NOT NULL DEFAULT '',
		source_code TEXT NOT NULL,
		source_title TEXT NOT NULL DEFAULT '',
		source_units TEXT NOT NULL DEFAULT '',
		loaded_at INTEGER NOT NULL,
		PRIMARY KEY (campus, source_code)
	);
	CREATE INDEX IF NOT EXISTS idx_equivalency_rows_campus_position
		ON equivalency_rows(campus, position);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create equivalency_rows table: %w", err)
	}

	return nil
}
