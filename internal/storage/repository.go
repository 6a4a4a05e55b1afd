package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dvc-advising/transferbot-go/internal/campus"
)

// ReplaceCampusRows atomically replaces all equivalency rows for one
// campus. Rows are stored in input order; a repeated source code within
// the batch keeps the first occurrence.
func (db *DB) ReplaceCampusRows(ctx context.Context, key campus.Key, rows []EquivalencyRow) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM equivalency_rows WHERE campus = ?", string(key)); err != nil {
		return fmt.Errorf("failed to clear rows for %s: %w", key, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO equivalency_rows
			(campus, position, category, minimum_required, source_code, source_title, source_units, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(campus, source_code) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().Unix()
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx,
			string(key), i, row.Category, row.MinimumRequired,
			row.SourceCode, row.SourceTitle, row.SourceUnits, now,
		); err != nil {
			return fmt.Errorf("failed to insert row %s/%s: %w", key, row.SourceCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rows for %s: %w", key, err)
	}
	return nil
}

// RowsByCampus returns a campus's equivalency rows in load order.
// A campus with no loaded data yields an empty slice, not an error.
func (db *DB) RowsByCampus(ctx context.Context, key campus.Key) ([]EquivalencyRow, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT category, minimum_required, source_code, source_title, source_units
		FROM equivalency_rows
		WHERE campus = ?
		ORDER BY position
	`, string(key))
	if err != nil {
		return nil, fmt.Errorf("failed to query rows for %s: %w", key, err)
	}
	defer func() { _ = rows.Close() }()

	var out []EquivalencyRow
	for rows.Next() {
		var r EquivalencyRow
		if err := rows.Scan(&r.Category, &r.MinimumRequired, &r.SourceCode, &r.SourceTitle, &r.SourceUnits); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "RowsByCampus",
			"duration_ms", duration.Milliseconds(),
			"campus", string(key))
	}
	return out, nil
}

// LoadedCampuses returns the campuses that have at least one row,
// sorted by key.
func (db *DB) LoadedCampuses(ctx context.Context) ([]campus.Key, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT DISTINCT campus FROM equivalency_rows ORDER BY campus")
	if err != nil {
		return nil, fmt.Errorf("failed to query campuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []campus.Key
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan campus: %w", err)
		}
		keys = append(keys, campus.Key(k))
	}
	return keys, rows.Err()
}

// CountRows returns the total number of equivalency rows for a campus.
func (db *DB) CountRows(ctx context.Context, key campus.Key) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM equivalency_rows WHERE campus = ?", string(key)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows for %s: %w", key, err)
	}
	return count, nil
}

// AllRows returns every loaded row grouped by campus, in load order.
// Used to build the equivalency search index at startup.
func (db *DB) AllRows(ctx context.Context) (map[campus.Key][]EquivalencyRow, error) {
	keys, err := db.LoadedCampuses(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[campus.Key][]EquivalencyRow, len(keys))
	for _, key := range keys {
		rows, err := db.RowsByCampus(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = rows
	}
	return out, nil
}
