package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A second pooled connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	for _, column := range []string{"created_at", "updated_at"} {
		if err := ensureTimestampColumn(ctx, db, column); err != nil {
			return err
		}
	}

	return nil
}

// ensureTimestampColumn upgrades tables created before tasks carried timestamps.
// Existing rows get an empty value, which reads back as the zero time.
func ensureTimestampColumn(ctx context.Context, db *sql.DB, column string) error {
	var exists int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM pragma_table_info('tasks') WHERE name = ? LIMIT 1", column).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check tasks.%s column: %w", column, err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE tasks ADD COLUMN %s TEXT NOT NULL DEFAULT ''", column)); err != nil {
		return fmt.Errorf("add tasks.%s column: %w", column, err)
	}

	return nil
}
