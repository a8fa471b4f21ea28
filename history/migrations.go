package history

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent DDL for the history tables.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS executions (
		id                    TEXT PRIMARY KEY,
		language              TEXT NOT NULL,
		source                TEXT NOT NULL,
		output                TEXT NOT NULL DEFAULT '',
		error_category        TEXT NOT NULL DEFAULT '',
		error_message         TEXT NOT NULL DEFAULT '',
		execution_time_millis INTEGER NOT NULL DEFAULT 0,
		created_at            TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_executions_created_at ON executions(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_executions_language ON executions(language, created_at)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
