package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

func migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO metadata(key, value) VALUES('schema_version', ?)",
		strconv.Itoa(schemaVersion),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}
