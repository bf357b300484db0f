package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current artifact schema version. Bump this when the
// schema changes; existing artifacts must be rebuilt with 'catalog import'.
const schemaVersion = 1

// ErrSchemaMismatch indicates the artifact schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("catalog schema version mismatch")

func checkSchema(ctx context.Context, db *sql.DB) error {
	var tableExists int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='catalog_meta'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check catalog_meta table: %w", err)
	}
	if tableExists == 0 {
		return errors.New("not a catalog artifact (missing catalog_meta table)")
	}

	var version int
	if err := db.QueryRowContext(ctx, "SELECT version FROM catalog_meta LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read catalog version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: artifact has version %d, expected %d (rebuild with 'watchnext catalog import')",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO catalog_meta (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
