package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Export is the JSON interchange format accepted by 'catalog import'.
// Similarity holds one row per title, in title order.
type Export struct {
	Titles     []string    `json:"titles"`
	Similarity [][]float64 `json:"similarity"`
}

// ReadExport parses a JSON catalog export and validates its dimensions.
func ReadExport(r io.Reader) (*Export, error) {
	var export Export
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&export); err != nil {
		return nil, fmt.Errorf("parse catalog export: %w", err)
	}
	if len(export.Titles) == 0 {
		return nil, errors.New("catalog export has no titles")
	}
	if len(export.Similarity) != len(export.Titles) {
		return nil, fmt.Errorf("%w: %d similarity rows for %d titles", ErrDimensionMismatch, len(export.Similarity), len(export.Titles))
	}
	for i, row := range export.Similarity {
		if len(row) != len(export.Titles) {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrDimensionMismatch, i, len(row), len(export.Titles))
		}
	}
	return &export, nil
}

// Create writes a new catalog artifact at path. An existing file is replaced
// only after the new artifact is fully written.
func Create(ctx context.Context, path string, export *Export) error {
	if export == nil {
		return errors.New("catalog export required")
	}
	if len(export.Similarity) != len(export.Titles) {
		return fmt.Errorf("%w: %d similarity rows for %d titles", ErrDimensionMismatch, len(export.Similarity), len(export.Titles))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	_ = os.Remove(tmp)
	if err := writeArtifact(ctx, tmp, export); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move catalog into place: %w", err)
	}
	return nil
}

func writeArtifact(ctx context.Context, path string, export *Export) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open catalog db: %w", err)
	}
	defer db.Close()

	if err := createSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertMovie, err := tx.PrepareContext(ctx, "INSERT INTO movies (id, title) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare movie insert: %w", err)
	}
	defer insertMovie.Close()

	insertRow, err := tx.PrepareContext(ctx, "INSERT INTO similarity (movie_id, row) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare similarity insert: %w", err)
	}
	defer insertRow.Close()

	for i, title := range export.Titles {
		if _, err := insertMovie.ExecContext(ctx, i, title); err != nil {
			return fmt.Errorf("insert movie %d: %w", i, err)
		}
		if len(export.Similarity[i]) != len(export.Titles) {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", ErrDimensionMismatch, i, len(export.Similarity[i]), len(export.Titles))
		}
		if _, err := insertRow.ExecContext(ctx, i, encodeRow(export.Similarity[i])); err != nil {
			return fmt.Errorf("insert similarity row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
