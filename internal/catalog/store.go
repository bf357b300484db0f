package catalog

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	_ "modernc.org/sqlite"
)

// ErrDimensionMismatch indicates the similarity matrix does not match the
// catalog size.
var ErrDimensionMismatch = errors.New("similarity matrix dimension mismatch")

// Entry is a single catalog movie. Its ID is the row index into the
// similarity matrix.
type Entry struct {
	ID    int
	Title string
}

// Store holds the in-memory catalog. All methods are safe for concurrent use
// because the contents never change after Open.
type Store struct {
	entries []Entry
	matrix  [][]float64
}

// Open reads the catalog artifact at path into memory and validates it.
// A missing artifact is an error; the daemon cannot start without one.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog artifact %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	if err := checkSchema(ctx, db); err != nil {
		return nil, err
	}

	store := &Store{}
	if err := store.loadEntries(ctx, db); err != nil {
		return nil, err
	}
	if err := store.loadMatrix(ctx, db); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) loadEntries(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "SELECT id, title FROM movies ORDER BY id")
	if err != nil {
		return fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Title); err != nil {
			return fmt.Errorf("scan movie: %w", err)
		}
		if entry.ID != len(s.entries) {
			return fmt.Errorf("movie ids must be contiguous from 0: got id %d at position %d", entry.ID, len(s.entries))
		}
		s.entries = append(s.entries, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate movies: %w", err)
	}
	if len(s.entries) == 0 {
		return errors.New("catalog is empty")
	}
	return nil
}

func (s *Store) loadMatrix(ctx context.Context, db *sql.DB) error {
	size := len(s.entries)
	s.matrix = make([][]float64, size)

	rows, err := db.QueryContext(ctx, "SELECT movie_id, row FROM similarity ORDER BY movie_id")
	if err != nil {
		return fmt.Errorf("query similarity: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var id int
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return fmt.Errorf("scan similarity row: %w", err)
		}
		if id < 0 || id >= size {
			return fmt.Errorf("%w: similarity row id %d outside catalog of %d movies", ErrDimensionMismatch, id, size)
		}
		row, err := decodeRow(blob)
		if err != nil {
			return fmt.Errorf("similarity row %d: %w", id, err)
		}
		if len(row) != size {
			return fmt.Errorf("%w: row %d has %d columns, catalog has %d movies", ErrDimensionMismatch, id, len(row), size)
		}
		s.matrix[id] = row
		loaded++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate similarity: %w", err)
	}
	if loaded != size {
		return fmt.Errorf("%w: %d similarity rows for %d movies", ErrDimensionMismatch, loaded, size)
	}
	return nil
}

// Len returns the number of catalog entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Titles returns a copy of all catalog titles in row order.
func (s *Store) Titles() []string {
	titles := make([]string, len(s.entries))
	for i, entry := range s.entries {
		titles[i] = entry.Title
	}
	return titles
}

// TitleAt returns the title at row index i.
func (s *Store) TitleAt(i int) (string, error) {
	if i < 0 || i >= len(s.entries) {
		return "", fmt.Errorf("catalog index %d out of range [0,%d)", i, len(s.entries))
	}
	return s.entries[i].Title, nil
}

// Row returns the similarity row for index i. The returned slice is shared
// and must not be modified.
func (s *Store) Row(i int) ([]float64, error) {
	if i < 0 || i >= len(s.matrix) {
		return nil, fmt.Errorf("catalog index %d out of range [0,%d)", i, len(s.matrix))
	}
	return s.matrix[i], nil
}

func decodeRow(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("row blob length %d is not a multiple of 8", len(blob))
	}
	row := make([]float64, len(blob)/8)
	for i := range row {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		row[i] = math.Float64frombits(bits)
	}
	return row, nil
}

func encodeRow(row []float64) []byte {
	blob := make([]byte, len(row)*8)
	for i, v := range row {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}
