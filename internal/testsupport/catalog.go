package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"watchnext/internal/catalog"
)

// WriteCatalog builds a catalog artifact in a temp directory and returns its
// path.
func WriteCatalog(t testing.TB, titles []string, matrix [][]float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	export := &catalog.Export{Titles: titles, Similarity: matrix}
	if err := catalog.Create(context.Background(), path, export); err != nil {
		t.Fatalf("catalog.Create: %v", err)
	}
	return path
}

// IdentityMatrix returns a size x size matrix with 1.0 on the diagonal and a
// deterministic off-diagonal gradient, useful when tests only need valid
// dimensions.
func IdentityMatrix(size int) [][]float64 {
	matrix := make([][]float64, size)
	for i := range matrix {
		matrix[i] = make([]float64, size)
		for j := range matrix[i] {
			if i == j {
				matrix[i][j] = 1.0
			} else {
				matrix[i][j] = 1.0 / float64(1+i+j)
			}
		}
	}
	return matrix
}
