package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCatalogImportAndInfo(t *testing.T) {
	env := setupCLITestEnv(t)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	payload := `{
  "titles": ["Alpha", "Beta"],
  "similarity": [[1.0, 0.5], [0.5, 1.0]]
}`
	if err := os.WriteFile(exportPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}

	target := filepath.Join(t.TempDir(), "catalog.db")
	out, _, err := runCLI(t, env, "catalog", "import", exportPath, "--output", target)
	if err != nil {
		t.Fatalf("catalog import: %v", err)
	}
	requireContains(t, out, "Wrote catalog with 2 movies")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected catalog artifact at %s: %v", target, err)
	}
}

func TestCatalogImportRejectsRaggedMatrix(t *testing.T) {
	env := setupCLITestEnv(t)

	exportPath := filepath.Join(t.TempDir(), "export.json")
	payload := `{"titles": ["Alpha", "Beta"], "similarity": [[1.0, 0.5]]}`
	if err := os.WriteFile(exportPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}

	if _, _, err := runCLI(t, env, "catalog", "import", exportPath, "--output", filepath.Join(t.TempDir(), "c.db")); err == nil {
		t.Fatal("expected error for ragged similarity matrix")
	}
}

func TestCatalogInfo(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "catalog", "info")
	if err != nil {
		t.Fatalf("catalog info: %v", err)
	}
	requireContains(t, out, "Movies:  4")
	requireContains(t, out, "Inception")
}
