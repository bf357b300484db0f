package main

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"watchnext/internal/testsupport"
	"watchnext/internal/tmdb"
)

type cliTestEnv struct {
	configPath  string
	catalogPath string
	tmdbServer  *httptest.Server
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TMDB_API_KEY", "")

	titles := []string{"Inception", "Interstellar", "Inception 2", "Tenet"}
	matrix := [][]float64{
		{1.0, 0.8, 0.9, 0.1},
		{0.8, 1.0, 0.7, 0.2},
		{0.9, 0.7, 1.0, 0.3},
		{0.1, 0.2, 0.3, 1.0},
	}
	catalogPath := testsupport.WriteCatalog(t, titles, matrix)

	server := newTMDBStub(t)

	configPath := filepath.Join(homeDir, ".config", "watchnext", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[paths]
log_dir = %q

[catalog]
path = %q

[tmdb]
api_key = "test-key"
base_url = %q

[fetch]
retry_delay_seconds = 0
`, filepath.Join(base, "logs"), catalogPath, server.URL)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		configPath:  configPath,
		catalogPath: catalogPath,
		tmdbServer:  server,
	}
}

// newTMDBStub serves search results echoing the requested title and a
// small fixed trending list.
func newTMDBStub(t *testing.T) *httptest.Server {
	t.Helper()
	search := func(query string) []tmdb.Result {
		return []tmdb.Result{{
			Title:       query,
			PosterPath:  "/poster.jpg",
			ReleaseDate: "2014-11-05",
			VoteAverage: 8.1,
		}}
	}
	trending := []tmdb.Result{
		{Title: "Hot One", ReleaseDate: "2024-01-01"},
		{Title: "Hot Two", ReleaseDate: "2024-02-01"},
	}
	return testsupport.NewTMDBServer(t, search, trending)
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--config", env.configPath}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
