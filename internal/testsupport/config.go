package testsupport

import (
	"path/filepath"
	"testing"

	"watchnext/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Catalog.Path = filepath.Join(base, "catalog.db")
	cfg.Fetch.RetryDelay = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TMDB.APIKey = key
	}
}

// WithTMDBBaseURL points the TMDB client at a test server.
func WithTMDBBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TMDB.BaseURL = url
	}
}

// WithAPIToken enables bearer auth on the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.APIToken = token
	}
}

// WithBrowseSizes overrides pagination sizes for tests that need small pages.
func WithBrowseSizes(pageSize, batchSize int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Browse.PageSize = pageSize
		cfg.Browse.BatchSize = batchSize
	}
}
