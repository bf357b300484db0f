package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Catalog contains configuration for the catalog artifact.
type Catalog struct {
	Path string `toml:"path"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	Language     string `toml:"language"`
	ImageBaseURL string `toml:"image_base_url"`
	PosterSize   string `toml:"poster_size"`
}

// Fetch contains retry and timeout settings for metadata enrichment.
type Fetch struct {
	Retries        int `toml:"retries"`
	RetryDelay     int `toml:"retry_delay_seconds"`
	RequestTimeout int `toml:"request_timeout_seconds"`
}

// Browse contains pagination and batching settings.
type Browse struct {
	PageSize   int `toml:"page_size"`
	BatchSize  int `toml:"batch_size"`
	SessionTTL int `toml:"session_ttl_minutes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for watchnext.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Catalog Catalog `toml:"catalog"`
	TMDB    TMDB    `toml:"tmdb"`
	Fetch   Fetch   `toml:"fetch"`
	Browse  Browse  `toml:"browse"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/watchnext/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("watchnext.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		c.TMDB.APIKey = strings.TrimSpace(os.Getenv("TMDB_API_KEY"))
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	c.TMDB.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ImageBaseURL), "/")
	c.TMDB.PosterSize = strings.Trim(strings.TrimSpace(c.TMDB.PosterSize), "/")
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)

	for _, field := range []*string{&c.Paths.LogDir, &c.Catalog.Path} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
