package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateBrowse(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/watchnext/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'watchnext config init')", defaultPath)
	}
	if c.TMDB.BaseURL == "" {
		return errors.New("tmdb.base_url must be set")
	}
	if c.TMDB.ImageBaseURL == "" {
		return errors.New("tmdb.image_base_url must be set")
	}
	if c.TMDB.PosterSize == "" {
		return errors.New("tmdb.poster_size must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path must be set")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.Retries < 1 {
		return errors.New("fetch.retries must be at least 1")
	}
	if c.Fetch.RetryDelay < 0 {
		return errors.New("fetch.retry_delay_seconds must not be negative")
	}
	if c.Fetch.RequestTimeout < 1 {
		return errors.New("fetch.request_timeout_seconds must be at least 1")
	}
	return nil
}

func (c *Config) validateBrowse() error {
	if c.Browse.PageSize < 1 {
		return errors.New("browse.page_size must be at least 1")
	}
	if c.Browse.BatchSize < 1 {
		return errors.New("browse.batch_size must be at least 1")
	}
	if c.Browse.BatchSize > c.Browse.PageSize {
		return errors.New("browse.batch_size must not exceed browse.page_size")
	}
	if c.Browse.SessionTTL < 1 {
		return errors.New("browse.session_ttl_minutes must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
