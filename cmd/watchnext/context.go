package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"watchnext/internal/browse"
	"watchnext/internal/catalog"
	"watchnext/internal/config"
	"watchnext/internal/logging"
	"watchnext/internal/metadata"
	"watchnext/internal/recommend"
	"watchnext/internal/tmdb"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// pipeline bundles the components a one-shot lookup needs: the loaded
// catalog, the recommender over it, and metadata enrichment with paging.
type pipeline struct {
	cfg         *config.Config
	store       *catalog.Store
	recommender *recommend.Recommender
	metadata    *metadata.Service
	browser     *browse.Controller
}

func (c *commandContext) buildPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	store, err := catalog.Open(ctx, cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithTimeout(time.Duration(cfg.Fetch.RequestTimeout)*time.Second))
	if err != nil {
		return nil, fmt.Errorf("build tmdb client: %w", err)
	}

	logger := logging.NewNop()
	svc := metadata.NewService(client, cfg, logger)
	return &pipeline{
		cfg:         cfg,
		store:       store,
		recommender: recommend.New(store, logger),
		metadata:    svc,
		browser:     browse.NewController(svc, cfg, logger),
	}, nil
}
