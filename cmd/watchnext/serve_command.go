package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"watchnext/internal/catalog"
	"watchnext/internal/daemon"
	"watchnext/internal/logging"
	"watchnext/internal/tmdb"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the recommendation daemon with its HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			pidPath := filepath.Join(cfg.Paths.LogDir, "watchnextd.pid")
			if err := writePIDFile(pidPath); err != nil {
				return fmt.Errorf("write pid file: %w", err)
			}
			defer os.Remove(pidPath)

			store, err := catalog.Open(signalCtx, cfg.Catalog.Path)
			if err != nil {
				logger.Error("open catalog", logging.Error(err))
				return err
			}
			logger.Info("catalog loaded",
				logging.String("path", cfg.Catalog.Path),
				logging.Int("movies", store.Len()))

			client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
				tmdb.WithTimeout(time.Duration(cfg.Fetch.RequestTimeout)*time.Second))
			if err != nil {
				return fmt.Errorf("build tmdb client: %w", err)
			}

			d, err := daemon.New(cfg, store, client, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			if err := d.Start(signalCtx); err != nil {
				return err
			}
			defer d.Stop()

			<-signalCtx.Done()
			logger.Info("watchnext daemon shutting down")
			return nil
		},
	}
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
