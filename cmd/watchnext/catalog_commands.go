package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"watchnext/internal/catalog"
	"watchnext/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog artifact utilities",
	}

	catalogCmd.AddCommand(newCatalogImportCommand(ctx))
	catalogCmd.AddCommand(newCatalogInfoCommand(ctx))

	return catalogCmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "import <export.json>",
		Short: "Build the catalog artifact from a JSON export",
		Long: "Reads a JSON export with a titles array and a square similarity " +
			"matrix, validates it, and writes the SQLite catalog artifact. " +
			"Pass - to read the export from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = cfg.Catalog.Path
			} else if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			var reader io.Reader
			if args[0] == "-" {
				reader = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open export: %w", err)
				}
				defer f.Close()
				reader = f
			}

			export, err := catalog.ReadExport(reader)
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}
			if err := catalog.Create(cmd.Context(), target, export); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote catalog with %d movies to %s\n", len(export.Titles), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination for the catalog artifact (defaults to the configured path)")
	return cmd
}

func newCatalogInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show catalog artifact details",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cmd.Context(), cfg.Catalog.Path)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, struct {
					Path   string `json:"path"`
					Movies int    `json:"movies"`
				}{Path: cfg.Catalog.Path, Movies: store.Len()})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog: %s\n", cfg.Catalog.Path)
			fmt.Fprintf(out, "Movies:  %d\n", store.Len())

			// A short sample so the artifact contents are recognizable.
			titles := store.Titles()
			sample := titles
			if len(sample) > 10 {
				sample = sample[:10]
			}
			rows := make([][]string, 0, len(sample))
			for i, title := range sample {
				rows = append(rows, []string{fmt.Sprintf("%d", i), title})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Title"}, rows, 1))
			return nil
		},
	}
}
