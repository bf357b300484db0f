package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"watchnext/internal/browse"
)

func newTrendingCommand(ctx *commandContext) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show this week's trending movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.buildPipeline(cmd.Context())
			if err != nil {
				return err
			}

			list := p.metadata.Trending(cmd.Context())
			titles := make([]string, len(list))
			for i, entry := range list {
				titles[i] = entry.Title
			}

			session := browse.NewSession()
			pageCount := p.browser.PageCount(len(titles))
			for i := 0; i < page; i++ {
				session.Next(trendingListKey, pageCount)
			}

			if ctx.jsonOutput() {
				cards := p.browser.Page(cmd.Context(), titles, trendingListKey, session)
				return writeJSON(cmd, pageOutput{
					Page:      session.Page(trendingListKey),
					PageCount: pageCount,
					Cards:     cards,
				})
			}

			out := cmd.OutOrStdout()
			if len(titles) == 0 {
				fmt.Fprintln(out, "Trending list is unavailable right now.")
				return nil
			}
			printer := newCardPrinter(out, isatty.IsTerminal(os.Stdout.Fd()))
			p.browser.RenderPage(cmd.Context(), titles, trendingListKey, session, printer)
			printer.render()
			if pageCount > 1 {
				fmt.Fprintf(out, "Page %d of %d (use --page to turn)\n", session.Page(trendingListKey)+1, pageCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page of results to show")
	return cmd
}
