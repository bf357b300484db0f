package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"watchnext/internal/browse"
)

const (
	recommendListKey = "recommend"
	trendingListKey  = "trending"
)

type pageOutput struct {
	Query     string        `json:"query,omitempty"`
	Resolved  string        `json:"resolved,omitempty"`
	Page      int           `json:"page"`
	PageCount int           `json:"page_count"`
	Cards     []browse.Card `json:"cards"`
}

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Recommend movies similar to a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			p, err := ctx.buildPipeline(cmd.Context())
			if err != nil {
				return err
			}

			resolved, ok := p.recommender.Resolve(query)
			if !ok {
				if ctx.jsonOutput() {
					return writeJSON(cmd, pageOutput{Query: query, Cards: []browse.Card{}})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "No catalog title close to %q.\n", query)
				return nil
			}

			titles := p.recommender.Recommend(query)
			session := browse.NewSession()
			session.SetQuery(recommendListKey, query)
			pageCount := p.browser.PageCount(len(titles))
			for i := 0; i < page; i++ {
				session.Next(recommendListKey, pageCount)
			}

			if ctx.jsonOutput() {
				cards := p.browser.Page(cmd.Context(), titles, recommendListKey, session)
				return writeJSON(cmd, pageOutput{
					Query:     query,
					Resolved:  resolved,
					Page:      session.Page(recommendListKey),
					PageCount: pageCount,
					Cards:     cards,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recommendations for %s:\n", resolved)
			printer := newCardPrinter(out, isatty.IsTerminal(os.Stdout.Fd()))
			p.browser.RenderPage(cmd.Context(), titles, recommendListKey, session, printer)
			printer.render()
			if pageCount > 1 {
				fmt.Fprintf(out, "Page %d of %d (use --page to turn)\n", session.Page(recommendListKey)+1, pageCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page of results to show")
	return cmd
}
