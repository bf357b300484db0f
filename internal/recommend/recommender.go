package recommend

import (
	"log/slog"
	"sort"
	"strings"

	"watchnext/internal/catalog"
	"watchnext/internal/logging"
	"watchnext/internal/match"
)

// maxResults caps how many similar titles a single query returns.
const maxResults = 49

// Recommender resolves a query to a catalog title and ranks every other
// entry by similarity. Safe for concurrent use; all state is read-only.
type Recommender struct {
	store    *catalog.Store
	titles   []string
	resolver *match.Resolver
	logger   *slog.Logger
}

// New builds a recommender over the given catalog.
func New(store *catalog.Store, logger *slog.Logger) *Recommender {
	titles := store.Titles()
	return &Recommender{
		store:    store,
		titles:   titles,
		resolver: match.NewResolver(titles, match.DefaultCutoff),
		logger:   logging.NewComponentLogger(logger, "recommender"),
	}
}

// Resolve maps a free-text query to its closest catalog title.
func (r *Recommender) Resolve(query string) (string, bool) {
	return r.resolver.Resolve(query)
}

// Recommend returns up to 49 catalog titles most similar to the query,
// best first. An unresolvable query returns an empty list.
func (r *Recommender) Recommend(query string) []string {
	title, ok := r.resolver.Resolve(query)
	if !ok {
		r.logger.Debug("query did not resolve", logging.String("query", query))
		return nil
	}

	index, ok := r.rowIndex(title)
	if !ok {
		return nil
	}
	row, err := r.store.Row(index)
	if err != nil {
		return nil
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(row))
	for i, score := range row {
		ranked[i] = scored{index: i, score: score}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	// The top entry is assumed to be the query itself (self-similarity 1.0)
	// and is skipped without verification; see the package doc for the
	// duplicate-title caveat.
	ranked = ranked[1:]
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	titles := make([]string, 0, len(ranked))
	for _, entry := range ranked {
		titles = append(titles, r.titles[entry.index])
	}

	r.logger.Debug("recommendation ranked",
		logging.String("query", query),
		logging.String(logging.FieldTitle, title),
		logging.Int("results", len(titles)))
	return titles
}

// rowIndex finds the matrix row for a resolved title by case-insensitive
// exact comparison. The first match wins when duplicates exist.
func (r *Recommender) rowIndex(title string) (int, bool) {
	want := strings.ToLower(title)
	for i, candidate := range r.titles {
		if strings.ToLower(candidate) == want {
			return i, true
		}
	}
	return 0, false
}
