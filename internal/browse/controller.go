package browse

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"watchnext/internal/config"
	"watchnext/internal/logging"
	"watchnext/internal/metadata"
)

const searchBaseURL = "https://www.google.com/search?q="

// Card is one enriched entry on a page. Slot is the card's position
// within the page, stable regardless of enrichment completion order.
type Card struct {
	Slot      int                    `json:"slot"`
	Title     string                 `json:"title"`
	Meta      metadata.MovieMetadata `json:"meta"`
	SearchURL string                 `json:"search_url"`
}

// Renderer receives page output. BeginBatch announces a batch of
// placeholder slots before any enrichment finishes; Card then fills one
// slot as its lookup completes. Card may be called concurrently within
// a batch, so implementations must synchronize their own output.
type Renderer interface {
	NoMoreItems(key string)
	BeginBatch(key string, offset int, titles []string)
	Card(key string, card Card)
}

// Fetcher is the metadata lookup the controller fans out over.
type Fetcher interface {
	Fetch(ctx context.Context, title string) metadata.MovieMetadata
}

// Controller slices lists into pages and renders one page at a time.
type Controller struct {
	meta      Fetcher
	pageSize  int
	batchSize int
	logger    *slog.Logger
}

func NewController(meta Fetcher, cfg *config.Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{
		meta:      meta,
		pageSize:  cfg.Browse.PageSize,
		batchSize: cfg.Browse.BatchSize,
		logger:    logging.NewComponentLogger(logger, "browse"),
	}
}

// PageSize returns the configured titles-per-page count.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// PageCount reports how many pages a list of the given length spans.
// An empty list has zero pages.
func (c *Controller) PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + c.pageSize - 1) / c.pageSize
}

// PageSlice returns the titles on the given page, clamped to the list.
func (c *Controller) PageSlice(titles []string, page int) []string {
	page = clampPage(page, c.PageCount(len(titles)))
	start := page * c.pageSize
	if start >= len(titles) {
		return nil
	}
	end := start + c.pageSize
	if end > len(titles) {
		end = len(titles)
	}
	return titles[start:end]
}

// SearchLink builds the external web search URL for a title.
func SearchLink(title string) string {
	return searchBaseURL + url.QueryEscape(title)
}

// RenderPage renders the session's current page of titles for a key.
// Batches run sequentially; within a batch every title is fetched
// concurrently and delivered to its slot as it completes.
func (c *Controller) RenderPage(ctx context.Context, titles []string, key string, session *Session, sink Renderer) {
	page := clampPage(session.Page(key), c.PageCount(len(titles)))
	active := c.PageSlice(titles, page)
	if len(active) == 0 {
		c.logger.Debug("page empty", logging.String(logging.FieldListKey, key))
		sink.NoMoreItems(key)
		return
	}

	c.logger.Debug("rendering page",
		logging.String(logging.FieldListKey, key),
		logging.Int("page", page),
		logging.Int("titles", len(active)))

	for offset := 0; offset < len(active); offset += c.batchSize {
		// An in-flight batch always joins; cancellation takes effect
		// between batches.
		if ctx.Err() != nil {
			return
		}
		end := offset + c.batchSize
		if end > len(active) {
			end = len(active)
		}
		batch := active[offset:end]
		sink.BeginBatch(key, offset, batch)

		var wg sync.WaitGroup
		for i, title := range batch {
			wg.Add(1)
			go func(slot int, title string) {
				defer wg.Done()
				meta := c.meta.Fetch(ctx, title)
				sink.Card(key, Card{
					Slot:      slot,
					Title:     title,
					Meta:      meta,
					SearchURL: SearchLink(title),
				})
			}(offset+i, title)
		}
		wg.Wait()
	}
}

// Page collects a fully enriched page into slot order, for callers that
// want the page as a value rather than streamed cards.
func (c *Controller) Page(ctx context.Context, titles []string, key string, session *Session) []Card {
	collector := &cardCollector{}
	c.RenderPage(ctx, titles, key, session, collector)
	return collector.sorted()
}

type cardCollector struct {
	mu    sync.Mutex
	cards []Card
}

func (cc *cardCollector) NoMoreItems(string) {}

func (cc *cardCollector) BeginBatch(string, int, []string) {}

func (cc *cardCollector) Card(_ string, card Card) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cards = append(cc.cards, card)
}

func (cc *cardCollector) sorted() []Card {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	out := make([]Card, len(cc.cards))
	for _, card := range cc.cards {
		out[card.Slot] = card
	}
	return out
}
