package metadata

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"watchnext/internal/config"
	"watchnext/internal/logging"
	"watchnext/internal/tmdb"
)

// Service fetches and caches display metadata. Safe for concurrent use.
type Service struct {
	client     tmdb.Searcher
	logger     *slog.Logger
	images     Images
	retries    int
	retryDelay time.Duration
	batchSize  int

	mu    sync.Mutex
	cache map[string]MovieMetadata

	trendingOnce sync.Once
	trending     []MovieMetadata
}

// NewService builds an enrichment service from application config.
func NewService(client tmdb.Searcher, cfg *config.Config, logger *slog.Logger) *Service {
	retries := cfg.Fetch.Retries
	if retries < 1 {
		retries = 1
	}
	batchSize := cfg.Browse.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	return &Service{
		client: client,
		logger: logging.NewComponentLogger(logger, "metadata"),
		images: Images{
			BaseURL:    cfg.TMDB.ImageBaseURL,
			PosterSize: cfg.TMDB.PosterSize,
		},
		retries:    retries,
		retryDelay: time.Duration(cfg.Fetch.RetryDelay) * time.Second,
		batchSize:  batchSize,
		cache:      make(map[string]MovieMetadata),
	}
}

// Fetch returns display metadata for a title, memoized by the exact title
// string. Failures degrade to the sentinel record after the configured
// retries; this method never returns an error.
func (s *Service) Fetch(ctx context.Context, title string) MovieMetadata {
	s.mu.Lock()
	if cached, ok := s.cache[title]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	result := s.fetchRemote(ctx, title)

	s.mu.Lock()
	s.cache[title] = result
	s.mu.Unlock()
	return result
}

func (s *Service) fetchRemote(ctx context.Context, title string) MovieMetadata {
	for attempt := 1; attempt <= s.retries; attempt++ {
		resp, err := s.client.SearchMovie(ctx, title)
		if err == nil {
			if len(resp.Results) == 0 {
				// Zero matches is a successful lookup; render sentinels.
				s.logger.Warn("no tmdb result",
					logging.String(logging.FieldTitle, title))
				return Sentinel(title)
			}
			return mapResult(title, resp.Results[0], s.images)
		}

		s.logger.Error("metadata fetch failed",
			logging.String(logging.FieldTitle, title),
			logging.Int(logging.FieldAttempt, attempt),
			logging.Error(err))
		if attempt < s.retries && s.retryDelay > 0 {
			time.Sleep(s.retryDelay)
		}
	}
	return Sentinel(title)
}

// FetchBatch enriches a batch of titles concurrently across a bounded worker
// pool. The result slice is indexed identically to titles regardless of
// fetch completion order, and the call returns only after every fetch has
// finished.
func (s *Service) FetchBatch(ctx context.Context, titles []string) []MovieMetadata {
	results := make([]MovieMetadata, len(titles))
	if len(titles) == 0 {
		return results
	}

	workers := s.batchSize
	if workers > len(titles) {
		workers = len(titles)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = s.Fetch(ctx, titles[idx])
			}
		}()
	}
	for idx := range titles {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	return results
}

// Trending returns the weekly trending list, fetched at most once per
// service lifetime. Any failure yields an empty list that is cached like a
// success; trending is best-effort and never retried.
func (s *Service) Trending(ctx context.Context) []MovieMetadata {
	s.trendingOnce.Do(func() {
		resp, err := s.client.TrendingWeek(ctx)
		if err != nil {
			s.logger.Error("trending fetch failed", logging.Error(err))
			return
		}
		trending := make([]MovieMetadata, 0, len(resp.Results))
		for _, result := range resp.Results {
			// Unnamed trending entries render as "Unknown".
			trending = append(trending, mapResult("Unknown", result, s.images))
		}
		s.trending = trending
	})

	out := make([]MovieMetadata, len(s.trending))
	copy(out, s.trending)
	return out
}

// CacheSize reports how many titles are memoized. Exposed for the status
// endpoint.
func (s *Service) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
