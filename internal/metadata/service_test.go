package metadata_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"watchnext/internal/logging"
	"watchnext/internal/metadata"
	"watchnext/internal/testsupport"
	"watchnext/internal/tmdb"
)

// fakeSearcher counts calls and serves scripted responses per title.
type fakeSearcher struct {
	mu            sync.Mutex
	searchCalls   map[string]int
	trendingCalls int

	results  map[string][]tmdb.Result
	fail     map[string]bool
	failTrend bool
	trending []tmdb.Result
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		searchCalls: make(map[string]int),
		results:     make(map[string][]tmdb.Result),
		fail:        make(map[string]bool),
	}
}

func (f *fakeSearcher) SearchMovie(_ context.Context, query string) (*tmdb.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls[query]++
	if f.fail[query] {
		return nil, errors.New("connection reset")
	}
	return &tmdb.Response{Results: f.results[query]}, nil
}

func (f *fakeSearcher) TrendingWeek(context.Context) (*tmdb.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trendingCalls++
	if f.failTrend {
		return nil, errors.New("gateway timeout")
	}
	return &tmdb.Response{Results: f.trending}, nil
}

func (f *fakeSearcher) calls(title string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls[title]
}

func newService(t *testing.T, searcher *fakeSearcher) *metadata.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return metadata.NewService(searcher, cfg, logging.NewNop())
}

func TestFetchMemoizesByTitle(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["Inception"] = []tmdb.Result{{Title: "Inception", ReleaseDate: "2010-07-16", VoteAverage: 8.8}}
	svc := newService(t, searcher)

	first := svc.Fetch(context.Background(), "Inception")
	second := svc.Fetch(context.Background(), "Inception")

	if searcher.calls("Inception") != 1 {
		t.Fatalf("expected exactly one network call, got %d", searcher.calls("Inception"))
	}
	if first != second {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
	if first.Year != "2010" || first.Rating != "8.8" {
		t.Fatalf("unexpected record: %+v", first)
	}
	if svc.CacheSize() != 1 {
		t.Fatalf("unexpected cache size: %d", svc.CacheSize())
	}
}

func TestFetchPermanentFailureReturnsSentinelAfterRetries(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.fail["Doomed"] = true
	svc := newService(t, searcher)

	got := svc.Fetch(context.Background(), "Doomed")

	if searcher.calls("Doomed") != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", searcher.calls("Doomed"))
	}
	if got != metadata.Sentinel("Doomed") {
		t.Fatalf("expected sentinel record, got %+v", got)
	}
}

func TestFetchZeroResultsIsSuccessWithSentinels(t *testing.T) {
	searcher := newFakeSearcher()
	svc := newService(t, searcher)

	got := svc.Fetch(context.Background(), "Nowhere Movie")

	if searcher.calls("Nowhere Movie") != 1 {
		t.Fatalf("zero results should not retry, got %d attempts", searcher.calls("Nowhere Movie"))
	}
	if got != metadata.Sentinel("Nowhere Movie") {
		t.Fatalf("expected sentinel record, got %+v", got)
	}
}

func TestFetchBatchAssociatesResultsBySlot(t *testing.T) {
	searcher := newFakeSearcher()
	titles := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta"}
	for _, title := range titles {
		searcher.results[title] = []tmdb.Result{{Title: title, ReleaseDate: "2001-01-01"}}
	}
	svc := newService(t, searcher)

	results := svc.FetchBatch(context.Background(), titles)

	if len(results) != len(titles) {
		t.Fatalf("expected %d results, got %d", len(titles), len(results))
	}
	for i, title := range titles {
		if results[i].Title != title {
			t.Fatalf("slot %d holds %q, want %q", i, results[i].Title, title)
		}
	}
}

func TestFetchBatchFailureDoesNotAffectSiblings(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.results["Good"] = []tmdb.Result{{Title: "Good", VoteAverage: 7.0}}
	searcher.fail["Bad"] = true
	svc := newService(t, searcher)

	results := svc.FetchBatch(context.Background(), []string{"Good", "Bad"})

	if results[0].Rating != "7.0" {
		t.Fatalf("sibling degraded: %+v", results[0])
	}
	if results[1] != metadata.Sentinel("Bad") {
		t.Fatalf("expected sentinel for failed title, got %+v", results[1])
	}
}

func TestTrendingFetchedOnce(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.trending = []tmdb.Result{{Title: "Hot One"}, {Title: "Hot Two"}}
	svc := newService(t, searcher)

	first := svc.Trending(context.Background())
	second := svc.Trending(context.Background())

	if searcher.trendingCalls != 1 {
		t.Fatalf("expected exactly one trending call, got %d", searcher.trendingCalls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("unexpected trending lengths: %d and %d", len(first), len(second))
	}
	if first[0].Title != "Hot One" {
		t.Fatalf("unexpected trending entry: %+v", first[0])
	}
}

func TestTrendingFailureCachesEmptyList(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.failTrend = true
	svc := newService(t, searcher)

	if got := svc.Trending(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty trending list, got %v", got)
	}
	// A later call must not refetch even though the first attempt failed.
	if got := svc.Trending(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty trending list, got %v", got)
	}
	if searcher.trendingCalls != 1 {
		t.Fatalf("trending refetched after failure: %d calls", searcher.trendingCalls)
	}
}
