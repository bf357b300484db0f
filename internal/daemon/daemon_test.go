package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"watchnext/internal/catalog"
	"watchnext/internal/config"
	"watchnext/internal/testsupport"
	"watchnext/internal/tmdb"
)

type searcherStub struct {
	trending []tmdb.Result
}

func (s *searcherStub) SearchMovie(_ context.Context, query string) (*tmdb.Response, error) {
	return &tmdb.Response{Results: []tmdb.Result{{
		Title:       query,
		PosterPath:  "/poster.jpg",
		ReleaseDate: "2014-11-05",
		VoteAverage: 8.1,
	}}}, nil
}

func (s *searcherStub) TrendingWeek(context.Context) (*tmdb.Response, error) {
	return &tmdb.Response{Results: s.trending}, nil
}

func testCatalogConfig(t *testing.T, opts ...testsupport.ConfigOption) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	// Row 0 ranks Inception 2 above Interstellar above Tenet.
	titles := []string{"Inception", "Interstellar", "Inception 2", "Tenet"}
	matrix := [][]float64{
		{1.0, 0.8, 0.9, 0.1},
		{0.8, 1.0, 0.7, 0.2},
		{0.9, 0.7, 1.0, 0.3},
		{0.1, 0.2, 0.3, 1.0},
	}
	cfg.Catalog.Path = testsupport.WriteCatalog(t, titles, matrix)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return cfg
}

func newTestDaemon(t *testing.T, opts ...testsupport.ConfigOption) *Daemon {
	t.Helper()
	cfg := testCatalogConfig(t, opts...)
	store, err := catalog.Open(context.Background(), cfg.Catalog.Path)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	stub := &searcherStub{trending: []tmdb.Result{{Title: "Hot One"}, {Title: "Hot Two"}, {Title: "Hot Three"}}}
	d, err := New(cfg, store, stub, nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	return d
}

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*apiServer, *Daemon) {
	t.Helper()
	d := newTestDaemon(t, opts...)
	srv, err := newAPIServer(d.cfg, d, nil)
	if err != nil {
		t.Fatalf("new api server: %v", err)
	}
	return srv, d
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) PageResponse {
	t.Helper()
	var resp PageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestDaemonStartStop(t *testing.T) {
	d := newTestDaemon(t)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer d.Stop()

	if !d.Status().Running {
		t.Fatal("expected daemon to report running")
	}
	if d.Addr() == "" {
		t.Fatal("expected api listen address")
	}
	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to report stopped")
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	srv.handleStatus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var status Status
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.CatalogSize != 4 {
		t.Fatalf("expected catalog size 4, got %d", status.CatalogSize)
	}
}

func TestHandleSearchReturnsEnrichedPage(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=inception", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if w.Header().Get(sessionHeader) == "" {
		t.Fatal("expected session id header on response")
	}
	resp := decodePage(t, w)
	if resp.Key != ListKeyRecommend {
		t.Fatalf("unexpected key: %q", resp.Key)
	}
	if len(resp.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(resp.Cards))
	}
	if resp.Cards[0].Title != "Inception 2" || resp.Cards[1].Title != "Interstellar" {
		t.Fatalf("unexpected ranking: %q, %q", resp.Cards[0].Title, resp.Cards[1].Title)
	}
	if resp.Cards[0].Meta.Year != "2014" {
		t.Fatalf("card not enriched: %+v", resp.Cards[0].Meta)
	}
	if resp.Cards[0].SearchURL != "https://www.google.com/search?q=Inception+2" {
		t.Fatalf("unexpected search link: %q", resp.Cards[0].SearchURL)
	}
}

func TestHandleSearchRequiresQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleSearchRejectsPost(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/search?q=inception", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHandleTrending(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trending", nil)
	w := httptest.NewRecorder()
	srv.handleTrending(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	resp := decodePage(t, w)
	if resp.Key != ListKeyTrending {
		t.Fatalf("unexpected key: %q", resp.Key)
	}
	if len(resp.Cards) != 3 || resp.Cards[0].Title != "Hot One" {
		t.Fatalf("unexpected trending cards: %+v", resp.Cards)
	}
}

func TestSessionReusedAcrossRequests(t *testing.T) {
	srv, d := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=inception", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, req)
	id := w.Header().Get(sessionHeader)

	req = httptest.NewRequest(http.MethodGet, "/api/trending", nil)
	req.Header.Set(sessionHeader, id)
	w = httptest.NewRecorder()
	srv.handleTrending(w, req)

	if got := w.Header().Get(sessionHeader); got != id {
		t.Fatalf("session id changed: %q vs %q", got, id)
	}
	if d.sessions.len() != 1 {
		t.Fatalf("expected 1 session, got %d", d.sessions.len())
	}
}

func TestPageNextClampsAtLastPage(t *testing.T) {
	srv, _ := newTestServer(t, testsupport.WithBrowseSizes(2, 2))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=inception", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, req)
	id := w.Header().Get(sessionHeader)

	// 3 recommendations at 2 per page: pages 0 and 1.
	var resp PageResponse
	for i := 0; i < 5; i++ {
		req = httptest.NewRequest(http.MethodPost, "/api/page/next?key=recommend", nil)
		req.Header.Set(sessionHeader, id)
		w = httptest.NewRecorder()
		srv.handlePageNext(w, req)
		resp = decodePage(t, w)
	}
	if resp.Page != 1 || resp.PageCount != 2 {
		t.Fatalf("expected clamp at page 1 of 2, got page %d of %d", resp.Page, resp.PageCount)
	}
	if len(resp.Cards) != 1 {
		t.Fatalf("expected 1 card on the final page, got %d", len(resp.Cards))
	}

	for i := 0; i < 5; i++ {
		req = httptest.NewRequest(http.MethodPost, "/api/page/prev?key=recommend", nil)
		req.Header.Set(sessionHeader, id)
		w = httptest.NewRecorder()
		srv.handlePagePrev(w, req)
		resp = decodePage(t, w)
	}
	if resp.Page != 0 {
		t.Fatalf("expected clamp at page 0, got %d", resp.Page)
	}
}

func TestQueryChangeResetsOnlyRecommendCursor(t *testing.T) {
	srv, _ := newTestServer(t, testsupport.WithBrowseSizes(1, 1))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=inception", nil)
	w := httptest.NewRecorder()
	srv.handleSearch(w, req)
	id := w.Header().Get(sessionHeader)

	turn := func(key string) PageResponse {
		req = httptest.NewRequest(http.MethodPost, "/api/page/next?key="+key, nil)
		req.Header.Set(sessionHeader, id)
		w = httptest.NewRecorder()
		srv.handlePageNext(w, req)
		return decodePage(t, w)
	}

	turn("recommend")
	trendingResp := turn("trending")
	if trendingResp.Page != 1 {
		t.Fatalf("expected trending page 1, got %d", trendingResp.Page)
	}

	// A new query resets the recommend cursor only.
	req = httptest.NewRequest(http.MethodGet, "/api/search?q=interstellar", nil)
	req.Header.Set(sessionHeader, id)
	w = httptest.NewRecorder()
	srv.handleSearch(w, req)
	resp := decodePage(t, w)
	if resp.Page != 0 {
		t.Fatalf("expected recommend cursor reset to 0, got %d", resp.Page)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/trending", nil)
	req.Header.Set(sessionHeader, id)
	w = httptest.NewRecorder()
	srv.handleTrending(w, req)
	if resp := decodePage(t, w); resp.Page != 1 {
		t.Fatalf("expected trending cursor to survive query change, got page %d", resp.Page)
	}
}

func TestPageTurnUnknownKey(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/page/next?key=watchlist", nil)
	w := httptest.NewRecorder()
	srv.handlePageNext(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := authMiddleware("secret", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
}
