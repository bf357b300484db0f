package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"watchnext/internal/tmdb"
)

// NewTMDBServer starts a stub TMDB API serving search results from the
// supplied function and a fixed trending list. The server shuts down with
// the test.
func NewTMDBServer(t testing.TB, search func(query string) []tmdb.Result, trending []tmdb.Result) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		var results []tmdb.Result
		if search != nil {
			results = search(r.URL.Query().Get("query"))
		}
		writeTMDBResponse(w, results)
	})
	mux.HandleFunc("/trending/movie/week", func(w http.ResponseWriter, r *http.Request) {
		writeTMDBResponse(w, trending)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeTMDBResponse(w http.ResponseWriter, results []tmdb.Result) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tmdb.Response{
		Page:         1,
		Results:      results,
		TotalResults: len(results),
	})
}
