package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"watchnext/internal/browse"
	"watchnext/internal/config"
	"watchnext/internal/logging"
)

// sessionHeader carries the browse session id on API requests and
// responses.
const sessionHeader = "X-Session-ID"

type apiServer struct {
	bind   string
	token  string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

// PageResponse is the JSON body for every page-returning endpoint.
type PageResponse struct {
	Key       string        `json:"key"`
	Query     string        `json:"query,omitempty"`
	Page      int           `json:"page"`
	PageCount int           `json:"page_count"`
	Cards     []browse.Card `json:"cards"`
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address is required")
	}

	srv := &apiServer{
		bind:   bind,
		token:  cfg.Paths.APIToken,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", authMiddleware(srv.token, srv.handleStatus))
	mux.HandleFunc("/api/search", authMiddleware(srv.token, srv.handleSearch))
	mux.HandleFunc("/api/trending", authMiddleware(srv.token, srv.handleTrending))
	mux.HandleFunc("/api/page/next", authMiddleware(srv.token, srv.handlePageNext))
	mux.HandleFunc("/api/page/prev", authMiddleware(srv.token, srv.handlePagePrev))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func (s *apiServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	session, id := s.session(r)
	ctx := logging.WithSessionID(r.Context(), id)
	cards, page, pageCount := s.daemon.Search(ctx, session, query)

	w.Header().Set(sessionHeader, id)
	s.writeJSON(w, http.StatusOK, PageResponse{
		Key:       ListKeyRecommend,
		Query:     query,
		Page:      page,
		PageCount: pageCount,
		Cards:     cards,
	})
}

func (s *apiServer) handleTrending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	session, id := s.session(r)
	ctx := logging.WithSessionID(r.Context(), id)
	cards, page, pageCount := s.daemon.Trending(ctx, session)

	w.Header().Set(sessionHeader, id)
	s.writeJSON(w, http.StatusOK, PageResponse{
		Key:       ListKeyTrending,
		Page:      page,
		PageCount: pageCount,
		Cards:     cards,
	})
}

func (s *apiServer) handlePageNext(w http.ResponseWriter, r *http.Request) {
	s.handlePageTurn(w, r, true)
}

func (s *apiServer) handlePagePrev(w http.ResponseWriter, r *http.Request) {
	s.handlePageTurn(w, r, false)
}

func (s *apiServer) handlePageTurn(w http.ResponseWriter, r *http.Request, forward bool) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		key = ListKeyRecommend
	}

	session, id := s.session(r)
	ctx := logging.WithSessionID(logging.WithListKey(r.Context(), key), id)
	cards, page, pageCount, err := s.daemon.TurnPage(ctx, session, key, forward)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set(sessionHeader, id)
	s.writeJSON(w, http.StatusOK, PageResponse{
		Key:       key,
		Query:     session.Query(key),
		Page:      page,
		PageCount: pageCount,
		Cards:     cards,
	})
}

func (s *apiServer) session(r *http.Request) (*browse.Session, string) {
	return s.daemon.Session(strings.TrimSpace(r.Header.Get(sessionHeader)))
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "api-server")
}
