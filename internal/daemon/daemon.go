package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"watchnext/internal/browse"
	"watchnext/internal/catalog"
	"watchnext/internal/config"
	"watchnext/internal/logging"
	"watchnext/internal/metadata"
	"watchnext/internal/recommend"
	"watchnext/internal/tmdb"
)

// ListKeyRecommend and ListKeyTrending are the session cursor keys the
// daemon pages under.
const (
	ListKeyRecommend = "recommend"
	ListKeyTrending  = "trending"
)

// Daemon coordinates the recommendation services and enforces
// single-instance execution.
type Daemon struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *catalog.Store
	recommender *recommend.Recommender
	metadata    *metadata.Service
	browser     *browse.Controller
	sessions    *sessionStore

	lockPath string
	lock     *flock.Flock

	running       atomic.Bool
	trendingCount atomic.Int64
	startedAt     time.Time

	ctx    context.Context
	cancel context.CancelFunc

	api *apiServer
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool   `json:"running"`
	PID            int    `json:"pid"`
	CatalogPath    string `json:"catalog_path"`
	CatalogSize    int    `json:"catalog_size"`
	LockFilePath   string `json:"lock_file_path"`
	TrendingCount  int    `json:"trending_count"`
	MetadataCached int    `json:"metadata_cached"`
	Sessions       int    `json:"sessions"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// New constructs a daemon around an opened catalog and a TMDB client.
func New(cfg *config.Config, store *catalog.Store, client tmdb.Searcher, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || client == nil {
		return nil, errors.New("daemon requires config, catalog store, and tmdb client")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	svc := metadata.NewService(client, cfg, logger)
	lockPath := filepath.Join(cfg.Paths.LogDir, "watchnextd.lock")
	return &Daemon{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "daemon"),
		store:       store,
		recommender: recommend.New(store, logger),
		metadata:    svc,
		browser:     browse.NewController(svc, cfg, logger),
		sessions:    newSessionStore(time.Duration(cfg.Browse.SessionTTL) * time.Minute),
		lockPath:    lockPath,
		lock:        flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, warms the trending cache, and brings up
// the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another watchnext daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	api, err := newAPIServer(d.cfg, d, d.logger)
	if err != nil {
		d.releaseLock()
		return err
	}
	d.api = api
	if err := d.api.start(d.ctx); err != nil {
		d.releaseLock()
		return err
	}

	// Trending is fetched once per process; warm it so the first request
	// does not pay the network round trip.
	go func() {
		list := d.metadata.Trending(d.ctx)
		d.trendingCount.Store(int64(len(list)))
	}()

	go d.sessions.pruneLoop(d.ctx)

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("watchnext daemon started",
		logging.String("lock", d.lockPath),
		logging.Int("catalog_size", d.store.Len()))
	return nil
}

// Stop shuts down the HTTP API and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
		d.api = nil
	}
	d.releaseLock()
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("watchnext daemon stopped")
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

// Addr returns the API listen address, usable once Start has returned.
func (d *Daemon) Addr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Search resolves a query and returns the enriched current page of
// recommendations for the session.
func (d *Daemon) Search(ctx context.Context, session *browse.Session, query string) ([]browse.Card, int, int) {
	session.SetQuery(ListKeyRecommend, query)
	titles := d.recommender.Recommend(query)
	cards := d.browser.Page(ctx, titles, ListKeyRecommend, session)
	return cards, session.Page(ListKeyRecommend), d.browser.PageCount(len(titles))
}

// Trending returns the enriched current trending page for the session.
func (d *Daemon) Trending(ctx context.Context, session *browse.Session) ([]browse.Card, int, int) {
	titles := d.trendingTitles(ctx)
	cards := d.browser.Page(ctx, titles, ListKeyTrending, session)
	return cards, session.Page(ListKeyTrending), d.browser.PageCount(len(titles))
}

// TurnPage moves the session cursor for a key and returns the re-enriched
// page. The list the key addresses is recomputed from the session's last
// query, so a stale cursor is clamped against the current list.
func (d *Daemon) TurnPage(ctx context.Context, session *browse.Session, key string, forward bool) ([]browse.Card, int, int, error) {
	var titles []string
	switch key {
	case ListKeyRecommend:
		titles = d.recommender.Recommend(session.Query(ListKeyRecommend))
	case ListKeyTrending:
		titles = d.trendingTitles(ctx)
	default:
		return nil, 0, 0, fmt.Errorf("unknown list key %q", key)
	}

	pageCount := d.browser.PageCount(len(titles))
	if forward {
		session.Next(key, pageCount)
	} else {
		session.Prev(key, pageCount)
	}
	cards := d.browser.Page(ctx, titles, key, session)
	return cards, session.Page(key), pageCount, nil
}

func (d *Daemon) trendingTitles(ctx context.Context) []string {
	list := d.metadata.Trending(ctx)
	d.trendingCount.Store(int64(len(list)))
	titles := make([]string, len(list))
	for i, entry := range list {
		titles[i] = entry.Title
	}
	return titles
}

// Session returns the browse session for an id, creating one when the id
// is unknown or empty. The returned id identifies the session in
// subsequent requests.
func (d *Daemon) Session(id string) (*browse.Session, string) {
	return d.sessions.get(id)
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	var uptime int64
	if d.running.Load() {
		uptime = int64(time.Since(d.startedAt).Seconds())
	}
	return Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		CatalogPath:    d.cfg.Catalog.Path,
		CatalogSize:    d.store.Len(),
		LockFilePath:   d.lockPath,
		TrendingCount:  int(d.trendingCount.Load()),
		MetadataCached: d.metadata.CacheSize(),
		Sessions:       d.sessions.len(),
		UptimeSeconds:  uptime,
	}
}
