package browse

import (
	"sync"
	"time"
)

// Session tracks a page cursor per list key along with the query that
// last drove each key. Cursors survive unrelated activity: paging the
// trending list never moves the recommendation cursor.
type Session struct {
	mu         sync.Mutex
	cursors    map[string]int
	queries    map[string]string
	lastAccess time.Time
}

func NewSession() *Session {
	return &Session{
		cursors:    make(map[string]int),
		queries:    make(map[string]string),
		lastAccess: time.Now(),
	}
}

// SetQuery records the query driving a key. When the query differs from
// the one last seen for that key, only that key's cursor resets to the
// first page. Repeating the same query leaves the cursor where it is.
func (s *Session) SetQuery(key, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	if s.queries[key] != query {
		s.queries[key] = query
		s.cursors[key] = 0
	}
}

// Query returns the query last recorded for a key, or "" if none.
func (s *Session) Query(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[key]
}

// Page returns the current cursor for a key. Unknown keys start at 0.
func (s *Session) Page(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	return s.cursors[key]
}

// Next advances the cursor for a key, clamped to the last page. A move
// past the end is a no-op.
func (s *Session) Next(key string, pageCount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	s.cursors[key] = clampPage(s.cursors[key]+1, pageCount)
	return s.cursors[key]
}

// Prev moves the cursor for a key back one page, clamped to 0.
func (s *Session) Prev(key string, pageCount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccess = time.Now()
	s.cursors[key] = clampPage(s.cursors[key]-1, pageCount)
	return s.cursors[key]
}

// LastAccess reports when the session was last touched. The daemon's
// session store uses it to prune idle sessions.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func clampPage(page, pageCount int) int {
	if pageCount < 1 {
		return 0
	}
	if page < 0 {
		return 0
	}
	if page > pageCount-1 {
		return pageCount - 1
	}
	return page
}
