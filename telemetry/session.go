package telemetry

import (
	"sync"
	"time"
)

// Session accumulates behavioral state for the lifetime of a page load. It is
// initialized once at startup and mutated by scroll/navigation observers;
// snapshots read it without resetting anything.
type Session struct {
	mu             sync.Mutex
	start          time.Time
	referrer       string
	currentURL     string
	pages          []PageVisit
	maxScrollDepth int
	now            func() time.Time
}

// NewSession starts a session at the given page. An empty referrer is
// reported as "direct", matching what browsers expose for direct navigation.
func NewSession(currentURL, referrer string) *Session {
	s := &Session{
		referrer:   referrer,
		currentURL: currentURL,
		now:        time.Now,
	}
	if s.referrer == "" {
		s.referrer = "direct"
	}
	s.start = s.now()
	s.RecordPageView(currentURL)
	return s
}

// RecordPageView appends to the visited-page trail. Called on initial load
// and on every history navigation.
func (s *Session) RecordPageView(page string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, PageVisit{
		Page:      page,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
	s.currentURL = page
}

// RecordScroll updates the maximum scroll depth seen this session. The value
// is a percentage and is clamped to [0, 100].
func (s *Session) RecordScroll(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if percent > s.maxScrollDepth {
		s.maxScrollDepth = percent
	}
}

// Duration reports elapsed session time.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.start)
}

func (s *Session) snapshot() (pages []PageVisit, currentURL string, maxScroll int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages = make([]PageVisit, len(s.pages))
	copy(pages, s.pages)
	return pages, s.currentURL, s.maxScrollDepth
}

// VisitStore persists the visit counter across sessions. Only the derived
// counts survive a page reload; the session itself is never persisted.
type VisitStore interface {
	// RecordVisit increments the counter and marks the visitor as seen.
	// Called once per session, at startup.
	RecordVisit(at time.Time)
	// VisitCount returns the number of recorded visits, at least 1.
	VisitCount() int
	// HasVisited reports whether any visit was ever recorded.
	HasVisited() bool
}

// MemoryVisitStore is a process-local VisitStore.
type MemoryVisitStore struct {
	mu        sync.Mutex
	count     int
	visited   bool
	lastVisit time.Time
}

func NewMemoryVisitStore() *MemoryVisitStore {
	return &MemoryVisitStore{}
}

func (m *MemoryVisitStore) RecordVisit(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	m.visited = true
	m.lastVisit = at
}

func (m *MemoryVisitStore) VisitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count < 1 {
		return 1
	}
	return m.count
}

func (m *MemoryVisitStore) HasVisited() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visited
}

func (m *MemoryVisitStore) LastVisit() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastVisit
}
