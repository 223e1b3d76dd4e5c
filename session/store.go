// Package session owns in-memory conversation state: creation, history,
// per-session context, and time-based eviction.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dbchat-dev/dbchat/domain"
)

// ErrNotFound is returned when an operation names a session that does not exist.
var ErrNotFound = errors.New("session not found")

// Stats summarizes the current state of the store.
type Stats struct {
	TotalSessions  int `json:"total_sessions"`
	ActiveSessions int `json:"active_sessions"`
	TotalMessages  int `json:"total_messages"`
}

type state struct {
	history      []domain.Message
	createdAt    time.Time
	lastActivity time.Time
	context      map[string]interface{}
}

// Store is the session table. All operations are safe for concurrent use;
// a single mutex serializes every read-modify-write sequence.
type Store struct {
	mu              sync.Mutex
	sessions        map[string]*state
	maxHistory      int
	cleanupInterval time.Duration
	lastCleanup     time.Time

	now func() time.Time
}

// NewStore creates an empty store. maxHistory caps per-session history length;
// cleanupInterval gates AutoEvict sweeps.
func NewStore(maxHistory int, cleanupInterval time.Duration) *Store {
	now := func() time.Time { return time.Now().UTC() }
	return &Store{
		sessions:        make(map[string]*state),
		maxHistory:      maxHistory,
		cleanupInterval: cleanupInterval,
		lastCleanup:     now(),
		now:             now,
	}
}

func (s *Store) newState(now time.Time) *state {
	return &state{
		history:      []domain.Message{},
		createdAt:    now,
		lastActivity: now,
		context:      make(map[string]interface{}),
	}
}

// GetOrCreate returns id unchanged when it names an existing session,
// refreshing its last activity. When id is empty it mints a fresh one; when it
// is unknown the session is initialized under the given id. The returned id
// always maps to an existing session.
func (s *Store) GetOrCreate(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if st, ok := s.sessions[id]; id != "" && ok {
		st.lastActivity = now
		return id
	}
	if id == "" {
		id = uuid.New().String()
	}
	s.sessions[id] = s.newState(now)
	return id
}

// ensure lazily initializes a session under the exact given id. Unlike
// GetOrCreate it never mints a new id: caller-supplied identity wins.
func (s *Store) ensure(id string, now time.Time) *state {
	st, ok := s.sessions[id]
	if !ok {
		st = s.newState(now)
		s.sessions[id] = st
	}
	return st
}

// AddMessage appends a message to the session's history, creating the session
// under id if needed, and trims the oldest entries beyond the history cap.
func (s *Store) AddMessage(id string, role domain.Role, content string, metadata map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st := s.ensure(id, now)
	st.history = append(st.history, domain.Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
		Metadata:  metadata,
	})
	st.lastActivity = now

	if over := len(st.history) - s.maxHistory; over > 0 {
		st.history = append([]domain.Message(nil), st.history[over:]...)
	}
}

// History returns the ordered message history for id, or an empty slice for
// unknown ids. The returned slice is a copy.
func (s *Store) History(id string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return []domain.Message{}
	}
	return append([]domain.Message(nil), st.history...)
}

// Context returns a copy of the session's context mapping, or an empty map for
// unknown ids.
func (s *Store) Context(id string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := make(map[string]interface{})
	if st, ok := s.sessions[id]; ok {
		for k, v := range st.context {
			ctx[k] = v
		}
	}
	return ctx
}

// UpdateContext merges patch into the session's context. It follows
// GetOrCreate identity semantics and returns the possibly-minted id.
func (s *Store) UpdateContext(id string, patch map[string]interface{}) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if id == "" {
		id = uuid.New().String()
	}
	st := s.ensure(id, now)
	for k, v := range patch {
		st.context[k] = v
	}
	st.lastActivity = now
	return id
}

// EvictStale removes every session whose last activity is older than
// now - maxAge and returns the number removed.
func (s *Store) EvictStale(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictStaleLocked(maxAge)
}

func (s *Store) evictStaleLocked(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)
	removed := 0
	for id, st := range s.sessions {
		if st.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.lastCleanup = s.now()
	return removed
}

// AutoEvict runs EvictStale(maxAge) only when the time since the previous
// sweep exceeds the cleanup interval; otherwise it is a no-op. It is meant to
// be called opportunistically, e.g. once per incoming request.
func (s *Store) AutoEvict(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Sub(s.lastCleanup) <= s.cleanupInterval {
		return 0
	}
	return s.evictStaleLocked(maxAge)
}

// Stats reports totals over the current session table. A session is active
// when its last activity is within the past hour.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{TotalSessions: len(s.sessions)}
	activeCutoff := s.now().Add(-time.Hour)
	for _, st := range s.sessions {
		if st.lastActivity.After(activeCutoff) {
			stats.ActiveSessions++
		}
		stats.TotalMessages += len(st.history)
	}
	return stats
}

// Delete removes a session. It returns ErrNotFound when id does not exist.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}
