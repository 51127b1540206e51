// Package session keeps per-browser dashboard state. Every visitor gets an
// isolated selection and animation sequencer, so two open tabs never fight
// over a shared global the way a single-process prototype would.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/animation"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
)

// Session is one visitor's dashboard state. Lock/Unlock serialize the event
// handlers for a session: concurrent events queue on the mutex and apply in
// arrival order, the last one winning. All other methods assume the caller
// holds the lock.
type Session struct {
	ID string

	mu        sync.Mutex
	selection []string
	sequencer *animation.Sequencer
	lastSeen  time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Selection returns a copy of the current country selection.
func (s *Session) Selection() []string {
	out := make([]string, len(s.selection))
	copy(out, s.selection)
	return out
}

// SetSelection replaces the current country selection.
func (s *Session) SetSelection(countries []string) {
	s.selection = make([]string, len(countries))
	copy(s.selection, countries)
}

// Sequencer returns the session's animation sequencer.
func (s *Session) Sequencer() *animation.Sequencer { return s.sequencer }

// Touch marks the session as recently used.
func (s *Session) Touch() { s.lastSeen = time.Now() }

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager owns the session map. Idle sessions are evicted after the TTL so
// abandoned tabs do not accumulate state forever.
type Manager struct {
	mu               sync.RWMutex
	sessions         map[string]*Session
	defaultSelection []string
	ttl              time.Duration
	stop             chan struct{}
	stopOnce         sync.Once
}

// NewManager creates a session manager. defaultSelection seeds every new
// session and is expected to be pre-sanitized against the dataset's country
// list. A zero ttl disables eviction.
func NewManager(defaultSelection []string, ttl time.Duration) *Manager {
	return &Manager{
		sessions:         make(map[string]*Session),
		defaultSelection: defaultSelection,
		ttl:              ttl,
		stop:             make(chan struct{}),
	}
}

// Get returns the session for id when it exists.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, creating a fresh one (new UUID,
// default selection, stopped sequencer) when id is empty or unknown. The
// second return value reports whether a new session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			s.Lock()
			s.Touch()
			s.Unlock()
			return s, false
		}
	}

	s := &Session{
		ID:        uuid.NewString(),
		sequencer: animation.NewSequencer(),
		lastSeen:  time.Now(),
	}
	s.SetSelection(m.defaultSelection)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logger.Debug("Session created", map[string]interface{}{"session_id": s.ID})
	return s, true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper evicts idle sessions on the given interval until Close.
func (m *Manager) StartSweeper(interval time.Duration) {
	if m.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if evicted := m.sweep(time.Now()); evicted > 0 {
					logger.Debug("Sessions evicted", map[string]interface{}{"count": evicted})
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// sweep removes sessions idle longer than the TTL and returns the count.
func (m *Manager) sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Close stops the sweeper goroutine.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}
