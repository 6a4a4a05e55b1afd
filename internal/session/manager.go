package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns the live sessions of one server process. Turns within a
// session are serialized by a per-session mutex; separate sessions run
// concurrently. Sessions are evicted after idleTTL without activity.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	idleTTL  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

type entry struct {
	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

// NewManager creates a session manager and starts its eviction janitor.
func NewManager(idleTTL, sweepInterval time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*entry),
		idleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
	}
	if sweepInterval > 0 {
		go m.janitor(sweepInterval)
	}
	return m
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Do runs fn under the session's lock, persisting the returned state.
// Unknown ids are created as empty sessions, so a first turn and a
// follow-up turn share one code path. fn receives a value copy; the
// prior state is kept unchanged when fn returns an error.
func (m *Manager) Do(id string, fn func(State) (State, error)) error {
	e := m.acquire(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.state)
	if err != nil {
		return err
	}
	e.state = next
	e.lastSeen = time.Now()
	return nil
}

// Peek returns a copy of the session's current state.
// The boolean is false for unknown ids.
func (m *Manager) Peek(id string) (State, bool) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return State{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone(), true
}

// Delete removes a session outright.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stop terminates the eviction janitor. Safe to call multiple times.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Manager) acquire(id string) *entry {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok = m.sessions[id]; ok {
		return e
	}
	e = &entry{lastSeen: time.Now()}
	m.sessions[id] = e
	return e
}

func (m *Manager) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		// lastSeen and state are written under e.mu in Do.
		e.mu.Lock()
		expired := e.lastSeen.Before(cutoff) || e.state.Status == StatusTerminated
		e.mu.Unlock()
		if expired {
			delete(m.sessions, id)
		}
	}
}
