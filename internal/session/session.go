// Package session keeps per-dialog state for the lifetime of the process.
//
// Sessions are created on first reference and never expire. A USSD
// gateway delivers one turn at a time per session; WithLock additionally
// serializes turns that share a session id so a duplicated delivery
// cannot interleave with the turn it duplicates.
package session

import "sync"

// RecentLimit caps the recent-contacts list.
const RecentLimit = 5

// Draft is the in-progress Add/Update record. Each field stays empty
// until its wizard step completes.
type Draft struct {
	Village      string `json:"village,omitempty"`
	Name         string `json:"name,omitempty"`
	CategoryMain string `json:"category_main,omitempty"`
	CategorySub  string `json:"category_sub,omitempty"`
}

// Session is the mutable state of one dialog.
type Session struct {
	ID     string
	Recent []string // most recent first
	Wizard Draft
}

// AddRecent moves phone to the front of the recent list, dropping any
// earlier copy and trimming the list to RecentLimit.
func (s *Session) AddRecent(phone string) {
	if phone == "" {
		return
	}
	recent := make([]string, 0, RecentLimit)
	recent = append(recent, phone)
	for _, p := range s.Recent {
		if p != phone && len(recent) < RecentLimit {
			recent = append(recent, p)
		}
	}
	s.Recent = recent
}

// ResetWizard clears the in-progress draft.
func (s *Session) ResetWizard() {
	s.Wizard = Draft{}
}

func (s *Session) clone() *Session {
	c := *s
	c.Recent = append([]string(nil), s.Recent...)
	return &c
}

// Store maps session ids to sessions.
type Store interface {
	// Get returns a snapshot of the session, creating it if unseen.
	Get(id string) *Session

	// Put replaces the stored session with a copy of s.
	Put(s *Session)

	// WithLock runs fn with exclusive access to the live session.
	WithLock(id string, fn func(*Session) error) error
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

// MemoryStore is an in-process Store with one lock per session.
type MemoryStore struct {
	mu      sync.Mutex // guards entries
	entries map[string]*entry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

func (m *MemoryStore) lookup(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		e = &entry{sess: &Session{ID: id}}
		m.entries[id] = e
	}
	return e
}

func (m *MemoryStore) Get(id string) *Session {
	e := m.lookup(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.clone()
}

func (m *MemoryStore) Put(s *Session) {
	e := m.lookup(s.ID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess = s.clone()
}

func (m *MemoryStore) WithLock(id string, fn func(*Session) error) error {
	e := m.lookup(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Len returns the number of sessions seen so far.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
