package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/selection"
)

// ErrSessionNotFound is returned for unknown session IDs
var ErrSessionNotFound = errors.New("session not found")

// Session owns one State. Commands are applied one at a time and either
// replace the whole State or leave it untouched.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu       sync.Mutex
	state    State
	detector selection.ChangeDetector
}

// State returns a snapshot of the session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs a command against the current state and commits the new state
// only when the command succeeds
func (s *Session) Apply(cmd func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(cmd)
}

// ApplySelection is Apply followed by a selection change check under the same
// lock, so concurrent commands never see each other's change flag.
func (s *Session) ApplySelection(cmd func(State) (State, error)) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.apply(cmd)
	if err != nil {
		return next, false, err
	}
	return next, s.detector.Check(next.Selection), nil
}

func (s *Session) apply(cmd func(State) (State, error)) (State, error) {
	next, err := cmd(s.state)
	if err != nil {
		return s.state, err
	}
	if !next.Selection.Equal(s.state.Selection) {
		s.detector.Mark()
	}
	s.state = next
	return next, nil
}

// SelectionChanged reports whether the selection changed since the last call
func (s *Session) SelectionChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.Check(s.state.Selection)
}

// Registry keeps independent sessions. Each session starts from the same
// base dataset; datasets are immutable, so a merge in one session never
// shows up in another.
type Registry struct {
	mu       sync.RWMutex
	base     *dataset.Dataset
	sessions map[string]*Session
}

// NewRegistry creates a registry whose sessions start from base
func NewRegistry(base *dataset.Dataset) *Registry {
	if base == nil {
		base = dataset.Empty()
	}
	return &Registry{
		base:     base,
		sessions: make(map[string]*Session),
	}
}

// Base returns the dataset new sessions start from
func (r *Registry) Base() *dataset.Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.base
}

// Create starts a new session
func (r *Registry) Create() *Session {
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		state:     NewState(r.Base()),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with this ID
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete ends a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
