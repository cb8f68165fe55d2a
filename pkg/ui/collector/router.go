package collector

import (
	"sync"

	"tunebot/pkg/ui"
)

// Router maps rendered messages to their live session so host callbacks can
// be turned into one ordered inbox per session.
type Router struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{sessions: make(map[string]*Session)}
}

// Dispatch hands ev to the session bound to its message.
func (r *Router) Dispatch(ev ui.Event) error {
	r.mu.Lock()
	s, ok := r.sessions[ev.Target.MessageID]
	r.mu.Unlock()
	if !ok {
		return ErrNoSession
	}
	return s.deliver(ev)
}

// Lookup returns the live session bound to messageID.
func (r *Router) Lookup(messageID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[messageID]
	return s, ok
}

// Len returns the number of live sessions.
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Router) attach(s *Session) error {
	key := s.target.MessageID

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[key]; exists {
		return ErrDuplicateSession
	}
	r.sessions[key] = s
	return nil
}

func (r *Router) detach(s *Session) {
	key := s.target.MessageID

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[key] == s {
		delete(r.sessions, key)
	}
}
