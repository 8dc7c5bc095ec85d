package usecase

import "sync"

// Registry is the process-wide mapping from recording id to session. Sessions
// are never removed; the registry lives as long as the process. It only
// guards the mapping itself, each session carries its own lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*recordingSession
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*recordingSession)}
}

func (r *Registry) add(session *recordingSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.id] = session
}

func (r *Registry) lookup(id string) (*recordingSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

func (r *Registry) all() []*recordingSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]*recordingSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}
