package session

import (
	"context"
	"log/slog"
	"sync"
)

// Registry tracks live sessions so the server can persist every open drawing
// on shutdown.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	r.sessions[s.SessionID] = s
	r.mu.Unlock()
	slog.Info("session opened", "session", s.SessionID, "drawing", s.DrawingID, "user", s.UserID)
}

func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	if _, ok := r.sessions[s.SessionID]; ok {
		delete(r.sessions, s.SessionID)
		close(s.send)
	}
	r.mu.Unlock()
	slog.Info("session closed", "session", s.SessionID, "drawing", s.DrawingID)
}

// Shutdown saves every open session's drawing. Called once, before the HTTP
// server stops.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	open := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		open = append(open, s)
	}
	r.mu.Unlock()

	for _, s := range open {
		if err := s.persist(ctx); err != nil {
			slog.Error("persist on shutdown", "error", err, "drawing", s.DrawingID)
		}
	}
}
