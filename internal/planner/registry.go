package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrUnknownSession = errors.New("unknown session")

// Surface provides the map and notifier a new session renders to.
type Surface func(sessionID string) (Map, Notifier)

// Registry keeps the live sessions of a host process.
type Registry struct {
	ctx     context.Context
	deps    Deps
	opts    Options
	surface Surface

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates sessions bound to ctx. deps.Map and deps.Notifier are
// ignored when surface is set.
func NewRegistry(ctx context.Context, deps Deps, opts Options, surface Surface) *Registry {
	return &Registry{
		ctx:      ctx,
		deps:     deps,
		opts:     opts,
		surface:  surface,
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Create() (*Session, error) {
	id := uuid.NewString()

	deps := r.deps
	if r.surface != nil {
		deps.Map, deps.Notifier = r.surface(id)
	}

	s, err := NewSession(r.ctx, id, deps, r.opts)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return s, nil
}

func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	s.Close()
	return nil
}

// Close stops every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
