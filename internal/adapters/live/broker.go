package live

import (
	"context"
	"sync"
	"trek-planner/internal/planner"
)

// Broker owns one hub per planning session.
type Broker struct {
	ctx context.Context

	mu   sync.Mutex
	hubs map[string]*hubEntry
}

type hubEntry struct {
	hub    *Hub
	cancel context.CancelFunc
}

func NewBroker(ctx context.Context) *Broker {
	return &Broker{ctx: ctx, hubs: make(map[string]*hubEntry)}
}

// Surface starts the hub of a new session. It matches planner.Surface.
func (b *Broker) Surface(sessionID string) (planner.Map, planner.Notifier) {
	ctx, cancel := context.WithCancel(b.ctx)
	hub := NewHub(sessionID)
	go hub.Run(ctx)

	b.mu.Lock()
	if old, ok := b.hubs[sessionID]; ok {
		old.cancel()
	}
	b.hubs[sessionID] = &hubEntry{hub: hub, cancel: cancel}
	b.mu.Unlock()

	s := NewSurface(hub)
	return s, s
}

func (b *Broker) Hub(sessionID string) (*Hub, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.hubs[sessionID]
	if !ok {
		return nil, false
	}
	return e.hub, true
}

// Remove stops the session's hub and drops its connections.
func (b *Broker) Remove(sessionID string) {
	b.mu.Lock()
	e, ok := b.hubs[sessionID]
	delete(b.hubs, sessionID)
	b.mu.Unlock()

	if ok {
		e.cancel()
	}
}
