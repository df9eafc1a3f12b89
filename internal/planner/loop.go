package planner

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned for work posted to a session whose loop has stopped.
var ErrClosed = errors.New("session closed")

// loop runs every state transition of a session on one goroutine.
// Network completions and timers post closures back onto it.
type loop struct {
	events   chan func()
	quit     chan struct{}
	stopOnce sync.Once
}

func newLoop() *loop {
	return &loop{
		events: make(chan func(), 64),
		quit:   make(chan struct{}),
	}
}

func (l *loop) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.stop()
			return
		case <-l.quit:
			return
		case fn := <-l.events:
			fn()
		}
	}
}

func (l *loop) stop() {
	l.stopOnce.Do(func() { close(l.quit) })
}

// post enqueues fn and reports whether the loop accepted it.
// Must not be called from the loop goroutine itself.
func (l *loop) post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}

	select {
	case l.events <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// call runs fn on the loop and waits for it to finish.
func (l *loop) call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.post(func() {
		defer close(done)
		fn()
	}) {
		return ErrClosed
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		return ErrClosed
	}
}
