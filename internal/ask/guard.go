package ask

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by a Guard when the session already has an ask in flight.
var ErrBusy = errors.New("session busy")

// IsBusy reports whether err signals a concurrent ask for the same session.
func IsBusy(err error) bool { return errors.Is(err, ErrBusy) }

// Guard admits at most one in-flight ask per session. Acquire returns a
// release func that must be called exactly once when the ask finishes.
type Guard interface {
	Acquire(ctx context.Context, session string) (release func(), err error)
}

// MemoryGuard is a process-local Guard.
type MemoryGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewMemoryGuard returns an empty MemoryGuard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{inflight: make(map[string]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, session string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[session]; busy {
		return func() {}, ErrBusy
	}
	g.inflight[session] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, session)
			g.mu.Unlock()
		})
	}, nil
}

// Len returns the number of sessions currently holding the guard.
func (g *MemoryGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
