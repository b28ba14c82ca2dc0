package input

import (
	"context"
	"sync"
)

// latch is a one-shot signal: once set it stays set.
type latch struct {
	once sync.Once
	ch   chan struct{}
}

func newLatch() *latch { return &latch{ch: make(chan struct{})} }

func (l *latch) set() { l.once.Do(func() { close(l.ch) }) }

func (l *latch) isSet() bool {
	select {
	case <-l.ch:
		return true
	default:
		return false
	}
}

// Bridge tracks, per request id, whether an input request has been
// acknowledged. It is safe for concurrent use. Entries are never removed, so
// a request id that is reused observes its earlier, already set latch.
type Bridge struct {
	mu      sync.Mutex
	latches map[string]*latch
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{latches: make(map[string]*latch)}
}

// entry returns the latch for id, creating it on first use.
func (b *Bridge) entry(id string) *latch {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.latches[id]
	if !ok {
		l = newLatch()
		b.latches[id] = l
	}
	return l
}

// Notify signals the waiter registered under requestID. When no waiter is
// registered yet the latch is created already set, so a later Wait returns
// immediately. Repeated notifications are no-ops.
func (b *Bridge) Notify(requestID string) {
	b.entry(requestID).set()
}

// Wait blocks until requestID has been notified or ctx is done.
func (b *Bridge) Wait(ctx context.Context, requestID string) error {
	l := b.entry(requestID)
	select {
	case <-l.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notified reports whether requestID has been signaled.
func (b *Bridge) Notified(requestID string) bool {
	b.mu.Lock()
	l, ok := b.latches[requestID]
	b.mu.Unlock()
	return ok && l.isSet()
}

// Len returns the number of tracked request ids.
func (b *Bridge) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.latches)
}
