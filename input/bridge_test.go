package input

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_NotifyBeforeWait(t *testing.T) {
	b := NewBridge()
	b.Notify("r1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, b.Wait(ctx, "r1"), "late waiter must observe the pre-set latch")
	assert.True(t, b.Notified("r1"))
}

func TestBridge_WaitBeforeNotify(t *testing.T) {
	b := NewBridge()
	done := make(chan error, 1)

	go func() {
		done <- b.Wait(context.Background(), "r2")
	}()

	// Give the waiter a chance to register first.
	require.Eventually(t, func() bool { return b.Len() == 1 }, time.Second, time.Millisecond)
	assert.False(t, b.Notified("r2"))

	b.Notify("r2")

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
}

func TestBridge_RepeatedNotifyIsIdempotent(t *testing.T) {
	b := NewBridge()
	b.Notify("r3")
	b.Notify("r3")

	assert.Equal(t, 1, b.Len())
	assert.True(t, b.Notified("r3"))
	assert.NoError(t, b.Wait(context.Background(), "r3"))
}

func TestBridge_WaitHonoursContext(t *testing.T) {
	b := NewBridge()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := b.Wait(ctx, "never")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, b.Notified("never"))
}

func TestBridge_UnknownIDIsNotNotified(t *testing.T) {
	b := NewBridge()
	assert.False(t, b.Notified("missing"))
	assert.Equal(t, 0, b.Len())
}

func TestBridge_ConcurrentNotifyAndWait(t *testing.T) {
	b := NewBridge()
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, b.Wait(context.Background(), id))
		}(id)
		go func(id string) {
			defer wg.Done()
			b.Notify(id)
		}(id)
	}

	finished := make(chan struct{})
	go func() { wg.Wait(); close(finished) }()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("lost wakeup: waiters still blocked")
	}
	assert.Equal(t, len(ids), b.Len())
}
