package vtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

// Ctx is a reactive.Ctx backed by a mock clock. Dispatch only queues;
// Run executes the queue on the calling goroutine.
type Ctx struct {
	clock *clock.Mock
	std   context.Context

	mu    sync.Mutex
	queue []func()
	ran   int
}

// NewCtx creates a Ctx whose clock starts at the Unix epoch.
func NewCtx() *Ctx {
	return &Ctx{
		clock: clock.NewMock(),
		std:   context.Background(),
	}
}

func (c *Ctx) Dispatch(fn func()) {
	c.mu.Lock()
	c.queue = append(c.queue, fn)
	c.mu.Unlock()
}

func (c *Ctx) StdContext() context.Context { return c.std }
func (c *Ctx) Clock() clock.Clock          { return c.clock }

// Mock exposes the underlying mock clock.
func (c *Ctx) Mock() *clock.Mock { return c.clock }

// Pending returns the number of queued callbacks.
func (c *Ctx) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Ran returns the number of callbacks executed so far.
func (c *Ctx) Ran() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ran
}

// Run executes queued callbacks, including ones they queue, and returns
// how many ran.
func (c *Ctx) Run() int {
	n := 0
	for {
		c.mu.Lock()
		queue := c.queue
		c.queue = nil
		c.ran += len(queue)
		c.mu.Unlock()

		if len(queue) == 0 {
			return n
		}
		for _, fn := range queue {
			fn()
		}
		n += len(queue)
	}
}

// Advance moves the clock forward without waiting for timer callbacks.
// Use it to assert that nothing fires.
func (c *Ctx) Advance(d time.Duration) {
	c.clock.Add(d)
}

// AdvanceAndRun moves the clock forward, waits until want callbacks are
// queued, and runs them.
func (c *Ctx) AdvanceAndRun(t testing.TB, d time.Duration, want int) {
	t.Helper()
	c.clock.Add(d)
	WaitFor(t, func() bool { return c.Pending() >= want })
	c.Run()
}

// ExpectQuiet asserts that no callback gets queued within a short grace
// period.
func (c *Ctx) ExpectQuiet(t testing.TB) {
	t.Helper()
	time.Sleep(20 * time.Millisecond)
	if n := c.Pending(); n != 0 {
		t.Fatalf("%d callbacks queued, want none", n)
	}
}

// WaitFor polls cond until it holds or one second passes.
func WaitFor(t testing.TB, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within 1s")
}
