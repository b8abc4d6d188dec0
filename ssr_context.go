package landing

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
)

// ssrContext is the reactive.Ctx for widgets mounted to answer a single
// HTTP request. There is no event loop: Dispatch runs fn immediately under
// the context's lock, and does nothing once the request is finished.
type ssrContext struct {
	ctx   context.Context
	clock clock.Clock

	mu     sync.Mutex
	closed bool
}

func newSSRContext(ctx context.Context, c clock.Clock) *ssrContext {
	return &ssrContext{ctx: ctx, clock: c}
}

func (c *ssrContext) StdContext() context.Context { return c.ctx }
func (c *ssrContext) Clock() clock.Clock          { return c.clock }

// Dispatch runs fn unless the request is done.
func (c *ssrContext) Dispatch(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	fn()
}

// do runs request-side widget work under the same lock as Dispatch.
func (c *ssrContext) do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// close drops every later Dispatch.
func (c *ssrContext) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
