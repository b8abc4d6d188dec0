package reactive

import (
	"context"
	"errors"

	"github.com/benbjohnson/clock"
)

// ErrNoCtx is the panic value when a timer is started without a Ctx.
var ErrNoCtx = errors.New("reactive: timer started without a Ctx")

// Ctx is the runtime a widget lives in. The live session implements it;
// tests use a synchronous implementation driven by a mock clock.
type Ctx interface {
	// Dispatch queues fn on the owning event loop. Safe from any goroutine.
	Dispatch(fn func())

	// StdContext returns the context of the surrounding session or request.
	StdContext() context.Context

	// Clock returns the time source used for timers.
	Clock() clock.Clock
}
