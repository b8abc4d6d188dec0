package reactive

import (
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Timeout runs fn once on ctx's event loop after d. The returned Cleanup
// cancels the timer; once it has been called fn never runs, even if the
// timer already fired and the callback is waiting in the dispatch queue.
//
// Return it from an Effect so the timer is cancelled when the effect re-runs
// or its owner is disposed:
//
//	reactive.CreateEffect(func() reactive.Cleanup {
//	    if message.Get() == "" {
//	        return nil
//	    }
//	    return reactive.Timeout(ctx, 3*time.Second, func() {
//	        message.Set("")
//	    })
//	})
func Timeout(ctx Ctx, d time.Duration, fn func()) Cleanup {
	if ctx == nil {
		panic(ErrNoCtx)
	}

	clk := ctx.Clock()
	if clk == nil {
		clk = clock.New()
	}

	var cancelled atomic.Bool
	timer := clk.AfterFunc(d, func() {
		if cancelled.Load() {
			return
		}
		ctx.Dispatch(func() {
			if cancelled.Load() {
				return
			}
			fn()
		})
	})

	return func() {
		cancelled.Store(true)
		timer.Stop()
	}
}
