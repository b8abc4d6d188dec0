// Package reactive provides the small reactive core behind live widgets.
//
// Dependencies are tracked at runtime: reading a Signal inside an Effect
// subscribes the effect to that signal, and writing the signal schedules the
// effect to run again on its Owner.
//
//	owner := reactive.NewOwner(nil)
//	defer owner.Dispose()
//
//	count := reactive.NewSignal(0)
//	reactive.WithOwner(owner, func() {
//	    reactive.CreateEffect(func() reactive.Cleanup {
//	        fmt.Println("count is", count.Get())
//	        return nil
//	    })
//	})
//
//	count.Set(1)
//	owner.RunPendingEffects()
//
// # Timers
//
// Timeout schedules a one-shot callback through a Ctx. The returned Cleanup
// cancels it, so returning it from an Effect ties the timer to the effect's
// owner: disposing the owner cancels every pending timer it started.
//
// # Thread Safety
//
// Signals are safe for concurrent use. Tracking state (current listener,
// current owner, batch depth) is per goroutine; callbacks from other
// goroutines must go through Ctx.Dispatch.
package reactive
