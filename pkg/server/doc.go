// Package server hosts live newsletter widgets over WebSocket.
//
// Each connection gets a Session that owns one mounted widget, a reactive
// owner and a per-session rate limiter. The session runs three goroutines:
//
//   - ReadLoop: reads client frames, applies the rate limit, queues events
//   - EventLoop: runs events and dispatched callbacks, then diffs and sends patches
//   - WriteLoop: sends heartbeat pings
//
// # Event Processing
//
// When a client sends a frame:
//  1. ReadLoop decodes it with protocol.DecodeClient
//  2. The frame is queued for the EventLoop
//  3. The widget method runs (SetAddress or Submit)
//  4. Pending effects run
//  5. The widget is re-rendered and diffed against the last tree
//  6. Patches are encoded and written to the connection
//
// Timer callbacks scheduled by the widget arrive through Session.Dispatch
// and follow the same path, so all widget state is touched from one
// goroutine at a time.
//
// # Thread Safety
//
// Session methods other than the loops are safe to call from any
// goroutine. SessionManager is safe for concurrent use.
package server
