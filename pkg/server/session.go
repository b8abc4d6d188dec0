package server

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/wishlane/landing/pkg/newsletter"
	"github.com/wishlane/landing/pkg/protocol"
	"github.com/wishlane/landing/pkg/reactive"
	"github.com/wishlane/landing/pkg/render"
	"github.com/wishlane/landing/pkg/vdom"
)

// Mount builds the widget a new session hosts. r is the WebSocket upgrade
// request, so implementations can pick copy for the visitor's locale.
type Mount func(ctx reactive.Ctx, owner *reactive.Owner, r *http.Request) *newsletter.Widget

// defaultMount mounts a widget with default copy.
func defaultMount(ctx reactive.Ctx, owner *reactive.Owner, _ *http.Request) *newsletter.Widget {
	return newsletter.New(ctx, owner, newsletter.Options{})
}

// Session is one live connection hosting one newsletter widget.
// It implements reactive.Ctx, so the widget's timers dispatch back onto
// the session's event loop.
type Session struct {
	// ID is the random session identifier sent to the client in the hello frame.
	ID string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	conn     *websocket.Conn
	config   *SessionConfig
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *Metrics
	renderer *render.Renderer

	ctx    context.Context
	cancel context.CancelFunc

	// stateMu serializes widget access between the event loop and Close.
	stateMu sync.Mutex
	owner   *reactive.Owner
	widget  *newsletter.Widget
	last    *vdom.VNode

	events     chan protocol.ClientFrame
	dispatchCh chan func()
	done       chan struct{}
	closed     atomic.Bool
	writeMu    sync.Mutex
	limiter    *rate.Limiter

	lastActive atomic.Int64
	eventCount atomic.Uint64
	patchCount atomic.Uint64
	bytesSent  atomic.Uint64
	bytesRecv  atomic.Uint64

	onClose func(*Session)
}

// sessionDeps are the shared pieces a manager hands to each session.
type sessionDeps struct {
	config   *SessionConfig
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *Metrics
	renderer *render.Renderer
	mount    Mount
	onClose  func(*Session)
}

// newSession creates a session and mounts its widget. The loops are not
// started; call Start.
func newSession(conn *websocket.Conn, id string, r *http.Request, deps sessionDeps) *Session {
	parent := context.Background()
	if r != nil {
		parent = context.WithoutCancel(r.Context())
	}
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		ID:         id,
		CreatedAt:  deps.clock.Now(),
		conn:       conn,
		config:     deps.config,
		clock:      deps.clock,
		logger:     deps.logger.With("session_id", id),
		metrics:    deps.metrics,
		renderer:   deps.renderer,
		ctx:        ctx,
		cancel:     cancel,
		owner:      reactive.NewOwner(nil),
		events:     make(chan protocol.ClientFrame, deps.config.MaxEventQueue),
		dispatchCh: make(chan func(), deps.config.MaxEventQueue),
		done:       make(chan struct{}),
		limiter:    deps.config.newLimiter(),
		onClose:    deps.onClose,
	}
	s.touch()

	mount := deps.mount
	if mount == nil {
		mount = defaultMount
	}
	s.stateMu.Lock()
	s.widget = mount(s, s.owner, r)
	s.last = s.widget.Render()
	s.stateMu.Unlock()

	return s
}

// Dispatch queues fn to run on the session's event loop. It is safe to call
// from any goroutine except the event loop itself. After fn returns, pending
// effects run and the widget is re-rendered and diffed.
//
// Callbacks are never dropped: when the queue is full Dispatch waits for
// room or for the session to close.
func (s *Session) Dispatch(fn func()) {
	if s.closed.Load() {
		return
	}
	select {
	case s.dispatchCh <- fn:
		return
	case <-s.done:
		return
	default:
	}

	s.logger.Debug("dispatch queue full, waiting")
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	}
}

// StdContext returns a context cancelled when the session closes.
func (s *Session) StdContext() context.Context {
	return s.ctx
}

// Clock returns the session's time source.
func (s *Session) Clock() clock.Clock {
	return s.clock
}

// QueueEvent queues a client frame for the event loop.
func (s *Session) QueueEvent(frame protocol.ClientFrame) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	select {
	case s.events <- frame:
		return nil
	default:
		s.logger.Warn("event queue full, dropping frame", "type", frame.Type)
		s.metrics.dropped("queue_full")
		return ErrEventQueueFull
	}
}

// allow reports whether the rate limiter admits one more frame.
func (s *Session) allow() bool {
	if s.limiter == nil {
		return true
	}
	return s.limiter.AllowN(s.clock.Now(), 1)
}

// apply runs fn against the widget, then diffs the widget and sends the
// resulting patches.
func (s *Session) apply(label string, fn func()) {
	patches, ok := s.run(label, fn)
	if !ok {
		return
	}
	s.sendPatches(patches)
}

// withoutEcho drops value patches that only repeat what the client just
// typed. Echoing them back races later keystrokes in the browser.
func withoutEcho(patches []vdom.Patch, value string) []vdom.Patch {
	out := patches[:0]
	for _, p := range patches {
		if p.Op == vdom.PatchSetValue && p.Value == value {
			continue
		}
		out = append(out, p)
	}
	return out
}

// run executes fn under the state lock with panic recovery and returns the
// patches between the previous and the new render.
func (s *Session) run(label string, fn func()) (patches []vdom.Patch, ok bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.owner.IsDisposed() {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			err := &PanicError{SessionID: s.ID, Frame: label, Value: r, Stack: debug.Stack()}
			s.logger.Error("handler panic", "frame", label, "panic", r, "stack", string(err.Stack))
			s.metrics.panicked()
			s.sendError(protocol.ErrHandlerPanic, "internal error")
			patches, ok = nil, false
		}
	}()

	fn()
	s.owner.RunPendingEffects()

	next := s.widget.Render()
	patches = vdom.Diff(s.last, next)
	s.last = next
	return patches, true
}

// handleFrame applies one client frame.
func (s *Session) handleFrame(frame protocol.ClientFrame) {
	start := time.Now()
	s.eventCount.Add(1)

	switch frame.Type {
	case protocol.ClientHello:
		if err := s.send(protocol.NewHello(s.ID)); err != nil {
			s.logger.Debug("hello send failed", "error", err)
		}
	case protocol.ClientInput:
		patches, ok := s.run(string(frame.Type), func() {
			s.widget.SetAddress(frame.Value)
		})
		if ok {
			s.sendPatches(withoutEcho(patches, frame.Value))
		}
	case protocol.ClientSubmit:
		s.apply(string(frame.Type), func() {
			if s.widget.Submit() {
				s.logger.Info("newsletter submitted")
			}
		})
	}

	s.metrics.event(string(frame.Type), time.Since(start).Seconds())
}

// executeDispatch runs a dispatched callback on the event loop.
func (s *Session) executeDispatch(fn func()) {
	start := time.Now()
	s.apply("dispatch", fn)
	s.metrics.event("dispatch", time.Since(start).Seconds())
}

// sendPatches encodes and writes a patch frame.
func (s *Session) sendPatches(patches []vdom.Patch) {
	if len(patches) == 0 {
		return
	}
	wire, err := protocol.EncodePatches(s.renderer, patches)
	if err != nil {
		s.logger.Error("patch encode error", "error", err)
		return
	}
	if err := s.send(protocol.NewPatches(wire)); err != nil {
		s.logger.Debug("patch send failed", "error", err)
		return
	}
	s.patchCount.Add(uint64(len(wire)))
	s.metrics.patches(len(wire))
}

// sendError writes an error frame and closes the session when the code is fatal.
func (s *Session) sendError(code protocol.ErrorCode, message string) {
	if err := s.send(protocol.NewError(code, message)); err != nil {
		s.logger.Debug("error frame send failed", "code", code, "error", err)
	}
	if code.IsFatal() {
		go s.Close()
	}
}

// send encodes and writes one frame.
func (s *Session) send(frame protocol.ServerFrame) error {
	if s.conn == nil {
		return ErrNoConnection
	}
	data, err := frame.Encode()
	if err != nil {
		return NewSessionError(s.ID, "encode", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.metrics.wsError("write")
		return NewSessionError(s.ID, "write", err)
	}
	s.bytesSent.Add(uint64(len(data)))
	return nil
}

// sendPing writes a heartbeat ping.
func (s *Session) sendPing() error {
	if s.conn == nil {
		return ErrNoConnection
	}
	err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
	if err != nil {
		s.metrics.wsError("ping")
	}
	return err
}

// expire tells the client the session timed out and closes it.
func (s *Session) expire() {
	if err := s.send(protocol.NewError(protocol.ErrSessionExpired, "session expired")); err != nil {
		s.logger.Debug("expire notice failed", "error", err)
	}
	s.Close()
}

// Close disposes the widget, cancels its timers and closes the connection.
// It is idempotent.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.closeInternal()
}

func (s *Session) closeInternal() {
	close(s.done)
	s.cancel()

	s.stateMu.Lock()
	s.owner.Dispose()
	s.stateMu.Unlock()

	if s.conn != nil {
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		_ = s.conn.Close()
	}

	s.logger.Info("session closed",
		"events", s.eventCount.Load(),
		"patches", s.patchCount.Load(),
		"bytes_sent", s.bytesSent.Load(),
		"bytes_recv", s.bytesRecv.Load(),
		"lifetime", s.clock.Since(s.CreatedAt))

	if s.onClose != nil {
		s.onClose(s)
	}
}

// discard releases a session that was never started. The connection is left
// to the caller.
func (s *Session) discard() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)
	s.cancel()

	s.stateMu.Lock()
	s.owner.Dispose()
	s.stateMu.Unlock()
}

// IsClosed returns whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that's closed when the session is done.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// touch records client activity.
func (s *Session) touch() {
	s.lastActive.Store(s.clock.Now().UnixNano())
}

// LastActive returns the time of the last client frame.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Snapshot returns the widget's address and message. It is safe to call
// from any goroutine.
func (s *Session) Snapshot() (address, message string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.widget.Address(), s.widget.Message()
}

// Start starts all session loops.
func (s *Session) Start() {
	go s.ReadLoop()
	go s.WriteLoop()
	go s.EventLoop()
}
