package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"

	"github.com/wishlane/landing/pkg/newsletter"
	"github.com/wishlane/landing/pkg/protocol"
	"github.com/wishlane/landing/pkg/render"
	"github.com/wishlane/landing/pkg/vdom"
	"github.com/wishlane/landing/pkg/vtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSession builds a session without a connection.
func newTestSession(t *testing.T, mock *clock.Mock) *Session {
	t.Helper()
	s := newSession(nil, "test-session", nil, sessionDeps{
		config:   DefaultSessionConfig(),
		clock:    mock,
		logger:   discardLogger(),
		renderer: render.NewRenderer(render.RendererConfig{}),
	})
	t.Cleanup(s.Close)
	return s
}

type liveServer struct {
	manager *SessionManager
	mock    *clock.Mock
	url     string
}

func newLiveServer(t *testing.T, cfg *SessionConfig, limits *SessionLimits, opts ...ManagerOption) *liveServer {
	t.Helper()
	mock := clock.NewMock()
	opts = append([]ManagerOption{WithClock(mock), WithLogger(discardLogger())}, opts...)
	sm := NewSessionManager(cfg, limits, nil, opts...)
	srv := httptest.NewServer(NewHandler(sm, HandlerConfig{}, discardLogger()))
	t.Cleanup(func() {
		sm.Shutdown()
		srv.Close()
	})
	return &liveServer{
		manager: sm,
		mock:    mock,
		url:     "ws" + strings.TrimPrefix(srv.URL, "http"),
	}
}

func (ls *liveServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(ls.url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, f protocol.ClientFrame) {
	t.Helper()
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) protocol.ServerFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f protocol.ServerFrame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return f
}

// handshake sends hello and returns the session id.
func handshake(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientHello})
	f := readFrame(t, conn)
	if f.Type != protocol.ServerHello || f.Session == "" {
		t.Fatalf("handshake frame = %+v, want hello with session id", f)
	}
	return f.Session
}

func findPatch(patches []protocol.Patch, op, target string) (protocol.Patch, bool) {
	for _, p := range patches {
		if p.Op == op && p.Target == target {
			return p, true
		}
	}
	return protocol.Patch{}, false
}

func TestSessionRunProducesPatches(t *testing.T) {
	s := newTestSession(t, clock.NewMock())

	patches, ok := s.run("input", func() {
		s.widget.SetAddress("a@b.com")
	})
	if !ok {
		t.Fatal("run() ok = false")
	}
	if len(patches) != 1 || patches[0].Op != vdom.PatchSetValue || patches[0].Target != newsletter.InputID {
		t.Fatalf("patches = %+v, want one value patch on the input", patches)
	}
	if patches[0].Value != "a@b.com" {
		t.Errorf("value = %q, want a@b.com", patches[0].Value)
	}

	patches, _ = s.run("input", func() {
		s.widget.SetAddress("a@b.com")
	})
	if len(patches) != 0 {
		t.Errorf("unchanged address produced %d patches", len(patches))
	}
}

func TestSessionRunRecoversPanic(t *testing.T) {
	s := newTestSession(t, clock.NewMock())

	_, ok := s.run("submit", func() {
		panic("boom")
	})
	if ok {
		t.Fatal("run() ok = true after panic")
	}

	// The session stays usable.
	if _, ok := s.run("input", func() { s.widget.SetAddress("x") }); !ok {
		t.Fatal("run() after panic ok = false")
	}
}

func TestSessionDispatchAfterClose(t *testing.T) {
	s := newTestSession(t, clock.NewMock())
	s.Close()
	s.Close()

	s.Dispatch(func() { t.Error("dispatched callback ran after close") })
	if len(s.dispatchCh) != 0 {
		t.Errorf("dispatch queue len = %d after close", len(s.dispatchCh))
	}
	if err := s.QueueEvent(protocol.ClientFrame{Type: protocol.ClientSubmit}); err != ErrSessionClosed {
		t.Errorf("QueueEvent() = %v, want ErrSessionClosed", err)
	}
	if _, ok := s.run("input", func() {}); ok {
		t.Error("run() on closed session ok = true")
	}
	select {
	case <-s.StdContext().Done():
	default:
		t.Error("StdContext not cancelled by Close")
	}
}

func TestSessionQueueFull(t *testing.T) {
	mock := clock.NewMock()
	cfg := DefaultSessionConfig()
	cfg.MaxEventQueue = 1
	s := newSession(nil, "q", nil, sessionDeps{
		config:   cfg,
		clock:    mock,
		logger:   discardLogger(),
		renderer: render.NewRenderer(render.RendererConfig{}),
	})
	defer s.Close()

	if err := s.QueueEvent(protocol.ClientFrame{Type: protocol.ClientSubmit}); err != nil {
		t.Fatalf("first QueueEvent() = %v", err)
	}
	if err := s.QueueEvent(protocol.ClientFrame{Type: protocol.ClientSubmit}); err != ErrEventQueueFull {
		t.Fatalf("second QueueEvent() = %v, want ErrEventQueueFull", err)
	}
}

func TestSessionDispatchWaitsForRoom(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.MaxEventQueue = 1
	s := newSession(nil, "d", nil, sessionDeps{
		config:   cfg,
		clock:    clock.NewMock(),
		logger:   discardLogger(),
		renderer: render.NewRenderer(render.RendererConfig{}),
	})
	defer s.Close()

	ran := make([]int, 0, 2)
	s.Dispatch(func() { ran = append(ran, 1) })

	queued := make(chan struct{})
	go func() {
		s.Dispatch(func() { ran = append(ran, 2) })
		close(queued)
	}()

	select {
	case <-queued:
		t.Fatal("Dispatch returned while the queue was full")
	case <-time.After(20 * time.Millisecond):
	}

	(<-s.dispatchCh)()
	<-queued
	(<-s.dispatchCh)()
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Fatalf("ran = %v, want [1 2]", ran)
	}
}

func TestSessionDispatchUnblocksOnClose(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.MaxEventQueue = 1
	s := newSession(nil, "d", nil, sessionDeps{
		config:   cfg,
		clock:    clock.NewMock(),
		logger:   discardLogger(),
		renderer: render.NewRenderer(render.RendererConfig{}),
	})

	s.Dispatch(func() {})
	returned := make(chan struct{})
	go func() {
		s.Dispatch(func() {})
		close(returned)
	}()

	s.Close()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch still blocked after Close")
	}
}

func TestLiveSubmitShowsAndClearsMessage(t *testing.T) {
	ls := newLiveServer(t, nil, nil)
	conn := ls.dial(t)
	sid := handshake(t, conn)

	sess := ls.manager.Get(sid)
	if sess == nil {
		t.Fatalf("session %s not registered", sid)
	}

	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientInput, Value: "a@b.com"})
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientSubmit})
	f := readFrame(t, conn)
	if f.Type != protocol.ServerPatch {
		t.Fatalf("frame type = %s, want patch", f.Type)
	}
	if p, ok := findPatch(f.Patches, protocol.OpText, newsletter.MessageID); !ok || p.Value != newsletter.DefaultConfirmation {
		t.Errorf("submit message patch = %+v (found %v)", p, ok)
	}
	if p, ok := findPatch(f.Patches, protocol.OpValue, newsletter.InputID); !ok || p.Value != "" {
		t.Errorf("submit value patch = %+v (found %v)", p, ok)
	}
	if _, ok := findPatch(f.Patches, protocol.OpRemove, newsletter.MessageID); !ok {
		t.Errorf("submit did not unhide the message: %+v", f.Patches)
	}

	ls.mock.Add(newsletter.DefaultDelay - time.Millisecond)
	if _, msg := sess.Snapshot(); msg != newsletter.DefaultConfirmation {
		t.Fatalf("message before delay = %q", msg)
	}

	ls.mock.Add(time.Millisecond)
	f = readFrame(t, conn)
	if p, ok := findPatch(f.Patches, protocol.OpText, newsletter.MessageID); !ok || p.Value != "" {
		t.Errorf("clear patches = %+v", f.Patches)
	}
	if _, ok := findPatch(f.Patches, protocol.OpAttr, newsletter.MessageID); !ok {
		t.Errorf("clear did not hide the message: %+v", f.Patches)
	}
	if addr, msg := sess.Snapshot(); addr != "" || msg != "" {
		t.Errorf("after delay address=%q message=%q, want both empty", addr, msg)
	}
}

func TestLiveEmptySubmitIsNoop(t *testing.T) {
	ls := newLiveServer(t, nil, nil)
	conn := ls.dial(t)
	sid := handshake(t, conn)

	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientSubmit})
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientPing})

	// Frames are applied in order, so a patch from the empty submit would
	// arrive before the pong.
	if f := readFrame(t, conn); f.Type != protocol.ServerPong {
		t.Fatalf("frame = %+v, want pong only", f)
	}
	if addr, msg := ls.manager.Get(sid).Snapshot(); addr != "" || msg != "" {
		t.Errorf("address=%q message=%q, want both empty", addr, msg)
	}
}

func TestLiveInputIsNotEchoed(t *testing.T) {
	ls := newLiveServer(t, nil, nil)
	conn := ls.dial(t)
	sid := handshake(t, conn)

	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientInput, Value: "a"})
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientInput, Value: "ab"})
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientPing})
	if f := readFrame(t, conn); f.Type != protocol.ServerPong {
		t.Fatalf("frame = %+v, want pong with no value echo before it", f)
	}
	if addr, _ := ls.manager.Get(sid).Snapshot(); addr != "ab" {
		t.Fatalf("address = %q, want ab", addr)
	}

	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientSubmit})
	f := readFrame(t, conn)
	if p, ok := findPatch(f.Patches, protocol.OpValue, newsletter.InputID); !ok || p.Value != "" {
		t.Fatalf("submit patches = %+v, want the input reset", f.Patches)
	}
}

func TestWithoutEcho(t *testing.T) {
	patches := []vdom.Patch{
		{Op: vdom.PatchSetValue, Target: newsletter.InputID, Value: "ab"},
		{Op: vdom.PatchSetValue, Target: newsletter.InputID, Value: ""},
		{Op: vdom.PatchSetText, Target: newsletter.MessageID, Value: "ab"},
	}
	got := withoutEcho(patches, "ab")
	if len(got) != 2 || got[0].Value != "" || got[1].Op != vdom.PatchSetText {
		t.Fatalf("withoutEcho = %+v", got)
	}
}

func TestLiveCloseCancelsPendingClear(t *testing.T) {
	ls := newLiveServer(t, nil, nil)
	conn := ls.dial(t)
	sid := handshake(t, conn)
	sess := ls.manager.Get(sid)

	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientInput, Value: "a@b.com"})
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientSubmit})
	readFrame(t, conn)

	sess.Close()
	vtest.WaitFor(t, func() bool { return ls.manager.Count() == 0 })

	ls.mock.Add(newsletter.DefaultDelay)
	time.Sleep(20 * time.Millisecond)
	if _, msg := sess.Snapshot(); msg != newsletter.DefaultConfirmation {
		t.Errorf("message after close = %q, want the clear never to run", msg)
	}
}

func TestLivePingPong(t *testing.T) {
	ls := newLiveServer(t, nil, nil)
	conn := ls.dial(t)
	handshake(t, conn)

	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientPing})
	if f := readFrame(t, conn); f.Type != protocol.ServerPong {
		t.Fatalf("frame type = %s, want pong", f.Type)
	}
}

func TestLiveInvalidFrame(t *testing.T) {
	ls := newLiveServer(t, nil, nil)
	conn := ls.dial(t)
	handshake(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"t":"explode"}`)); err != nil {
		t.Fatal(err)
	}
	f := readFrame(t, conn)
	if f.Type != protocol.ServerError || f.Code != protocol.ErrInvalidFrame {
		t.Fatalf("frame = %+v, want InvalidFrame error", f)
	}

	// Still alive.
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientPing})
	if f := readFrame(t, conn); f.Type != protocol.ServerPong {
		t.Fatalf("frame type = %s, want pong", f.Type)
	}
}

func TestLiveRateLimit(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.EventsPerSecond = 1
	cfg.EventBurst = 1
	ls := newLiveServer(t, cfg, nil)
	conn := ls.dial(t)
	sid := handshake(t, conn)

	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientInput, Value: "a"})
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientInput, Value: "b"})

	f := readFrame(t, conn)
	if f.Type != protocol.ServerError || f.Code != protocol.ErrRateLimited {
		t.Fatalf("frame = %+v, want RateLimited error", f)
	}
	sess := ls.manager.Get(sid)
	vtest.WaitFor(t, func() bool {
		addr, _ := sess.Snapshot()
		return addr == "a"
	})
}

func TestLiveMaxSessions(t *testing.T) {
	ls := newLiveServer(t, nil, &SessionLimits{MaxSessions: 1})
	first := ls.dial(t)
	handshake(t, first)

	second := ls.dial(t)
	f := readFrame(t, second)
	if f.Type != protocol.ServerError || f.Code != protocol.ErrServerError {
		t.Fatalf("frame = %+v, want ServerError", f)
	}
	if n := ls.manager.Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
	if st := ls.manager.Stats(); st.Rejected != 1 || st.TotalCreated != 1 {
		t.Errorf("Stats() = %+v", st)
	}
}
