package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wishlane/landing/pkg/newsletter"
	"github.com/wishlane/landing/pkg/protocol"
	"github.com/wishlane/landing/pkg/reactive"
	"github.com/wishlane/landing/pkg/vtest"
)

func TestManagerExpiresIdleSessions(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.IdleTimeout = 5 * time.Second
	ls := newLiveServer(t, cfg, nil, WithCleanupInterval(time.Hour))
	conn := ls.dial(t)
	sid := handshake(t, conn)

	ls.mock.Add(4 * time.Second)
	if n := ls.manager.cleanupExpired(); n != 0 {
		t.Fatalf("cleanupExpired() = %d before the idle timeout", n)
	}
	if ls.manager.Get(sid) == nil {
		t.Fatal("session removed before the idle timeout")
	}

	ls.mock.Add(2 * time.Second)
	ls.manager.cleanupExpired()

	f := readFrame(t, conn)
	if f.Type != protocol.ServerError || f.Code != protocol.ErrSessionExpired {
		t.Fatalf("frame = %+v, want SessionExpired", f)
	}
	vtest.WaitFor(t, func() bool { return ls.manager.Count() == 0 })
}

func TestManagerShutdown(t *testing.T) {
	ls := newLiveServer(t, nil, nil)
	for i := 0; i < 2; i++ {
		handshake(t, ls.dial(t))
	}
	if n := ls.manager.Count(); n != 2 {
		t.Fatalf("Count() = %d, want 2", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ls.manager.ShutdownWithContext(ctx); err != nil {
		t.Fatalf("ShutdownWithContext() = %v", err)
	}
	if n := ls.manager.Count(); n != 0 {
		t.Errorf("Count() after shutdown = %d", n)
	}
	if _, err := ls.manager.Create(nil, nil); err != ErrManagerClosed {
		t.Errorf("Create() after shutdown = %v, want ErrManagerClosed", err)
	}

	// Second shutdown is a no-op.
	if err := ls.manager.ShutdownWithContext(ctx); err != nil {
		t.Errorf("second ShutdownWithContext() = %v", err)
	}
}

func TestManagerCreateRacingShutdown(t *testing.T) {
	mounting := make(chan struct{})
	release := make(chan struct{})
	var widget *newsletter.Widget
	mount := func(ctx reactive.Ctx, owner *reactive.Owner, _ *http.Request) *newsletter.Widget {
		close(mounting)
		<-release
		widget = newsletter.New(ctx, owner, newsletter.Options{})
		return widget
	}
	sm := NewSessionManager(nil, nil, mount, WithClock(clock.NewMock()), WithLogger(discardLogger()))

	errCh := make(chan error, 1)
	go func() {
		s, err := sm.Create(nil, httptest.NewRequest("GET", "/", nil))
		if s != nil {
			t.Errorf("Create() returned a session during shutdown")
		}
		errCh <- err
	}()

	<-mounting
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sm.ShutdownWithContext(ctx); err != nil {
		t.Fatalf("ShutdownWithContext() = %v", err)
	}
	close(release)

	if err := <-errCh; !errors.Is(err, ErrManagerClosed) {
		t.Fatalf("Create() = %v, want ErrManagerClosed", err)
	}
	if n := sm.Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
	if !widget.Disposed() {
		t.Error("widget mounted during shutdown was not disposed")
	}
}

func TestManagerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "wishlane")
	ls := newLiveServer(t, nil, &SessionLimits{MaxSessions: 1}, WithMetrics(m))

	conn := ls.dial(t)
	handshake(t, conn)
	sendFrame(t, conn, protocol.ClientFrame{Type: protocol.ClientInput, Value: "a@b.com"})
	readFrame(t, conn)

	readFrame(t, ls.dial(t))

	if got := testutil.ToFloat64(m.sessionsTotal); got != 1 {
		t.Errorf("sessions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sessionsRejected); got != 1 {
		t.Errorf("sessions_rejected_total = %v, want 1", got)
	}
	// Counters are updated after the frame is written.
	vtest.WaitFor(t, func() bool {
		return testutil.ToFloat64(m.patchesSent) == 1 &&
			testutil.ToFloat64(m.eventsTotal.WithLabelValues("input")) == 1
	})

	ls.manager.Shutdown()
	if got := testutil.ToFloat64(m.activeSessions); got != 0 {
		t.Errorf("active_sessions after shutdown = %v, want 0", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.sessionOpened()
	m.sessionClosed()
	m.event("input", 0.1)
	m.dropped("invalid")
	m.patches(3)
	m.panicked()
	m.wsError("read")
}

func TestCheckOrigin(t *testing.T) {
	sm := NewSessionManager(nil, nil, nil, WithLogger(discardLogger()))
	defer sm.Shutdown()

	h := NewHandler(sm, HandlerConfig{AllowedOrigins: []string{"https://wishlane.example/", " "}}, discardLogger())
	open := NewHandler(sm, HandlerConfig{AllowedOrigins: []string{"*"}}, discardLogger())

	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no origin", "localhost:8080", "", true},
		{"same origin", "localhost:8080", "http://localhost:8080", true},
		{"same origin mixed case", "Localhost:8080", "http://localhost:8080", true},
		{"allowed origin", "localhost:8080", "https://wishlane.example", true},
		{"allowed origin upper", "localhost:8080", "HTTPS://WISHLANE.EXAMPLE", true},
		{"foreign origin", "localhost:8080", "https://evil.example", false},
		{"port mismatch", "localhost:8080", "http://localhost:9090", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/_live", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := h.CheckOrigin(r); got != tt.want {
				t.Errorf("CheckOrigin() = %v, want %v", got, tt.want)
			}
			if !open.CheckOrigin(r) {
				t.Error("wildcard handler rejected origin")
			}
		})
	}
}
