package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wishlane/landing/pkg/protocol"
)

// HandlerConfig configures the WebSocket endpoint.
type HandlerConfig struct {
	// AllowedOrigins lists extra origins (scheme://host[:port]) allowed to
	// open live sessions. Same-origin requests are always allowed. "*"
	// allows every origin.
	AllowedOrigins []string

	// HandshakeTimeout bounds the upgrade. Default: 10 seconds.
	HandshakeTimeout time.Duration

	// ReadBufferSize and WriteBufferSize size the connection buffers.
	// Default: 4096.
	ReadBufferSize  int
	WriteBufferSize int

	// EnableCompression negotiates permessage-deflate.
	EnableCompression bool
}

// Handler upgrades requests to WebSocket and starts a live session for each.
type Handler struct {
	manager  *SessionManager
	upgrader websocket.Upgrader
	allowed  map[string]struct{}
	allowAll bool
	logger   *slog.Logger
	metrics  *Metrics
}

// NewHandler creates the live endpoint for manager.
func NewHandler(manager *SessionManager, config HandlerConfig, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if config.HandshakeTimeout <= 0 {
		config.HandshakeTimeout = 10 * time.Second
	}
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = 4096
	}
	if config.WriteBufferSize <= 0 {
		config.WriteBufferSize = 4096
	}

	h := &Handler{
		manager: manager,
		allowed: make(map[string]struct{}, len(config.AllowedOrigins)),
		logger:  logger.With("component", "live"),
		metrics: manager.metrics,
	}
	for _, o := range config.AllowedOrigins {
		o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
		switch o {
		case "":
		case "*":
			h.allowAll = true
		default:
			h.allowed[o] = struct{}{}
		}
	}
	h.upgrader = websocket.Upgrader{
		HandshakeTimeout:  config.HandshakeTimeout,
		ReadBufferSize:    config.ReadBufferSize,
		WriteBufferSize:   config.WriteBufferSize,
		EnableCompression: config.EnableCompression,
		CheckOrigin:       h.CheckOrigin,
	}
	return h
}

// CheckOrigin reports whether r may open a live session.
func (h *Handler) CheckOrigin(r *http.Request) bool {
	if h.allowAll || SameOriginCheck(r) {
		return true
	}
	origin := strings.ToLower(r.Header.Get("Origin"))
	_, ok := h.allowed[strings.TrimRight(origin, "/")]
	return ok
}

// SameOriginCheck validates that the WebSocket request origin matches the host.
// Requests without an Origin header pass.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}
	return strings.EqualFold(originURL.Host, host)
}

// ServeHTTP upgrades the connection and starts a session. When the session
// limit is reached the client receives a fatal error frame and the
// connection is closed.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		h.logger.Debug("upgrade failed", "error", err, "origin", r.Header.Get("Origin"))
		h.metrics.wsError("upgrade")
		return
	}

	session, err := h.manager.Create(conn, r)
	if err != nil {
		h.reject(conn, err)
		return
	}
	session.Start()
}

// reject tells the client why no session was created and closes conn.
func (h *Handler) reject(conn *websocket.Conn, cause error) {
	msg := "server busy"
	if errors.Is(cause, ErrManagerClosed) {
		msg = "server shutting down"
	}
	if data, err := protocol.NewError(protocol.ErrServerError, msg).Encode(); err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseTryAgainLater, msg),
		time.Now().Add(time.Second),
	)
	_ = conn.Close()
}
