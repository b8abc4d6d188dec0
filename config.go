package landing

import (
	"log/slog"
	"time"
)

// CacheControlStrategy selects the Cache-Control policy for static assets.
type CacheControlStrategy int

const (
	// CacheControlProduction caches fingerprinted files for a year and
	// everything else for an hour. Page links are fingerprinted.
	CacheControlProduction CacheControlStrategy = iota

	// CacheControlNone disables caching. Used in dev mode.
	CacheControlNone
)

// Default routes.
const (
	LivePath       = "/_live"
	NewsletterPath = "/newsletter"
	PlansPath      = "/plans"
	StaticPrefix   = "/static/"
	HealthPath     = "/healthz"
)

// Config is the runtime configuration consumed by New.
type Config struct {
	// Addr is the listen address for Run. Default: ":8080".
	Addr string

	// ReadHeaderTimeout, ReadTimeout, WriteTimeout and IdleTimeout are
	// passed to http.Server. The live WebSocket manages its own deadlines.
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout bounds graceful shutdown in Run.
	ShutdownTimeout time.Duration

	// PlansURL is where GET /plans redirects.
	PlansURL string

	// ConfirmationDelay is how long the newsletter confirmation stays
	// visible. Default: 3s.
	ConfirmationDelay time.Duration

	// Session bounds live sessions.
	Session SessionConfig

	// AllowedOrigins lists origins accepted for the live WebSocket in
	// addition to the page's own origin.
	AllowedOrigins []string

	// MetricsPath serves the Prometheus registry. Empty disables it.
	MetricsPath string

	// Static configures asset caching.
	Static StaticConfig

	// DevMode renders indented HTML, disables asset caching and accepts
	// any WebSocket origin.
	DevMode bool

	// Version is reported by /healthz.
	Version string
}

// SessionConfig bounds live sessions.
type SessionConfig struct {
	// MaxSessions caps concurrent live sessions. Default: 10000.
	MaxSessions int

	// IdleTimeout expires sessions without client activity. Default: 5m.
	IdleTimeout time.Duration

	// EventsPerSecond and Burst rate-limit client frames per session.
	// A zero rate disables limiting.
	EventsPerSecond float64
	Burst           int

	// QueueSize bounds each session's pending event queue. Default: 64.
	QueueSize int
}

// StaticConfig configures static file serving.
type StaticConfig struct {
	// CacheControl determines caching behavior for static files.
	// Default: CacheControlProduction, or CacheControlNone in dev mode.
	CacheControl CacheControlStrategy

	// Headers are extra headers set on every static response.
	Headers map[string]string
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		PlansURL:          "https://app.wishlane.com/plans",
		ConfirmationDelay: 3 * time.Second,
		Session: SessionConfig{
			MaxSessions:     10000,
			IdleTimeout:     5 * time.Minute,
			EventsPerSecond: 20,
			Burst:           40,
			QueueSize:       64,
		},
		MetricsPath: "/metrics",
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.PlansURL == "" {
		c.PlansURL = d.PlansURL
	}
	if c.ConfirmationDelay <= 0 {
		c.ConfirmationDelay = d.ConfirmationDelay
	}
	if c.Session.MaxSessions <= 0 {
		c.Session.MaxSessions = d.Session.MaxSessions
	}
	if c.Session.IdleTimeout <= 0 {
		c.Session.IdleTimeout = d.Session.IdleTimeout
	}
	if c.Session.Burst <= 0 {
		c.Session.Burst = d.Session.Burst
	}
	if c.Session.QueueSize <= 0 {
		c.Session.QueueSize = d.Session.QueueSize
	}
	if c.DevMode {
		c.Static.CacheControl = CacheControlNone
	}
	return c
}

// LogValue keeps startup logs to the interesting fields.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr),
		slog.Duration("confirmation_delay", c.ConfirmationDelay),
		slog.Int("max_sessions", c.Session.MaxSessions),
		slog.Duration("session_idle", c.Session.IdleTimeout),
		slog.String("metrics_path", c.MetricsPath),
		slog.Bool("dev", c.DevMode),
	)
}
