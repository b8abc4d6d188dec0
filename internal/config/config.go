package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/wishlane/landing/internal/errors"
)

const (
	// ConfigFileName is the conventional configuration file name.
	ConfigFileName = "landing.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "WISHLANE_"

	DefaultAddr          = ":8080"
	DefaultLocale        = "en"
	DefaultServiceName   = "wishlane-landing"
	DefaultPlansURL      = "https://app.wishlane.com/plans"
	DefaultConfirmDelay  = 3 * time.Second
	DefaultMaxSessions   = 10000
	DefaultSessionIdle   = 5 * time.Minute
	DefaultEventsPerSec  = 20
	DefaultEventBurst    = 40
	DefaultEventQueue    = 64
	DefaultAuthCookie    = "wl_session"
	DefaultCartCookie    = "wl_cart"
	DefaultMetricsPath   = "/metrics"
	DefaultShutdownGrace = 15 * time.Second
)

// Content source kinds.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceS3       = "s3"
)

// Config is the complete landing.json configuration.
type Config struct {
	Server     ServerConfig     `json:"server"     envPrefix:"SERVER_"`
	Content    ContentConfig    `json:"content"    envPrefix:"CONTENT_"`
	Newsletter NewsletterConfig `json:"newsletter" envPrefix:"NEWSLETTER_"`
	Session    SessionConfig    `json:"session"    envPrefix:"SESSION_"`
	Auth       AuthConfig       `json:"auth"       envPrefix:"AUTH_"`
	Cart       CartConfig       `json:"cart"       envPrefix:"CART_"`
	Links      LinksConfig      `json:"links"      envPrefix:"LINKS_"`
	Telemetry  TelemetryConfig  `json:"telemetry"  envPrefix:"TELEMETRY_"`
	Log        LogConfig        `json:"log"        envPrefix:"LOG_"`

	// Dev enables pretty HTML and verbose client logging.
	Dev bool `json:"dev,omitempty" env:"DEV"`

	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr              string   `json:"addr"                env:"ADDR"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" env:"READ_HEADER_TIMEOUT"`
	ReadTimeout       Duration `json:"read_timeout"        env:"READ_TIMEOUT"`
	WriteTimeout      Duration `json:"write_timeout"       env:"WRITE_TIMEOUT"`
	IdleTimeout       Duration `json:"idle_timeout"        env:"IDLE_TIMEOUT"`
	ShutdownTimeout   Duration `json:"shutdown_timeout"    env:"SHUTDOWN_TIMEOUT"`

	// AllowedOrigins lists origins accepted for the live WebSocket. Empty
	// means same-origin only.
	AllowedOrigins []string `json:"allowed_origins,omitempty" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// ContentConfig selects where page content is loaded from.
type ContentConfig struct {
	Source          string   `json:"source"                      env:"SOURCE"`
	Dir             string   `json:"dir,omitempty"               env:"DIR"`
	Bucket          string   `json:"bucket,omitempty"            env:"BUCKET"`
	Prefix          string   `json:"prefix,omitempty"            env:"PREFIX"`
	Region          string   `json:"region,omitempty"            env:"REGION"`
	Endpoint        string   `json:"endpoint,omitempty"          env:"ENDPOINT"`
	PathStyle       bool     `json:"path_style,omitempty"        env:"PATH_STYLE"`
	AccessKeyID     string   `json:"access_key_id,omitempty"     env:"ACCESS_KEY_ID"`
	SecretAccessKey string   `json:"secret_access_key,omitempty" env:"SECRET_ACCESS_KEY"`
	RefreshInterval Duration `json:"refresh_interval,omitempty"  env:"REFRESH_INTERVAL"`
	DefaultLocale   string   `json:"default_locale"              env:"DEFAULT_LOCALE"`
}

// NewsletterConfig configures the signup widget.
type NewsletterConfig struct {
	ConfirmationDelay Duration `json:"confirmation_delay" env:"CONFIRMATION_DELAY"`
}

// SessionConfig bounds live sessions.
type SessionConfig struct {
	MaxSessions     int      `json:"max_sessions"      env:"MAX_SESSIONS"`
	IdleTimeout     Duration `json:"idle_timeout"      env:"IDLE_TIMEOUT"`
	EventsPerSecond float64  `json:"events_per_second" env:"EVENTS_PER_SECOND"`
	Burst           int      `json:"burst"             env:"BURST"`
	QueueSize       int      `json:"queue_size"        env:"QUEUE_SIZE"`
}

// AuthConfig configures reading the shared auth cookie. An empty Secret
// treats every visitor as anonymous.
type AuthConfig struct {
	CookieName string `json:"cookie_name"      env:"COOKIE_NAME"`
	Secret     string `json:"secret,omitempty" env:"SECRET"`
}

// CartConfig configures reading the cart cookie.
type CartConfig struct {
	CookieName string `json:"cookie_name" env:"COOKIE_NAME"`
}

// LinksConfig holds outbound links.
type LinksConfig struct {
	PlansURL string `json:"plans_url" env:"PLANS_URL"`
}

// TelemetryConfig configures tracing and metrics. Tracing is off when
// OTLPEndpoint is empty.
type TelemetryConfig struct {
	OTLPEndpoint string  `json:"otlp_endpoint,omitempty" env:"OTLP_ENDPOINT"`
	ServiceName  string  `json:"service_name"            env:"SERVICE_NAME"`
	SampleRatio  float64 `json:"sample_ratio"            env:"SAMPLE_RATIO"`
	MetricsPath  string  `json:"metrics_path"            env:"METRICS_PATH"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level"  env:"LEVEL"`
	Format string `json:"format" env:"FORMAT"`
}

// New returns a configuration with every default applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load builds the configuration from defaults, the file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.New("L102").
				WithSource(path).
				WithDetail("The file does not exist.").
				WithSuggestion("Run 'landing config init' to write one with the defaults")
		}
		return errors.New("L102").WithSource(path).Wrap(err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return errors.New("L101").
			WithSource(path).
			Wrap(err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON and durations are strings like \"3s\"")
	}
	c.configPath = path
	return nil
}

// ApplyEnv overlays WISHLANE_* variables. A nil environment reads the
// process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New("L103").Wrap(err)
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("L105").WithDetail("no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration as indented JSON.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("L105").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("L105").WithSource(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the configuration was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.Auth.Secret != "" {
		cp.Auth.Secret = "********"
	}
	if cp.Content.SecretAccessKey != "" {
		cp.Content.SecretAccessKey = "********"
	}
	return &cp
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	s := &c.Server
	if s.Addr == "" {
		s.Addr = DefaultAddr
	}
	if s.ReadHeaderTimeout == 0 {
		s.ReadHeaderTimeout = Duration(5 * time.Second)
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = Duration(15 * time.Second)
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = Duration(15 * time.Second)
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = Duration(60 * time.Second)
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = Duration(DefaultShutdownGrace)
	}

	if c.Content.Source == "" {
		c.Content.Source = SourceEmbedded
	}
	if c.Content.DefaultLocale == "" {
		c.Content.DefaultLocale = DefaultLocale
	}
	if c.Newsletter.ConfirmationDelay == 0 {
		c.Newsletter.ConfirmationDelay = Duration(DefaultConfirmDelay)
	}

	ss := &c.Session
	if ss.MaxSessions == 0 {
		ss.MaxSessions = DefaultMaxSessions
	}
	if ss.IdleTimeout == 0 {
		ss.IdleTimeout = Duration(DefaultSessionIdle)
	}
	if ss.EventsPerSecond == 0 {
		ss.EventsPerSecond = DefaultEventsPerSec
	}
	if ss.Burst == 0 {
		ss.Burst = DefaultEventBurst
	}
	if ss.QueueSize == 0 {
		ss.QueueSize = DefaultEventQueue
	}

	if c.Auth.CookieName == "" {
		c.Auth.CookieName = DefaultAuthCookie
	}
	if c.Cart.CookieName == "" {
		c.Cart.CookieName = DefaultCartCookie
	}
	if c.Links.PlansURL == "" {
		c.Links.PlansURL = DefaultPlansURL
	}

	t := &c.Telemetry
	if t.ServiceName == "" {
		t.ServiceName = DefaultServiceName
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
	if t.MetricsPath == "" {
		t.MetricsPath = DefaultMetricsPath
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	invalid := func(key, detail string) error {
		e := errors.New("L104").WithDetail(key + ": " + detail)
		if c.configPath != "" {
			e.WithSource(c.configPath)
		}
		return e
	}

	switch c.Content.Source {
	case SourceEmbedded:
	case SourceFile:
		if c.Content.Dir == "" {
			return invalid("content.dir", "required when content.source is \"file\"")
		}
	case SourceS3:
		if c.Content.Bucket == "" {
			return invalid("content.bucket", "required when content.source is \"s3\"")
		}
		if c.Content.Region == "" {
			return invalid("content.region", "required when content.source is \"s3\"")
		}
	default:
		return invalid("content.source", fmt.Sprintf("%q is not one of embedded, file, s3", c.Content.Source))
	}
	if c.Content.RefreshInterval < 0 {
		return invalid("content.refresh_interval", "must not be negative")
	}

	if c.Newsletter.ConfirmationDelay <= 0 {
		return invalid("newsletter.confirmation_delay", "must be positive")
	}

	if c.Session.MaxSessions < 0 {
		return invalid("session.max_sessions", "must not be negative")
	}
	if c.Session.EventsPerSecond < 0 || c.Session.Burst < 1 {
		return invalid("session.events_per_second", "rate must not be negative and burst must be at least 1")
	}
	if c.Session.QueueSize < 1 {
		return invalid("session.queue_size", "must be at least 1")
	}

	if c.Auth.Secret != "" && len(c.Auth.Secret) < 32 {
		return invalid("auth.secret", "must be at least 32 bytes")
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return invalid("telemetry.sample_ratio", "must be between 0 and 1")
	}
	if c.Telemetry.MetricsPath != "" && c.Telemetry.MetricsPath[0] != '/' {
		return invalid("telemetry.metrics_path", "must start with /")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return invalid("log.level", err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format", fmt.Sprintf("%q is not one of text, json", c.Log.Format))
	}
	return nil
}
