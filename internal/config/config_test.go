package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wishlane/landing/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Content.Source != SourceEmbedded {
		t.Errorf("Content.Source = %q, want embedded", cfg.Content.Source)
	}
	if cfg.Newsletter.ConfirmationDelay.D() != 3*time.Second {
		t.Errorf("ConfirmationDelay = %v, want 3s", cfg.Newsletter.ConfirmationDelay.D())
	}
	if cfg.Session.MaxSessions != DefaultMaxSessions {
		t.Errorf("MaxSessions = %d", cfg.Session.MaxSessions)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"addr": ":9000", "shutdown_timeout": "30s"},
		"newsletter": {"confirmation_delay": "5s"},
		"session": {"max_sessions": 50}
	}`)
	t.Setenv("WISHLANE_SERVER_ADDR", ":9100")
	t.Setenv("WISHLANE_SESSION_EVENTS_PER_SECOND", "2.5")
	t.Setenv("WISHLANE_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9100" {
		t.Errorf("env should override file: addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout.D() != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout.D())
	}
	if cfg.Newsletter.ConfirmationDelay.D() != 5*time.Second {
		t.Errorf("ConfirmationDelay = %v", cfg.Newsletter.ConfirmationDelay.D())
	}
	if cfg.Session.MaxSessions != 50 || cfg.Session.EventsPerSecond != 2.5 {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }, "L102"},
		{"bad json", func(t *testing.T) string { return writeConfig(t, `{"server":`) }, "L101"},
		{"bad duration", func(t *testing.T) string { return writeConfig(t, `{"newsletter":{"confirmation_delay":"soon"}}`) }, "L101"},
		{"invalid value", func(t *testing.T) string { return writeConfig(t, `{"content":{"source":"ftp"}}`) }, "L104"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	cfg := New()
	err := cfg.ApplyEnv(map[string]string{"WISHLANE_SESSION_MAX_SESSIONS": "many"})
	if !errors.HasCode(err, "L103") {
		t.Fatalf("err = %v, want L103", err)
	}
}

func TestApplyEnvMap(t *testing.T) {
	cfg := New()
	err := cfg.ApplyEnv(map[string]string{
		"WISHLANE_CONTENT_SOURCE":                "s3",
		"WISHLANE_CONTENT_BUCKET":                "wishlane-content",
		"WISHLANE_CONTENT_REGION":                "eu-west-1",
		"WISHLANE_CONTENT_REFRESH_INTERVAL":      "1m",
		"WISHLANE_NEWSLETTER_CONFIRMATION_DELAY": "2s",
		"WISHLANE_DEV":                           "true",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Content.Source != SourceS3 || cfg.Content.Bucket != "wishlane-content" {
		t.Errorf("Content = %+v", cfg.Content)
	}
	if cfg.Content.RefreshInterval.D() != time.Minute || cfg.Newsletter.ConfirmationDelay.D() != 2*time.Second {
		t.Errorf("durations not parsed: %+v %+v", cfg.Content, cfg.Newsletter)
	}
	if !cfg.Dev {
		t.Error("Dev should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		detail string
	}{
		{"file without dir", func(c *Config) { c.Content.Source = SourceFile }, "content.dir"},
		{"s3 without bucket", func(c *Config) { c.Content.Source = SourceS3; c.Content.Region = "us-east-1" }, "content.bucket"},
		{"s3 without region", func(c *Config) { c.Content.Source = SourceS3; c.Content.Bucket = "b" }, "content.region"},
		{"zero delay", func(c *Config) { c.Newsletter.ConfirmationDelay = 0 }, "newsletter.confirmation_delay"},
		{"short secret", func(c *Config) { c.Auth.Secret = "short" }, "auth.secret"},
		{"queue size", func(c *Config) { c.Session.QueueSize = 0 }, "session.queue_size"},
		{"sample ratio", func(c *Config) { c.Telemetry.SampleRatio = 2 }, "telemetry.sample_ratio"},
		{"metrics path", func(c *Config) { c.Telemetry.MetricsPath = "metrics" }, "telemetry.metrics_path"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.HasCode(err, "L104") {
				t.Fatalf("err = %v, want L104", err)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("err = %v, want mention of %s", err, tt.detail)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := New()
	cfg.Newsletter.ConfirmationDelay = Duration(4 * time.Second)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"confirmation_delay": "4s"`) {
		t.Errorf("durations should be saved as strings:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Newsletter.ConfirmationDelay.D() != 4*time.Second {
		t.Errorf("ConfirmationDelay = %v", loaded.Newsletter.ConfirmationDelay.D())
	}
	if err := loaded.Save(); err != nil {
		t.Errorf("Save() = %v", err)
	}
	if err := New().Save(); !errors.HasCode(err, "L105") {
		t.Errorf("Save() without path err = %v, want L105", err)
	}
}

func TestRedacted(t *testing.T) {
	cfg := New()
	cfg.Auth.Secret = strings.Repeat("s", 32)
	red := cfg.Redacted()
	if red.Auth.Secret == cfg.Auth.Secret {
		t.Error("secret not redacted")
	}
	if cfg.Auth.Secret != strings.Repeat("s", 32) {
		t.Error("Redacted modified the original")
	}
}

func TestNewLogger(t *testing.T) {
	var sb strings.Builder
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&sb)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := sb.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected output %q", out)
	}
}
