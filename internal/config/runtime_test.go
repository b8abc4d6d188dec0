package config

import (
	"testing"
	"time"

	"github.com/wishlane/landing"
)

func TestRuntime(t *testing.T) {
	cfg := New()
	cfg.Server.AllowedOrigins = []string{"https://www.wishlane.com"}
	cfg.Newsletter.ConfirmationDelay = Duration(2 * time.Second)
	cfg.Session.MaxSessions = 50

	rc := cfg.Runtime("v1.0.0")
	if rc.Addr != DefaultAddr {
		t.Errorf("Addr = %q", rc.Addr)
	}
	if rc.ConfirmationDelay != 2*time.Second {
		t.Errorf("ConfirmationDelay = %v", rc.ConfirmationDelay)
	}
	if rc.Session.MaxSessions != 50 || rc.Session.IdleTimeout != DefaultSessionIdle {
		t.Errorf("Session = %+v", rc.Session)
	}
	if rc.PlansURL != DefaultPlansURL || rc.MetricsPath != DefaultMetricsPath {
		t.Errorf("PlansURL = %q, MetricsPath = %q", rc.PlansURL, rc.MetricsPath)
	}
	if len(rc.AllowedOrigins) != 1 || rc.Version != "v1.0.0" {
		t.Errorf("AllowedOrigins = %v, Version = %q", rc.AllowedOrigins, rc.Version)
	}
	if rc.Static.CacheControl != landing.CacheControlProduction {
		t.Error("production config disabled asset caching")
	}

	cfg.Dev = true
	if rc := cfg.Runtime(""); !rc.DevMode || rc.Static.CacheControl != landing.CacheControlNone {
		t.Errorf("dev runtime = %+v", rc)
	}
}
