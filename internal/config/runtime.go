package config

import "github.com/wishlane/landing"

// Runtime converts the file configuration into the server's Config.
// version is reported by /healthz.
func (c *Config) Runtime(version string) landing.Config {
	rc := landing.Config{
		Addr:              c.Server.Addr,
		ReadHeaderTimeout: c.Server.ReadHeaderTimeout.D(),
		ReadTimeout:       c.Server.ReadTimeout.D(),
		WriteTimeout:      c.Server.WriteTimeout.D(),
		IdleTimeout:       c.Server.IdleTimeout.D(),
		ShutdownTimeout:   c.Server.ShutdownTimeout.D(),
		PlansURL:          c.Links.PlansURL,
		ConfirmationDelay: c.Newsletter.ConfirmationDelay.D(),
		Session: landing.SessionConfig{
			MaxSessions:     c.Session.MaxSessions,
			IdleTimeout:     c.Session.IdleTimeout.D(),
			EventsPerSecond: c.Session.EventsPerSecond,
			Burst:           c.Session.Burst,
			QueueSize:       c.Session.QueueSize,
		},
		AllowedOrigins: c.Server.AllowedOrigins,
		MetricsPath:    c.Telemetry.MetricsPath,
		Static:         landing.StaticConfig{CacheControl: landing.CacheControlProduction},
		DevMode:        c.Dev,
		Version:        version,
	}
	if c.Dev {
		rc.Static.CacheControl = landing.CacheControlNone
	}
	return rc
}
