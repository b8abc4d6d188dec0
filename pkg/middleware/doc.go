// Package middleware provides HTTP middleware for the landing service.
//
// This package includes:
//   - Prometheus request metrics
//   - OpenTelemetry span-per-request tracing
//   - Structured request logging with slog
//
// All middleware have the func(http.Handler) http.Handler shape used by
// chi. Route labels come from the chi route pattern when one matched, so
// label cardinality stays bounded.
//
// # Prometheus Metrics
//
//	m := middleware.NewHTTPMetrics(
//	    middleware.WithNamespace("wishlane"),
//	    middleware.WithRegistry(reg),
//	)
//	r.Use(m.Middleware)
//
// Metrics collected:
//   - <ns>_http_requests_total: requests by route, method and status code
//   - <ns>_http_request_duration_seconds: latency by route and method
//   - <ns>_http_requests_in_flight: requests being served
//
// # OpenTelemetry
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("wishlane-landing"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer comes from the global provider, which internal/telemetry
// configures at startup.
package middleware
