package landing

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wishlane/landing/internal/cart"
	"github.com/wishlane/landing/internal/content"
	"github.com/wishlane/landing/internal/errors"
	"github.com/wishlane/landing/internal/identity"
	"github.com/wishlane/landing/pkg/assets"
	"github.com/wishlane/landing/pkg/middleware"
	"github.com/wishlane/landing/pkg/newsletter"
	"github.com/wishlane/landing/pkg/reactive"
	"github.com/wishlane/landing/pkg/render"
	"github.com/wishlane/landing/pkg/sections"
	"github.com/wishlane/landing/pkg/server"
)

// metricsNamespace prefixes every collector the app registers.
const metricsNamespace = "wishlane"

// Deps are the collaborators New wires together. Only Content is required.
type Deps struct {
	// Content serves the per-locale page copy. New loads it if it has no
	// snapshot yet.
	Content *content.Store

	// Authenticator resolves the signed-in viewer. Default: identity.Anonymous.
	Authenticator identity.Authenticator

	// Cart counts the visitor's cart items. Default: cart.None.
	Cart cart.Counter

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Registry receives the app's collectors and backs the metrics
	// endpoint. Default: a fresh registry with the Go and process
	// collectors.
	Registry *prometheus.Registry

	// Clock drives newsletter timers and session expiry. Default: wall clock.
	Clock clock.Clock

	// Static overrides the embedded assets.
	Static fs.FS
}

// App is the landing page service: page rendering, the form fallback, the
// live newsletter endpoint and operational routes behind one chi router.
type App struct {
	config   Config
	content  *content.Store
	auth     identity.Authenticator
	cart     cart.Counter
	logger   *slog.Logger
	registry *prometheus.Registry
	clock    clock.Clock
	static   fs.FS
	manifest *assets.Manifest
	renderer *render.Renderer
	assets   sections.Assets

	manager *server.SessionManager
	live    *server.Handler
	router  chi.Router
}

// New builds an App. It fails only when no content can be loaded.
func New(cfg Config, deps Deps) (*App, error) {
	cfg = cfg.withDefaults()

	if deps.Content == nil {
		return nil, errors.New("L301").WithDetail("no content store configured")
	}
	if deps.Content.Snapshot() == nil {
		if err := deps.Content.Load(context.Background()); err != nil {
			return nil, err
		}
	}

	a := &App{
		config:   cfg,
		content:  deps.Content,
		auth:     deps.Authenticator,
		cart:     deps.Cart,
		logger:   deps.Logger,
		registry: deps.Registry,
		clock:    deps.Clock,
		static:   deps.Static,
		renderer: render.NewRenderer(render.RendererConfig{Pretty: cfg.DevMode}),
	}
	if a.auth == nil {
		a.auth = identity.Anonymous{}
	}
	if a.cart == nil {
		a.cart = cart.None{}
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if a.clock == nil {
		a.clock = clock.New()
	}
	if a.static == nil {
		a.static = Assets()
	}
	if err := a.initAssets(); err != nil {
		return nil, err
	}

	a.initLive()
	a.router = a.routes()
	return a, nil
}

// initAssets fingerprints the static files outside dev mode and resolves
// the URLs the page links.
func (a *App) initAssets() error {
	resolver := assets.NewPassthroughResolver(StaticPrefix)
	if a.config.Static.CacheControl == CacheControlProduction {
		m, err := assets.Fingerprint(a.static)
		if err != nil {
			return errors.New("L301").Wrap(err)
		}
		a.manifest = m
		resolver = assets.NewResolver(m, StaticPrefix)
	}
	a.assets = sections.Assets{
		Stylesheet: resolver.Asset("landing.css"),
		Script:     resolver.Asset("landing.js"),
		Icon:       resolver.Asset("img/logo.svg"),
	}
	return nil
}

// initLive builds the session manager and the WebSocket handler.
func (a *App) initLive() {
	s := a.config.Session
	sessionConfig := server.DefaultSessionConfig()
	sessionConfig.IdleTimeout = s.IdleTimeout
	sessionConfig.EventsPerSecond = s.EventsPerSecond
	sessionConfig.EventBurst = s.Burst
	sessionConfig.MaxEventQueue = s.QueueSize

	cleanup := s.IdleTimeout / 4
	if cleanup > 30*time.Second {
		cleanup = 30 * time.Second
	}

	a.manager = server.NewSessionManager(
		sessionConfig,
		&server.SessionLimits{MaxSessions: s.MaxSessions},
		a.mount,
		server.WithClock(a.clock),
		server.WithLogger(a.logger),
		server.WithMetrics(server.NewMetrics(a.registry, metricsNamespace)),
		server.WithCleanupInterval(cleanup),
		server.WithRenderer(a.renderer),
	)

	origins := a.config.AllowedOrigins
	if a.config.DevMode {
		origins = []string{"*"}
	}
	a.live = server.NewHandler(a.manager, server.HandlerConfig{AllowedOrigins: origins}, a.logger)
}

// mount hosts a newsletter widget with the copy for the upgrade request's
// locale.
func (a *App) mount(ctx reactive.Ctx, owner *reactive.Owner, r *http.Request) *newsletter.Widget {
	site, _ := a.negotiate(r)
	return newsletter.New(ctx, owner, a.newsletterOptions(site))
}

func (a *App) newsletterOptions(site *content.Site) newsletter.Options {
	return sections.NewsletterOptions(site, a.config.ConfirmationDelay, NewsletterPath, a.logger)
}

// routes registers every endpoint.
func (a *App) routes() chi.Router {
	r := chi.NewRouter()

	httpMetrics := middleware.NewHTTPMetrics(
		middleware.WithRegistry(a.registry),
		middleware.WithNamespace(metricsNamespace),
	)
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.RequestLogger(a.logger),
		chimw.Recoverer,
		httpMetrics.Middleware,
		middleware.OpenTelemetry(middleware.WithRequestFilter(a.traced)),
	)

	r.Get("/", a.handleIndex)
	r.Post(NewsletterPath, a.handleNewsletter)
	r.Get(PlansPath, a.handlePlans)
	r.Get(LivePath, a.live.ServeHTTP)
	r.Get(HealthPath, a.handleHealth)
	r.Method(http.MethodGet, StaticPrefix+"*", http.HandlerFunc(a.serveStatic))
	r.Method(http.MethodHead, StaticPrefix+"*", http.HandlerFunc(a.serveStatic))
	if a.config.MetricsPath != "" {
		r.Method(http.MethodGet, a.config.MetricsPath,
			promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{ErrorLog: slog.NewLogLogger(a.logger.Handler(), slog.LevelWarn)}))
	}
	return r
}

// traced skips spans for probes, scrapes and assets.
func (a *App) traced(r *http.Request) bool {
	p := r.URL.Path
	if p == HealthPath || strings.HasPrefix(p, StaticPrefix) {
		return false
	}
	return a.config.MetricsPath == "" || p != a.config.MetricsPath
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Handler returns the app's router.
func (a *App) Handler() http.Handler {
	return a.router
}

// Sessions returns the live session manager.
func (a *App) Sessions() *server.SessionManager {
	return a.manager
}

// Config returns the effective configuration.
func (a *App) Config() Config {
	return a.config
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Addr)
	if err != nil {
		return errors.New("L301").WithSource(a.config.Addr).Wrap(err).
			WithSuggestion("Check that nothing else is listening on " + a.config.Addr)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. Open live sessions are closed
// within the shutdown timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: a.config.ReadHeaderTimeout,
		ReadTimeout:       a.config.ReadTimeout,
		WriteTimeout:      a.config.WriteTimeout,
		IdleTimeout:       a.config.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelWarn),
	}

	a.logger.Info("server listening", "addr", ln.Addr().String(), "config", a.config)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		a.manager.Shutdown()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.New("L301").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", "sessions", a.manager.Count(), "timeout", a.config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()

	httpErr := srv.Shutdown(shutdownCtx)
	liveErr := a.manager.ShutdownWithContext(shutdownCtx)
	<-errCh

	if httpErr != nil {
		return fmt.Errorf("http shutdown: %w", httpErr)
	}
	if liveErr != nil {
		return fmt.Errorf("live shutdown: %w", liveErr)
	}
	a.logger.Info("server stopped")
	return nil
}

// Close stops the live session manager without serving. Used by callers
// that mount Handler on their own server.
func (a *App) Close() {
	a.manager.Shutdown()
}
