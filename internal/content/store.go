package content

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/text/language"

	"github.com/wishlane/landing/internal/errors"
)

// Snapshot is an immutable set of parsed locales.
type Snapshot struct {
	sites         map[string]*Site
	locales       []string // matcher order, default first
	defaultLocale string
	matcher       language.Matcher
	LoadedAt      time.Time
	Source        string
}

// Locales returns the loaded locales, default first.
func (s *Snapshot) Locales() []string {
	out := make([]string, len(s.locales))
	copy(out, s.locales)
	return out
}

// Default returns the site for the default locale.
func (s *Snapshot) Default() *Site {
	return s.sites[s.defaultLocale]
}

// Site returns the site for an exact locale.
func (s *Snapshot) Site(locale string) (*Site, bool) {
	site, ok := s.sites[locale]
	return site, ok
}

// Negotiate picks a site. An exact override (the ?lang= value) wins when
// loaded; otherwise the Accept-Language header is matched against the
// loaded locales, falling back to the default.
func (s *Snapshot) Negotiate(override, acceptLanguage string) *Site {
	if override != "" {
		if site, ok := s.sites[override]; ok {
			return site
		}
		if tag, err := language.Parse(override); err == nil {
			if _, idx, conf := s.matcher.Match(tag); conf != language.No {
				return s.sites[s.locales[idx]]
			}
		}
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return s.Default()
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No {
		return s.Default()
	}
	return s.sites[s.locales[idx]]
}

func newSnapshot(sites map[string]*Site, defaultLocale, source string, now time.Time) (*Snapshot, error) {
	if _, ok := sites[defaultLocale]; !ok {
		return nil, errors.New("L204").WithSource(source).WithDetailf("no document for %q", defaultLocale)
	}

	locales := []string{defaultLocale}
	for locale := range sites {
		if locale != defaultLocale {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales[1:])

	tags := make([]language.Tag, 0, len(locales))
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, errors.New("L202").WithSource(locale).WithDetail("document name is not a BCP 47 tag").Wrap(err)
		}
		tags = append(tags, tag)
	}

	return &Snapshot{
		sites:         sites,
		locales:       locales,
		defaultLocale: defaultLocale,
		matcher:       language.NewMatcher(tags),
		LoadedAt:      now,
		Source:        source,
	}, nil
}

// Store holds the current Snapshot and reloads it from a Source.
type Store struct {
	source        Source
	defaultLocale string
	clock         clock.Clock
	logger        *slog.Logger

	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes reloads
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the clock used for timestamps and the refresh ticker.
func WithClock(c clock.Clock) StoreOption {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store. Call Load before serving.
func NewStore(source Source, defaultLocale string, opts ...StoreOption) *Store {
	s := &Store{
		source:        source,
		defaultLocale: defaultLocale,
		clock:         clock.New(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "content", "source", source.Name())
	return s
}

// Load reads, parses and validates every locale and installs the result.
// On error the current snapshot, if any, is kept.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.current.Store(snap)
	s.logger.Info("content loaded", "locales", snap.locales)
	return nil
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	locales, err := s.source.Locales(ctx)
	if err != nil {
		return nil, errors.New("L203").WithSource(s.source.Name()).Wrap(err)
	}

	sites := make(map[string]*Site, len(locales))
	for _, locale := range locales {
		data, err := s.source.Read(ctx, locale)
		if err != nil {
			return nil, errors.New("L203").WithSource(s.source.Name()).Wrap(err)
		}
		site, err := Parse(data)
		if err != nil {
			return nil, errors.FromError(err, "L201").WithSource(locale + ".yaml")
		}
		if site.Locale == "" {
			site.Locale = locale
		}
		if site.Locale != locale {
			return nil, errors.New("L202").
				WithSource(locale + ".yaml").
				WithDetailf("locale field %q does not match the document name", site.Locale)
		}
		if err := site.Validate(); err != nil {
			return nil, err
		}
		sites[locale] = site
	}

	return newSnapshot(sites, s.defaultLocale, s.source.Name(), s.clock.Now())
}

// Snapshot returns the current snapshot, or nil before the first Load.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Watch reloads every interval until ctx is done. Failures are logged and
// the previous snapshot keeps serving.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Load(ctx); err != nil {
				s.logger.Warn("content reload failed, keeping previous snapshot", "error", err)
			}
		}
	}
}

// String describes the store for logs.
func (s *Store) String() string {
	return fmt.Sprintf("content.Store(%s, default=%s)", s.source.Name(), s.defaultLocale)
}
