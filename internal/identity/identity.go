// Package identity resolves who is viewing the page.
//
// The landing page never signs anyone in. It only reads the session cookie
// the main application sets, to greet a returning user in the navbar. An
// Authenticator is passed explicitly to the parts of the page that need it.
package identity

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Viewer is the person the page is rendered for.
type Viewer struct {
	ID   string
	Name string
}

// Authenticated reports whether the viewer is signed in.
func (v Viewer) Authenticated() bool {
	return v.ID != ""
}

// Authenticator resolves the viewer of a request. It never fails; an
// unknown or invalid credential yields the anonymous viewer.
type Authenticator interface {
	Authenticate(r *http.Request) Viewer
}

// Anonymous treats every request as signed out.
type Anonymous struct{}

func (Anonymous) Authenticate(*http.Request) Viewer { return Viewer{} }

// sessionClaims is the payload of the shared session cookie.
type sessionClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// CookieAuthenticator verifies an HS256 JWT stored in a cookie.
type CookieAuthenticator struct {
	cookie string
	secret []byte
	issuer string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a CookieAuthenticator.
type Option func(*CookieAuthenticator)

// WithIssuer requires the token's iss claim to equal issuer.
func WithIssuer(issuer string) Option {
	return func(a *CookieAuthenticator) { a.issuer = issuer }
}

// WithNow overrides the time source used to check expiry.
func WithNow(now func() time.Time) Option {
	return func(a *CookieAuthenticator) { a.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *CookieAuthenticator) { a.logger = l }
}

// NewCookieAuthenticator creates an authenticator for the named cookie.
func NewCookieAuthenticator(cookie string, secret []byte, opts ...Option) *CookieAuthenticator {
	a := &CookieAuthenticator{
		cookie: cookie,
		secret: secret,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "identity")
	return a
}

func (a *CookieAuthenticator) Authenticate(r *http.Request) Viewer {
	c, err := r.Cookie(a.cookie)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return Viewer{}
	}

	viewer, err := a.Verify(c.Value)
	if err != nil {
		a.logger.Debug("ignoring invalid session cookie", "error", err)
		return Viewer{}
	}
	return viewer
}

// Verify parses and validates a token.
func (a *CookieAuthenticator) Verify(token string) (Viewer, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return Viewer{}, err
	}
	if claims.Subject == "" {
		return Viewer{}, jwt.ErrTokenInvalidClaims
	}
	return Viewer{ID: claims.Subject, Name: claims.Name}, nil
}

// Sign issues a token for v valid for ttl. The main application owns the
// real cookie; this exists for local development and tests.
func (a *CookieAuthenticator) Sign(v Viewer, ttl time.Duration) (string, error) {
	now := a.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   v.ID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: v.Name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
