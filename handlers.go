package landing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wishlane/landing/internal/content"
	"github.com/wishlane/landing/pkg/newsletter"
	"github.com/wishlane/landing/pkg/protocol"
	"github.com/wishlane/landing/pkg/sections"
	"github.com/wishlane/landing/pkg/vdom"
)

// maxFormBytes bounds the fallback form body.
const maxFormBytes = 4 << 10

// negotiate picks the site for r from ?lang= and Accept-Language.
func (a *App) negotiate(r *http.Request) (*content.Site, *content.Snapshot) {
	snap := a.content.Snapshot()
	return snap.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language")), snap
}

// handleIndex renders the landing page.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, r, nil)
}

// handleNewsletter is the form fallback for browsers without the live
// client: one transient widget receives the address and a submit, and the
// page is rendered with the resulting state.
func (a *App) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")
	if len(email) > protocol.MaxValueLength {
		http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
		return
	}

	a.renderPage(w, r, func(widget *newsletter.Widget) {
		widget.SetAddress(email)
		if widget.Submit() {
			a.logger.Info("newsletter submitted", "via", "form")
		}
	})
}

// renderPage renders the full document for r.
func (a *App) renderPage(w http.ResponseWriter, r *http.Request, act func(*newsletter.Widget)) {
	site, snap := a.negotiate(r)
	page := a.page(r.Context(), site, snap.Locales(), sections.ResolveVisitor(r, a.auth, a.cart), LivePath, act)

	var buf bytes.Buffer
	if err := a.renderer.RenderPage(&buf, page); err != nil {
		a.logger.Error("render failed", "locale", site.Locale, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Language", site.Locale)
	h.Set("Cache-Control", "private, no-store")
	h.Add("Vary", "Accept-Language")
	h.Add("Vary", "Cookie")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// page builds the document. The newsletter widget lives only for the call:
// act runs against it, it is rendered, then disposed, which cancels any
// pending confirmation timer.
func (a *App) page(ctx context.Context, site *content.Site, locales []string, visitor sections.Visitor, liveURL string, act func(*newsletter.Widget)) *vdom.VNode {
	sc := newSSRContext(ctx, a.clock)
	defer sc.close()

	var form *vdom.VNode
	sc.do(func() {
		widget := newsletter.New(sc, nil, a.newsletterOptions(site))
		defer widget.Dispose()
		if act != nil {
			act(widget)
		}
		form = widget.Render()
	})

	return sections.Page(site, sections.PageOptions{
		Visitor:    visitor,
		Newsletter: form,
		Locales:    locales,
		Assets:     a.assets,
		LiveURL:    liveURL,
	})
}

// Export writes the page for locale as a standalone document: anonymous
// visitor, no live client, the form posting to /newsletter.
func (a *App) Export(ctx context.Context, w io.Writer, locale string) error {
	snap := a.content.Snapshot()
	site, ok := snap.Site(locale)
	if !ok {
		return fmt.Errorf("no content for locale %q (have %v)", locale, snap.Locales())
	}
	page := a.page(ctx, site, snap.Locales(), sections.Visitor{}, "", nil)
	return a.renderer.RenderPage(w, page)
}

// handlePlans redirects to the pricing page in the main app.
func (a *App) handlePlans(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.config.PlansURL, http.StatusFound)
}

// healthResponse is the /healthz body.
type healthResponse struct {
	Status          string    `json:"status"`
	Version         string    `json:"version,omitempty"`
	Sessions        int       `json:"sessions"`
	Locales         []string  `json:"locales"`
	ContentSource   string    `json:"content_source"`
	ContentLoadedAt time.Time `json:"content_loaded_at"`
}

// handleHealth reports liveness and what content is being served.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := a.content.Snapshot()
	resp := healthResponse{
		Status:          "ok",
		Version:         a.config.Version,
		Sessions:        a.manager.Count(),
		Locales:         snap.Locales(),
		ContentSource:   snap.Source,
		ContentLoadedAt: snap.LoadedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.logger.Debug("health encode failed", "error", err)
	}
}
