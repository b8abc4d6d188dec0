package sections

import (
	"github.com/wishlane/landing/internal/content"
	"github.com/wishlane/landing/pkg/vdom"
)

// Assets are the URLs of the page's static files.
type Assets struct {
	Stylesheet string
	Script     string
	Icon       string
}

// PageOptions carries the request-dependent parts of the page.
type PageOptions struct {
	Visitor Visitor

	// Newsletter is the rendered widget. Nil omits the section.
	Newsletter *vdom.VNode

	// Locales lists the available locales for the language switcher.
	Locales []string

	Assets Assets

	// LiveURL is the WebSocket path the client script connects to. Empty
	// leaves the page without the live client; the form still posts.
	LiveURL string
}

// Page composes the full document.
func Page(site *content.Site, opts PageOptions) *vdom.VNode {
	var live vdom.Attr
	if opts.LiveURL != "" {
		live = vdom.Data("live-url", opts.LiveURL)
	}

	return vdom.Html(vdom.Lang(site.Locale),
		vdom.Head(
			vdom.Meta(vdom.Charset("utf-8")),
			vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
			vdom.Title(site.Meta.Title),
			vdom.If(site.Meta.Description != "",
				vdom.Meta(vdom.Name("description"), vdom.Content(site.Meta.Description))),
			vdom.If(opts.Assets.Icon != "",
				vdom.Link(vdom.Rel("icon"), vdom.Href(opts.Assets.Icon))),
			vdom.If(opts.Assets.Stylesheet != "",
				vdom.Link(vdom.Rel("stylesheet"), vdom.Href(opts.Assets.Stylesheet))),
			vdom.If(opts.LiveURL != "" && opts.Assets.Script != "",
				vdom.Script(vdom.Src(opts.Assets.Script), vdom.Defer())),
		),
		vdom.Body(live,
			Navbar(site, opts.Visitor),
			vdom.Main(vdom.ID("main"),
				Hero(site.Hero),
				HowItWorks(site.HowItWorks),
				Services(site.Services),
				Testimonials(site.Testimonials),
				Brands(site.Brands),
				opts.Newsletter,
				CTA(site.CTA),
			),
			Footer(site.Footer, site.Locale, opts.Locales),
		),
	)
}
