package sections

import (
	"strconv"
	"strings"

	"github.com/wishlane/landing/internal/content"
	"github.com/wishlane/landing/pkg/vdom"
)

// Navbar renders the site header: brand, section links, the account entry
// and the cart link.
func Navbar(site *content.Site, v Visitor) *vdom.VNode {
	nav := site.Nav

	return vdom.Header(vdom.ID("top"), vdom.Class("site-header"),
		vdom.Nav(vdom.Class("navbar"), vdom.AriaLabel("Main"),
			vdom.A(vdom.Class("brand"), vdom.Href("/"),
				image(site.Brand.Logo, "brand-logo", false),
				vdom.Span(vdom.Class("brand-name"), site.Brand.Name),
			),
			vdom.Ul(vdom.Class("nav-links"),
				vdom.Range(nav.Links, func(_ int, l content.Link) *vdom.VNode {
					return vdom.Li(vdom.A(vdom.Href(l.Href), l.Label))
				}),
			),
			vdom.Div(vdom.Class("nav-actions"),
				account(nav, v),
				cartLink(nav, v.CartCount),
			),
		),
	)
}

func account(nav content.Nav, v Visitor) *vdom.VNode {
	if v.Viewer.Authenticated() {
		name := v.Viewer.Name
		if name == "" {
			name = v.Viewer.ID
		}
		return vdom.Span(vdom.ID("nav-greeting"), vdom.Class("nav-greeting"), greeting(nav.Greeting, name))
	}
	if nav.SignIn.Href == "" {
		return nil
	}
	return vdom.A(vdom.ID("nav-sign-in"), vdom.Class("button", "button-ghost"), vdom.Href(nav.SignIn.Href), nav.SignIn.Label)
}

func greeting(format, name string) string {
	if !strings.Contains(format, "%s") {
		return strings.TrimSpace(format + " " + name)
	}
	return strings.Replace(format, "%s", name, 1)
}

func cartLink(nav content.Nav, count int) *vdom.VNode {
	if nav.CartHref == "" {
		return nil
	}
	label := strconv.Itoa(count)
	if strings.Contains(nav.CartLabel, "%d") {
		label = strings.Replace(nav.CartLabel, "%d", strconv.Itoa(count), 1)
	}
	return vdom.A(vdom.ID("nav-cart"), vdom.Class("nav-cart"), vdom.Href(nav.CartHref),
		vdom.Data("count", strconv.Itoa(count)),
		label,
	)
}
