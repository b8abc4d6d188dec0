package sections

import (
	"github.com/wishlane/landing/internal/content"
	"github.com/wishlane/landing/pkg/vdom"
)

// Services renders the feature grid.
func Services(s content.Services) *vdom.VNode {
	if len(s.Items) == 0 {
		return nil
	}
	return vdom.Section(vdom.ID("services"), vdom.Class("services"),
		vdom.H2(s.Title),
		vdom.Div(vdom.Class("card-grid"),
			vdom.Range(s.Items, func(_ int, svc content.Service) *vdom.VNode {
				return vdom.Article(vdom.Class("card"),
					image(svc.Image, "card-image", true),
					vdom.H3(svc.Name),
					vdom.If(svc.Description != "", vdom.P(svc.Description)),
				)
			}),
		),
	)
}

// Testimonials renders customer quotes.
func Testimonials(t content.Testimonials) *vdom.VNode {
	if len(t.Items) == 0 {
		return nil
	}
	return vdom.Section(vdom.ID("testimonials"), vdom.Class("testimonials"),
		vdom.H2(t.Title),
		vdom.Div(vdom.Class("quote-list"),
			vdom.Range(t.Items, func(_ int, q content.Testimonial) *vdom.VNode {
				return vdom.Figure(vdom.Class("quote"),
					vdom.Blockquote(vdom.P(q.Quote)),
					vdom.Figcaption(
						image(q.Avatar, "avatar", true),
						vdom.Strong(q.Author),
						vdom.If(q.Event != "", vdom.Span(vdom.Class("quote-event"), q.Event)),
					),
				)
			}),
		),
	)
}

// Brands renders the partner logos. A brand without a logo shows its name.
func Brands(b content.Brands) *vdom.VNode {
	if len(b.Items) == 0 {
		return nil
	}
	return vdom.Section(vdom.ID("brands"), vdom.Class("brands"),
		vdom.H2(b.Title),
		vdom.Ul(vdom.Class("brand-list"),
			vdom.Range(b.Items, func(_ int, brand content.BrandLogo) *vdom.VNode {
				mark := image(brand.Logo, "brand-mark", true)
				if mark == nil {
					mark = vdom.Span(vdom.Class("brand-mark"), brand.Name)
				}
				if brand.URL == "" {
					return vdom.Li(vdom.Key(brand.Name), mark)
				}
				return vdom.Li(vdom.Key(brand.Name),
					vdom.A(vdom.Href(brand.URL), vdom.Rel("noopener"), vdom.Target("_blank"),
						vdom.TitleAttr(brand.Name), mark),
				)
			}),
		),
	)
}

// CTA renders the closing call to action.
func CTA(c content.CTA) *vdom.VNode {
	return vdom.Section(vdom.ID("cta"), vdom.Class("cta"),
		vdom.H2(c.Title),
		vdom.If(c.Body != "", vdom.P(c.Body)),
		linkButton(c.Button, "button-primary"),
	)
}

// Footer renders the link columns, the language switcher and the copyright.
// current is the rendered locale; locales lists every available one.
func Footer(f content.Footer, current string, locales []string) *vdom.VNode {
	return vdom.Footer(vdom.Class("site-footer"),
		vdom.Div(vdom.Class("footer-columns"),
			vdom.Range(f.Columns, func(_ int, col content.FooterColumn) *vdom.VNode {
				return vdom.Div(vdom.Class("footer-column"),
					vdom.H3(col.Title),
					vdom.Ul(vdom.Range(col.Links, func(_ int, l content.Link) *vdom.VNode {
						return vdom.Li(vdom.A(vdom.Href(l.Href), l.Label))
					})),
				)
			}),
		),
		languages(current, locales),
		vdom.If(f.Copyright != "", vdom.P(vdom.Small(f.Copyright))),
	)
}

func languages(current string, locales []string) *vdom.VNode {
	if len(locales) < 2 {
		return nil
	}
	return vdom.Nav(vdom.Class("languages"), vdom.AriaLabel("Language"),
		vdom.Ul(vdom.Range(locales, func(_ int, l string) *vdom.VNode {
			if l == current {
				return vdom.Li(vdom.A(vdom.Href("?lang="+l), vdom.Attribute("aria-current", "true"), vdom.Lang(l), l))
			}
			return vdom.Li(vdom.A(vdom.Href("?lang="+l), vdom.Lang(l), l))
		})),
	)
}
