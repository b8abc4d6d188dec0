package sections

import (
	"strconv"

	"github.com/wishlane/landing/internal/content"
	"github.com/wishlane/landing/pkg/vdom"
)

// Hero renders the opening banner.
func Hero(h content.Hero) *vdom.VNode {
	return vdom.Section(vdom.ID("hero"), vdom.Class("hero"),
		vdom.Div(vdom.Class("hero-copy"),
			vdom.If(h.Eyebrow != "", vdom.P(vdom.Class("eyebrow"), h.Eyebrow)),
			vdom.H1(h.Title),
			vdom.If(h.Subtitle != "", vdom.P(vdom.Class("lead"), h.Subtitle)),
			linkButton(h.CTA, "button-primary"),
		),
		image(h.Image, "hero-image", false),
	)
}

// HowItWorks renders the numbered steps.
func HowItWorks(h content.HowItWorks) *vdom.VNode {
	if len(h.Steps) == 0 {
		return nil
	}
	return vdom.Section(vdom.ID("how-it-works"), vdom.Class("steps"),
		vdom.H2(h.Title),
		vdom.Ol(vdom.Class("step-list"),
			vdom.Range(h.Steps, func(i int, s content.Step) *vdom.VNode {
				icon := s.Icon
				if icon == "" {
					icon = strconv.Itoa(i + 1)
				}
				return vdom.Li(vdom.Class("step"),
					vdom.Span(vdom.Class("step-icon"), vdom.AriaHidden(true), icon),
					vdom.H3(s.Title),
					vdom.If(s.Body != "", vdom.P(s.Body)),
				)
			}),
		),
	)
}

// linkButton renders a link styled as a button, or nothing without a target.
func linkButton(l content.Link, variant string) *vdom.VNode {
	if l.Href == "" {
		return nil
	}
	return vdom.A(vdom.Class("button", variant), vdom.Href(l.Href), l.Label)
}

// image renders an img, or nothing without a source. Images below the fold
// load lazily.
func image(img content.Image, class string, lazy bool) *vdom.VNode {
	if img.Src == "" {
		return nil
	}
	var loading vdom.Attr
	if lazy {
		loading = vdom.Loading("lazy")
	}
	return vdom.Img(vdom.Class(class), vdom.Src(img.Src), vdom.Alt(img.Alt), loading)
}
