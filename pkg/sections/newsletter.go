package sections

import (
	"log/slog"
	"time"

	"github.com/wishlane/landing/internal/content"
	"github.com/wishlane/landing/pkg/newsletter"
)

// NewsletterOptions builds widget options from the site's copy. action is
// the form's fallback POST target.
func NewsletterOptions(site *content.Site, delay time.Duration, action string, logger *slog.Logger) newsletter.Options {
	n := site.Newsletter
	return newsletter.Options{
		Confirmation: n.Confirmation,
		Delay:        delay,
		Logger:       logger,
		Copy: newsletter.Copy{
			Heading:     n.Heading,
			Body:        n.Body,
			Label:       n.Label,
			Placeholder: n.Placeholder,
			Button:      n.Button,
			Action:      action,
		},
	}
}
