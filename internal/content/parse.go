package content

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wishlane/landing/internal/errors"
)

// Parse decodes one locale document. Unknown keys are rejected so typos in
// content files surface at load time.
func Parse(data []byte) (*Site, error) {
	var site Site
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&site); err != nil {
		return nil, errors.New("L201").Wrap(err)
	}
	return &site, nil
}

// Validate checks the fields the page cannot render without.
func (s *Site) Validate() error {
	var problems []string
	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, field+" is required")
		}
	}

	require("brand.name", s.Brand.Name)
	require("meta.title", s.Meta.Title)
	require("hero.title", s.Hero.Title)
	require("newsletter.button", s.Newsletter.Button)
	require("newsletter.confirmation", s.Newsletter.Confirmation)

	for i, l := range s.Nav.Links {
		require(fmt.Sprintf("nav.links[%d].href", i), l.Href)
	}
	for i, step := range s.HowItWorks.Steps {
		require(fmt.Sprintf("how_it_works.steps[%d].title", i), step.Title)
	}
	for i, svc := range s.Services.Items {
		require(fmt.Sprintf("services.items[%d].name", i), svc.Name)
	}
	for i, t := range s.Testimonials.Items {
		require(fmt.Sprintf("testimonials.items[%d].quote", i), t.Quote)
		require(fmt.Sprintf("testimonials.items[%d].author", i), t.Author)
	}

	seen := make(map[string]bool, len(s.Brands.Items))
	for i, b := range s.Brands.Items {
		require(fmt.Sprintf("brands.items[%d].name", i), b.Name)
		key := strings.ToLower(b.Name)
		if b.Name != "" && seen[key] {
			problems = append(problems, fmt.Sprintf("brands.items[%d].name %q is duplicated", i, b.Name))
		}
		seen[key] = true
	}

	if len(problems) > 0 {
		return errors.New("L202").
			WithSource(s.Locale).
			WithDetail(strings.Join(problems, "; "))
	}
	return nil
}
