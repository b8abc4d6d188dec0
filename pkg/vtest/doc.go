// Package vtest provides testing helpers for sections and live widgets.
//
// # Render assertions
//
//	vtest.ExpectContains(t, sections.Hero(site.Hero), "Plan the perfect gift")
//	vtest.ExpectAttribute(t, w.Render(), "id", "newsletter-email")
//
// # Virtual time
//
// Ctx implements reactive.Ctx over a mock clock. Dispatched callbacks are
// queued and run on the test goroutine, the way the live session runs them
// on its event loop:
//
//	ctx := vtest.NewCtx()
//	w := newsletter.New(ctx, nil, newsletter.Options{})
//	w.SetAddress("a@b.com")
//	w.Submit()
//	ctx.AdvanceAndRun(t, 3*time.Second, 1)
package vtest
