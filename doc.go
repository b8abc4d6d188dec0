// Package landing serves the Wishlane marketing landing page.
//
// An App renders the page server-side from the content store, greets
// signed-in visitors and shows their cart count, and hosts the newsletter
// signup widget. Browsers with the live client (static/landing.js) keep a
// WebSocket session at /_live where the widget runs; without it the form
// posts to /newsletter and the response page carries the widget's state.
//
// Routes:
//
//	GET  /            landing page
//	POST /newsletter  form fallback for the newsletter widget
//	GET  /plans       redirect to the pricing page
//	GET  /_live       live newsletter session (WebSocket)
//	GET  /static/*    embedded assets
//	GET  /healthz     liveness and content status
//	GET  /metrics     Prometheus metrics (path configurable)
//
// Wiring:
//
//	store := content.NewStore(content.Embedded(), "en")
//	app, err := landing.New(landing.DefaultConfig(), landing.Deps{
//	    Content:       store,
//	    Authenticator: identity.NewCookieAuthenticator("wl_session", secret),
//	    Cart:          cart.CookieCounter{Name: "wl_cart"},
//	})
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
package landing
