// Package config loads the landing service configuration.
//
// Configuration is read in three layers, later layers winning:
//
//  1. built-in defaults (New)
//  2. landing.json, when a path is given
//  3. WISHLANE_* environment variables
//
// Durations are written as Go duration strings ("3s", "5m") in both JSON
// and the environment. Load validates the result; Runtime converts it into
// the landing.Config consumed by the server.
//
// # Environment
//
// Every key has an environment variable built from its JSON path, for
// example:
//
//	WISHLANE_SERVER_ADDR=:9090
//	WISHLANE_CONTENT_SOURCE=s3
//	WISHLANE_CONTENT_BUCKET=wishlane-content
//	WISHLANE_NEWSLETTER_CONFIRMATION_DELAY=3s
//	WISHLANE_AUTH_SECRET=...
package config
