// Package protocol defines the JSON frames exchanged with the browser over
// the live WebSocket connection.
//
// # Client frames
//
//   - hello: first frame after connecting; carries the page locale
//   - input: the current value of the email field
//   - submit: the form was submitted
//   - ping: keepalive, answered with pong
//
// # Server frames
//
//   - hello: session accepted; carries the session id
//   - patch: DOM operations addressed by element id
//   - error: a typed error; fatal errors are followed by close
//   - pong: reply to ping
//
// Frames are small JSON objects with one-letter field names:
//
//	{"t":"input","v":"a@b.com"}
//	{"t":"patch","p":[{"op":"value","id":"newsletter-email","v":""}]}
package protocol
