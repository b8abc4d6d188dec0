// Package errors provides structured, coded errors for configuration,
// content loading and serving.
//
// Errors are created from a registered code and decorated fluently:
//
//	err := errors.New("L104").
//	    WithDetail("session.max_sessions must be positive").
//	    WithSuggestion("Remove the key to use the default of 10000")
//
// Codes are grouped by range:
//
//	L101-L199  configuration
//	L201-L299  content
//	L301-L399  server and live sessions
//
// Format renders an error for the terminal; the CLI prints every returned
// error with PrintError.
package errors
