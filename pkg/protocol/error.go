package protocol

import "errors"

// ErrorCode identifies the type of error sent to the client.
type ErrorCode uint16

const (
	ErrUnknown        ErrorCode = 0x0000 // Unknown error
	ErrInvalidFrame   ErrorCode = 0x0001 // Malformed frame
	ErrHandlerPanic   ErrorCode = 0x0004 // Handler panicked
	ErrSessionExpired ErrorCode = 0x0005 // Session no longer valid
	ErrRateLimited    ErrorCode = 0x0006 // Too many events
	ErrServerError    ErrorCode = 0x0007 // Internal server error
	ErrNotAuthorized  ErrorCode = 0x0008 // Origin rejected
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrHandlerPanic:
		return "HandlerPanic"
	case ErrSessionExpired:
		return "SessionExpired"
	case ErrRateLimited:
		return "RateLimited"
	case ErrServerError:
		return "ServerError"
	case ErrNotAuthorized:
		return "NotAuthorized"
	default:
		return "Unknown"
	}
}

// IsFatal reports whether the connection is closed after this error.
func (ec ErrorCode) IsFatal() bool {
	switch ec {
	case ErrSessionExpired, ErrNotAuthorized, ErrServerError:
		return true
	default:
		return false
	}
}

// Decoding errors.
var (
	ErrFrameTooLarge  = errors.New("protocol: frame too large")
	ErrUnknownFrame   = errors.New("protocol: unknown frame type")
	ErrValueTooLong   = errors.New("protocol: input value too long")
	ErrMalformedFrame = errors.New("protocol: malformed frame")
)
