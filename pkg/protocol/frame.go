package protocol

import (
	"encoding/json"
	"fmt"
)

// ClientType is the type of a client→server frame.
type ClientType string

const (
	ClientHello  ClientType = "hello"
	ClientInput  ClientType = "input"
	ClientSubmit ClientType = "submit"
	ClientPing   ClientType = "ping"
)

// ServerType is the type of a server→client frame.
type ServerType string

const (
	ServerHello ServerType = "hello"
	ServerPatch ServerType = "patch"
	ServerError ServerType = "error"
	ServerPong  ServerType = "pong"
)

// ClientFrame is a frame sent by the browser.
type ClientFrame struct {
	Type   ClientType `json:"t"`
	Value  string     `json:"v,omitempty"`
	Locale string     `json:"l,omitempty"`
}

// ServerFrame is a frame sent to the browser.
type ServerFrame struct {
	Type    ServerType `json:"t"`
	Session string     `json:"sid,omitempty"`
	Patches []Patch    `json:"p,omitempty"`
	Code    ErrorCode  `json:"c,omitempty"`
	Message string     `json:"m,omitempty"`
}

// DecodeClient parses and validates a client frame.
func DecodeClient(data []byte) (ClientFrame, error) {
	var f ClientFrame
	if len(data) > MaxFrameSize {
		return f, ErrFrameTooLarge
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch f.Type {
	case ClientHello, ClientSubmit, ClientPing:
	case ClientInput:
		if len(f.Value) > MaxValueLength {
			return f, ErrValueTooLong
		}
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownFrame, f.Type)
	}
	return f, nil
}

// Encode marshals the frame.
func (f ServerFrame) Encode() ([]byte, error) {
	return json.Marshal(f)
}

// NewHello creates the session-accepted frame.
func NewHello(sessionID string) ServerFrame {
	return ServerFrame{Type: ServerHello, Session: sessionID}
}

// NewPatches creates a patch frame.
func NewPatches(patches []Patch) ServerFrame {
	return ServerFrame{Type: ServerPatch, Patches: patches}
}

// NewError creates an error frame.
func NewError(code ErrorCode, message string) ServerFrame {
	return ServerFrame{Type: ServerError, Code: code, Message: message}
}

// NewPong creates a pong frame.
func NewPong() ServerFrame {
	return ServerFrame{Type: ServerPong}
}
