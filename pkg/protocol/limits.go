package protocol

const (
	// MaxFrameSize bounds a single client frame in bytes.
	MaxFrameSize = 4 << 10

	// MaxValueLength bounds the value of an input frame in bytes.
	MaxValueLength = 1 << 10
)
