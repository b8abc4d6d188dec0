package reactive

import "sync/atomic"

// Listener is anything that can be notified when a dependency changes.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier used for deduplication in batches.
	ID() uint64
}

// Cleanup is returned by effects and timers to release what they hold.
// It is called before an effect re-runs and when its owner is disposed.
type Cleanup func()

var globalIDCounter uint64

// nextID returns the next unique ID for a reactive primitive.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
