package reactive

// Batch groups signal writes so every affected listener is notified once,
// when the outermost batch returns.
//
//	reactive.Batch(func() {
//	    address.Set("")
//	    message.Set(confirmation)
//	})
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			updates := ctx.pendingUpdates
			ctx.pendingUpdates = nil
			notifyUnique(updates)
			releaseTrackingContext()
		}
	}()

	fn()
}

// notifyUnique marks each listener dirty once, in first-seen order.
func notifyUnique(updates []Listener) {
	if len(updates) == 0 {
		return
	}
	seen := make(map[uint64]bool, len(updates))
	for _, l := range updates {
		id := l.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		l.MarkDirty()
	}
}
