package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state of one goroutine.
type trackingContext struct {
	// currentOwner owns effects created on this goroutine.
	currentOwner *Owner

	// currentListener subscribes to signals read on this goroutine.
	// nil means reads are untracked.
	currentListener Listener

	// batchDepth counts nested Batch calls.
	batchDepth int

	// pendingUpdates collects listeners to notify when the outermost batch ends.
	pendingUpdates []Listener
}

var trackingContexts sync.Map

// goroutineID parses the current goroutine id from the runtime stack header
// ("goroutine <id> [...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// lookupTrackingContext returns the current goroutine's context, or nil when
// the goroutine holds no reactive state. It never allocates an entry.
func lookupTrackingContext() *trackingContext {
	if ctx, ok := trackingContexts.Load(goroutineID()); ok {
		return ctx.(*trackingContext)
	}
	return nil
}

func getTrackingContext() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

func (ctx *trackingContext) empty() bool {
	return ctx.currentOwner == nil && ctx.currentListener == nil && ctx.batchDepth == 0 && len(ctx.pendingUpdates) == 0
}

// releaseTrackingContext drops the tracking context of the current goroutine
// once it holds no state. Every setter calls it, so an entry lives only while
// an owner, listener or batch is active on the goroutine.
func releaseTrackingContext() {
	gid := goroutineID()
	v, ok := trackingContexts.Load(gid)
	if !ok {
		return
	}
	if v.(*trackingContext).empty() {
		trackingContexts.Delete(gid)
	}
}

// trackingContextCount reports how many goroutines hold reactive state.
func trackingContextCount() int {
	n := 0
	trackingContexts.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func getCurrentListener() Listener {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentListener
	}
	return nil
}

func setCurrentListener(l Listener) Listener {
	if l == nil {
		ctx := lookupTrackingContext()
		if ctx == nil {
			return nil
		}
		old := ctx.currentListener
		ctx.currentListener = nil
		releaseTrackingContext()
		return old
	}
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func getCurrentOwner() *Owner {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentOwner
	}
	return nil
}

func setCurrentOwner(o *Owner) *Owner {
	if o == nil {
		ctx := lookupTrackingContext()
		if ctx == nil {
			return nil
		}
		old := ctx.currentOwner
		ctx.currentOwner = nil
		releaseTrackingContext()
		return old
	}
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

func getBatchDepth() int {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.batchDepth
	}
	return 0
}

func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// WithOwner runs fn with owner as the owner of any effect created inside it.
//
//	reactive.WithOwner(widgetOwner, func() {
//	    reactive.CreateEffect(...)
//	})
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// Untracked runs fn without subscribing the current listener to the signals
// it reads.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
