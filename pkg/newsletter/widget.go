package newsletter

import (
	"log/slog"
	"time"

	"github.com/wishlane/landing/pkg/reactive"
	"github.com/wishlane/landing/pkg/vdom"
)

const (
	// DefaultConfirmation is shown after a successful submit.
	DefaultConfirmation = "Thanks for subscribing!"

	// DefaultDelay is how long the confirmation stays visible.
	DefaultDelay = 3 * time.Second
)

// Element ids used by the live client to address patches.
const (
	RootID    = "newsletter"
	FormID    = "newsletter-form"
	InputID   = "newsletter-email"
	MessageID = "newsletter-message"
)

// Copy is the static text around the form.
type Copy struct {
	Heading     string
	Body        string
	Label       string
	Placeholder string
	Button      string
	// Action is the form's fallback POST target for browsers without the
	// live client.
	Action string
}

// Options configures a Widget.
type Options struct {
	Confirmation string
	Delay        time.Duration
	Copy         Copy
	Logger       *slog.Logger
}

// confirmation carries a submit counter so that two submissions with the
// same text are distinct values and each restarts the clear timer.
type confirmation struct {
	Text string
	Seq  uint64
}

// Widget is one mounted newsletter form. It is not safe for concurrent
// use; the live session serializes all calls on its event loop.
type Widget struct {
	ctx    reactive.Ctx
	owner  *reactive.Owner
	opts   Options
	logger *slog.Logger

	address *reactive.Signal[string]
	message *reactive.Signal[confirmation]
	seq     uint64
}

// New mounts a widget under parent (which may be nil). Timers it schedules
// are dispatched through ctx.
func New(ctx reactive.Ctx, parent *reactive.Owner, opts Options) *Widget {
	if opts.Confirmation == "" {
		opts.Confirmation = DefaultConfirmation
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Copy.Button == "" {
		opts.Copy.Button = "Subscribe"
	}
	if opts.Copy.Label == "" {
		opts.Copy.Label = "Email address"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w := &Widget{
		ctx:     ctx,
		owner:   reactive.NewOwner(parent),
		opts:    opts,
		logger:  logger.With("component", "newsletter"),
		address: reactive.NewSignal(""),
		message: reactive.NewSignal(confirmation{}),
	}

	reactive.WithOwner(w.owner, func() {
		reactive.CreateEffect(w.scheduleClear)
	})
	return w
}

// scheduleClear re-runs whenever the confirmation changes. Returning the
// timer's cleanup cancels it on the next change and on Dispose.
func (w *Widget) scheduleClear() reactive.Cleanup {
	msg := w.message.Get()
	if msg.Text == "" {
		return nil
	}
	seq := msg.Seq
	return reactive.Timeout(w.ctx, w.opts.Delay, func() {
		w.clear(seq)
	})
}

func (w *Widget) clear(seq uint64) {
	if w.owner.IsDisposed() || w.message.Peek().Seq != seq {
		return
	}
	w.message.Set(confirmation{Seq: seq})
	w.owner.RunPendingEffects()
}

// SetAddress replaces the address text. Any value is accepted.
func (w *Widget) SetAddress(value string) {
	if w.owner.IsDisposed() {
		return
	}
	w.address.Set(value)
	w.owner.RunPendingEffects()
}

// Submit shows the confirmation and resets the address when the address is
// non-empty, and reports whether it did. An empty address is a no-op.
func (w *Widget) Submit() bool {
	if w.owner.IsDisposed() || w.address.Peek() == "" {
		return false
	}

	w.seq++
	reactive.Batch(func() {
		w.message.Set(confirmation{Text: w.opts.Confirmation, Seq: w.seq})
		w.address.Set("")
	})
	w.owner.RunPendingEffects()

	w.logger.Debug("subscription confirmed", "seq", w.seq, "clear_after", w.opts.Delay)
	return true
}

// Address returns the current address text.
func (w *Widget) Address() string {
	return w.address.Peek()
}

// Message returns the confirmation currently shown, or "".
func (w *Widget) Message() string {
	return w.message.Peek().Text
}

// Dispose unmounts the widget and cancels a pending clear.
func (w *Widget) Dispose() {
	w.owner.Dispose()
}

// Disposed reports whether Dispose has been called.
func (w *Widget) Disposed() bool {
	return w.owner.IsDisposed()
}

// Render returns the widget's markup for its current state.
func (w *Widget) Render() *vdom.VNode {
	c := w.opts.Copy
	msg := w.Message()

	return vdom.Section(vdom.ID(RootID), vdom.Class("newsletter"),
		vdom.If(c.Heading != "", vdom.H2(vdom.Class("newsletter-heading"), c.Heading)),
		vdom.If(c.Body != "", vdom.P(vdom.Class("newsletter-body"), c.Body)),
		vdom.Form(
			vdom.ID(FormID),
			vdom.Class("newsletter-form"),
			vdom.Method("post"),
			actionAttr(c.Action),
			vdom.Data("live", "newsletter"),
			vdom.Label(vdom.For(InputID), vdom.Class("visually-hidden"), c.Label),
			vdom.Input(
				vdom.ID(InputID),
				vdom.Type("email"),
				vdom.Name("email"),
				vdom.Required(),
				vdom.Autocomplete("email"),
				vdom.Placeholder(c.Placeholder),
				vdom.Value(w.Address()),
			),
			vdom.Button(vdom.Type("submit"), vdom.Class("button", "button-primary"), c.Button),
		),
		vdom.P(
			vdom.ID(MessageID),
			vdom.Class("newsletter-message"),
			vdom.Role("status"),
			vdom.AriaLive("polite"),
			vdom.Hidden(msg == ""),
			vdom.Text(msg),
		),
	)
}

func actionAttr(action string) vdom.Attr {
	if action == "" {
		return vdom.Attr{}
	}
	return vdom.Action(action)
}
