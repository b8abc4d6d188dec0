package newsletter

import (
	"strings"
	"testing"
	"time"

	"github.com/wishlane/landing/pkg/reactive"
	"github.com/wishlane/landing/pkg/vdom"
	"github.com/wishlane/landing/pkg/vtest"
)

func newWidget(t *testing.T) (*Widget, *vtest.Ctx) {
	t.Helper()
	ctx := vtest.NewCtx()
	w := New(ctx, nil, Options{})
	t.Cleanup(w.Dispose)
	return w, ctx
}

func TestSubmitShowsConfirmationAndResetsAddress(t *testing.T) {
	inputs := []string{"a@b.com", "not-an-email", " ", "üñî@例え.jp"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			w, _ := newWidget(t)
			w.SetAddress(in)
			if !w.Submit() {
				t.Fatal("Submit() = false, want true")
			}
			if got := w.Message(); got != DefaultConfirmation {
				t.Errorf("Message() = %q, want %q", got, DefaultConfirmation)
			}
			if got := w.Address(); got != "" {
				t.Errorf("Address() = %q, want empty", got)
			}
		})
	}
}

func TestSubmitEmptyIsNoop(t *testing.T) {
	w, ctx := newWidget(t)

	if w.Submit() {
		t.Fatal("Submit() on empty address = true")
	}
	if w.Message() != "" || w.Address() != "" {
		t.Fatalf("state changed: message=%q address=%q", w.Message(), w.Address())
	}
	ctx.Advance(10 * time.Second)
	ctx.ExpectQuiet(t)

	html := vtest.RenderToString(w.Render())
	if strings.Contains(html, DefaultConfirmation) {
		t.Error("empty submit rendered a confirmation")
	}
	vtest.ExpectContains(t, w.Render(), `role="status"`)
	vtest.ExpectContains(t, w.Render(), " hidden ")
}

func TestMessageClearsAfterExactlyOneDelay(t *testing.T) {
	w, ctx := newWidget(t)
	w.SetAddress("a@b.com")
	w.Submit()

	ctx.Advance(DefaultDelay - time.Millisecond)
	ctx.ExpectQuiet(t)
	if w.Message() != DefaultConfirmation {
		t.Fatalf("message cleared early: %q", w.Message())
	}

	ctx.AdvanceAndRun(t, time.Millisecond, 1)
	if got := w.Message(); got != "" {
		t.Fatalf("Message() = %q after delay, want empty", got)
	}
}

func TestTypeSubmitRender(t *testing.T) {
	w, _ := newWidget(t)
	w.SetAddress("a@b.com")
	vtest.ExpectAttribute(t, w.Render(), "value", "a@b.com")

	w.Submit()
	node := w.Render()
	vtest.ExpectText(t, node, MessageID, DefaultConfirmation)
	if v := node.FindByID(InputID).Props["value"]; v != "" {
		t.Errorf("input value = %v, want empty", v)
	}
	if _, hidden := node.FindByID(MessageID).Props["hidden"]; hidden {
		t.Error("message should be visible after submit")
	}
}

func TestTwoSubmissionsEachClear(t *testing.T) {
	w, ctx := newWidget(t)

	w.SetAddress("first@b.com")
	w.Submit()
	ctx.AdvanceAndRun(t, DefaultDelay, 1)
	if w.Message() != "" {
		t.Fatalf("first message not cleared: %q", w.Message())
	}

	w.SetAddress("second@b.com")
	w.Submit()
	if w.Message() != DefaultConfirmation {
		t.Fatalf("second message = %q", w.Message())
	}
	ctx.AdvanceAndRun(t, DefaultDelay, 1)
	if w.Message() != "" {
		t.Fatalf("second message not cleared: %q", w.Message())
	}
	if n := ctx.Ran(); n != 2 {
		t.Errorf("callbacks ran = %d, want 2", n)
	}
}

func TestResubmitRestartsDelay(t *testing.T) {
	w, ctx := newWidget(t)

	w.SetAddress("a@b.com")
	w.Submit()
	ctx.Advance(2 * time.Second)

	w.SetAddress("c@d.com")
	w.Submit()

	// The first timer would have fired here; it was cancelled by the resubmit.
	ctx.Advance(time.Second)
	ctx.ExpectQuiet(t)
	if w.Message() != DefaultConfirmation {
		t.Fatalf("message cleared by the superseded timer")
	}

	ctx.AdvanceAndRun(t, 2*time.Second, 1)
	if w.Message() != "" {
		t.Fatalf("Message() = %q, want empty", w.Message())
	}
}

func TestDisposeCancelsClear(t *testing.T) {
	ctx := vtest.NewCtx()
	w := New(ctx, nil, Options{})

	w.SetAddress("a@b.com")
	w.Submit()
	w.Dispose()

	ctx.Advance(DefaultDelay * 2)
	ctx.ExpectQuiet(t)
	if ctx.Ran() != 0 {
		t.Fatal("clear ran after dispose")
	}

	// Calls after dispose are ignored.
	w.SetAddress("x@y.z")
	if w.Submit() {
		t.Error("Submit() after Dispose = true")
	}
}

func TestDisposeAfterQueuedClear(t *testing.T) {
	ctx := vtest.NewCtx()
	w := New(ctx, nil, Options{})

	w.SetAddress("a@b.com")
	w.Submit()
	ctx.Advance(DefaultDelay)
	vtest.WaitFor(t, func() bool { return ctx.Pending() == 1 })

	w.Dispose()
	ctx.Run()
	if w.Message() != DefaultConfirmation {
		t.Errorf("queued clear ran on a disposed widget")
	}
}

func TestParentDisposeCancelsClear(t *testing.T) {
	ctx := vtest.NewCtx()
	parent := reactive.NewOwner(nil)
	w := New(ctx, parent, Options{})

	w.SetAddress("a@b.com")
	w.Submit()
	parent.Dispose()

	if !w.Disposed() {
		t.Fatal("widget should be disposed with its parent")
	}
	ctx.Advance(DefaultDelay)
	ctx.ExpectQuiet(t)
}

func TestOptions(t *testing.T) {
	ctx := vtest.NewCtx()
	w := New(ctx, nil, Options{
		Confirmation: "¡Gracias!",
		Delay:        time.Second,
		Copy: Copy{
			Heading:     "Stay in the loop",
			Placeholder: "you@example.com",
			Button:      "Join",
			Action:      "/newsletter",
		},
	})
	defer w.Dispose()

	node := w.Render()
	vtest.ExpectContains(t, node, "Stay in the loop")
	vtest.ExpectAttribute(t, node, "action", "/newsletter")
	vtest.ExpectAttribute(t, node, "placeholder", "you@example.com")
	vtest.ExpectContains(t, node, ">Join</button>")
	vtest.ExpectContains(t, node, `<input autocomplete="email" id="newsletter-email" name="email" placeholder="you@example.com" required type="email" value="">`)

	w.SetAddress("a@b.com")
	w.Submit()
	if w.Message() != "¡Gracias!" {
		t.Errorf("Message() = %q", w.Message())
	}
	ctx.AdvanceAndRun(t, time.Second, 1)
	if w.Message() != "" {
		t.Errorf("custom delay not honored")
	}
}

func TestRenderDiffAfterSubmit(t *testing.T) {
	w, _ := newWidget(t)
	w.SetAddress("a@b.com")
	before := w.Render()

	w.Submit()
	patches := vdom.Diff(before, w.Render())

	var sawValue, sawText, sawUnhide bool
	for _, p := range patches {
		switch {
		case p.Op == vdom.PatchSetValue && p.Target == InputID && p.Value == "":
			sawValue = true
		case p.Op == vdom.PatchSetText && p.Target == MessageID && p.Value == DefaultConfirmation:
			sawText = true
		case p.Op == vdom.PatchRemoveAttr && p.Target == MessageID && p.Key == "hidden":
			sawUnhide = true
		}
	}
	if !sawValue || !sawText || !sawUnhide {
		t.Errorf("patches = %+v", patches)
	}
}
