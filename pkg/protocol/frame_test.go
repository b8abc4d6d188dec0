package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/wishlane/landing/pkg/render"
	"github.com/wishlane/landing/pkg/vdom"
)

func TestDecodeClient(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ClientFrame
		wantErr error
	}{
		{"input", `{"t":"input","v":"a@b.com"}`, ClientFrame{Type: ClientInput, Value: "a@b.com"}, nil},
		{"submit", `{"t":"submit"}`, ClientFrame{Type: ClientSubmit}, nil},
		{"hello with locale", `{"t":"hello","l":"es"}`, ClientFrame{Type: ClientHello, Locale: "es"}, nil},
		{"ping", `{"t":"ping"}`, ClientFrame{Type: ClientPing}, nil},
		{"unknown type", `{"t":"delete"}`, ClientFrame{}, ErrUnknownFrame},
		{"missing type", `{}`, ClientFrame{}, ErrUnknownFrame},
		{"not json", `{"t":`, ClientFrame{}, ErrMalformedFrame},
		{"value too long", `{"t":"input","v":"` + strings.Repeat("x", MaxValueLength+1) + `"}`, ClientFrame{}, ErrValueTooLong},
		{"frame too large", strings.Repeat(" ", MaxFrameSize+1), ClientFrame{}, ErrFrameTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClient([]byte(tt.in))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestServerFrameEncode(t *testing.T) {
	data, err := NewPatches([]Patch{{Op: OpValue, Target: "email"}}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != `{"t":"patch","p":[{"op":"value","id":"email"}]}` {
		t.Errorf("got %s", got)
	}

	data, err = NewError(ErrRateLimited, "slow down").Encode()
	if err != nil {
		t.Fatal(err)
	}
	var back ServerFrame
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Type != ServerError || back.Code != ErrRateLimited || back.Message != "slow down" {
		t.Errorf("decoded %+v", back)
	}
}

func TestEncodePatches(t *testing.T) {
	r := render.NewRenderer(render.RendererConfig{})
	patches := []vdom.Patch{
		{Op: vdom.PatchSetText, Target: "msg", Value: "Thanks"},
		{Op: vdom.PatchSetAttr, Target: "msg", Key: "role", Value: "status"},
		{Op: vdom.PatchRemoveAttr, Target: "msg", Key: "hidden"},
		{Op: vdom.PatchSetValue, Target: "email", Key: "value"},
		{Op: vdom.PatchReplaceNode, Target: "box", Node: vdom.Div(vdom.ID("box"), "x")},
	}

	got, err := EncodePatches(r, patches)
	if err != nil {
		t.Fatal(err)
	}
	wantOps := []string{OpText, OpAttr, OpRemove, OpValue, OpReplace}
	for i, op := range wantOps {
		if got[i].Op != op {
			t.Errorf("patch[%d].Op = %q, want %q", i, got[i].Op, op)
		}
	}
	if got[4].HTML != `<div id="box">x</div>` {
		t.Errorf("replacement HTML = %q", got[4].HTML)
	}

	if _, err := EncodePatches(r, []vdom.Patch{{Op: vdom.PatchOp(0x42)}}); err == nil {
		t.Error("expected error for unsupported op")
	}
}

func TestErrorCodeFatal(t *testing.T) {
	if ErrRateLimited.IsFatal() {
		t.Error("rate limiting should not close the connection")
	}
	if !ErrSessionExpired.IsFatal() {
		t.Error("expired sessions should close the connection")
	}
	if ErrHandlerPanic.String() != "HandlerPanic" {
		t.Errorf("String() = %q", ErrHandlerPanic.String())
	}
}
