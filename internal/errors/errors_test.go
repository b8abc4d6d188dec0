package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"config error", "L101", "Invalid configuration file", CategoryConfig},
		{"content error", "L202", "Content failed validation", CategoryContent},
		{"server error", "L302", "Live session rejected", CategoryServer},
		{"unknown error code", "L999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("L104").WithSource("session.max_sessions").WithDetail("must be positive")
	want := "L104: Invalid configuration value (session.max_sessions): must be positive"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("L102").Wrap(fs.ErrNotExist)
	if !strings.HasSuffix(wrapped.Error(), fs.ErrNotExist.Error()) {
		t.Errorf("Error() = %q, want cause suffix", wrapped.Error())
	}
}

func TestWrapAndIs(t *testing.T) {
	err := fmt.Errorf("load: %w", New("L203").Wrap(fs.ErrPermission))

	if !stderrors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if !HasCode(err, "L203") {
		t.Error("HasCode(L203) = false")
	}
	if HasCode(err, "L201") {
		t.Error("HasCode(L201) = true")
	}

	var e *Error
	if !stderrors.As(err, &e) || e.Code != "L203" {
		t.Errorf("errors.As = %v", e)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "L301") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("L202")
	if got := FromError(fmt.Errorf("ctx: %w", orig), "L301"); got != orig {
		t.Error("FromError should return the existing *Error")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "L301")
	if got.Code != "L301" || !stderrors.Is(got, plain) {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("L104").
		WithSource("landing.json").
		WithDetail("content.source must be one of embedded, file, s3").
		WithSuggestion(`Set "source": "embedded"`)
	out := err.Format()

	for _, want := range []string{
		"ERROR L104: Invalid configuration value",
		"at landing.json",
		"content.source must be one of embedded, file, s3",
		`hint: Set "source": "embedded"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "landing.json: L104: Invalid configuration value" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, fmt.Errorf("wrapped: %w", New("L201")))
	if !strings.Contains(buf.String(), "ERROR L201") {
		t.Errorf("PrintError() = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("PrintError() = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	want := []string{"one two", "three", "four five"}
	if len(lines) != len(want) {
		t.Fatalf("wrapText() = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRegistryCodesAreCategorized(t *testing.T) {
	for _, code := range Codes() {
		tmpl, _ := Lookup(code)
		if tmpl.Category == "" || tmpl.Message == "" {
			t.Errorf("%s has no category or message", code)
		}
	}
}
