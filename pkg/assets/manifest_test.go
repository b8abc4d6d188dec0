package assets

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestFingerprint(t *testing.T) {
	fsys := fstest.MapFS{
		"landing.js":   {Data: []byte("console.log(1)")},
		"landing.css":  {Data: []byte("body{}")},
		"img/logo.svg": {Data: []byte("<svg/>")},
		"LICENSE":      {Data: []byte("MIT")},
	}

	m, err := Fingerprint(fsys)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if m.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", m.Len())
	}

	js := m.Resolve("landing.js")
	if !strings.HasPrefix(js, "landing.") || !strings.HasSuffix(js, ".js") || len(js) != len("landing.js")+hashLen+1 {
		t.Errorf("Resolve(landing.js) = %q", js)
	}
	if svg := m.Resolve("img/logo.svg"); !strings.HasPrefix(svg, "img/logo.") || !strings.HasSuffix(svg, ".svg") {
		t.Errorf("Resolve(img/logo.svg) = %q", svg)
	}
	if lic := m.Resolve("LICENSE"); !strings.HasPrefix(lic, "LICENSE.") {
		t.Errorf("Resolve(LICENSE) = %q", lic)
	}

	if src, ok := m.Source(js); !ok || src != "landing.js" {
		t.Errorf("Source(%q) = %q, %v", js, src, ok)
	}
	if _, ok := m.Source("landing.js"); ok {
		t.Error("Source of an unfingerprinted name succeeded")
	}
}

func TestFingerprintFollowsContent(t *testing.T) {
	a, _ := Fingerprint(fstest.MapFS{"app.css": {Data: []byte("a")}})
	b, _ := Fingerprint(fstest.MapFS{"app.css": {Data: []byte("a")}})
	c, _ := Fingerprint(fstest.MapFS{"app.css": {Data: []byte("b")}})

	if a.Resolve("app.css") != b.Resolve("app.css") {
		t.Error("same content produced different names")
	}
	if a.Resolve("app.css") == c.Resolve("app.css") {
		t.Error("different content produced the same name")
	}
}

func TestManifestResolve(t *testing.T) {
	m := NewManifest()
	m.Set("landing.js", "landing.abc123.js")
	m.Set("landing.css", "landing.def456.css")

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"found entry", "landing.js", "landing.abc123.js"},
		{"found entry css", "landing.css", "landing.def456.css"},
		{"missing entry returns original", "unknown.js", "unknown.js"},
		{"empty string returns empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Resolve(tt.source)
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.source, got, tt.expected)
			}
		})
	}
}

func TestManifestSetReplaces(t *testing.T) {
	m := NewManifest()
	m.Set("a.js", "a.111.js")
	m.Set("a.js", "a.222.js")

	if _, ok := m.Source("a.111.js"); ok {
		t.Error("stale fingerprint still resolves")
	}
	if src, ok := m.Source("a.222.js"); !ok || src != "a.js" {
		t.Errorf("Source(a.222.js) = %q, %v", src, ok)
	}
	if !m.Has("a.js") || m.Len() != 1 {
		t.Errorf("Has = %v, Len = %d", m.Has("a.js"), m.Len())
	}

	all := m.All()
	all["b.js"] = "x"
	if m.Len() != 1 {
		t.Error("All() returned the live map")
	}
}

func TestResolvers(t *testing.T) {
	m := NewManifest()
	m.Set("landing.js", "landing.abc12345.js")

	if got := NewResolver(m, "/static/").Asset("landing.js"); got != "/static/landing.abc12345.js" {
		t.Errorf("manifest resolver = %q", got)
	}
	if got := NewResolver(m, "/static/").Asset("other.js"); got != "/static/other.js" {
		t.Errorf("manifest resolver miss = %q", got)
	}
	if got := NewPassthroughResolver("/static/").Asset("landing.js"); got != "/static/landing.js" {
		t.Errorf("passthrough = %q", got)
	}
}
