package landing

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

//go:embed static
var embeddedStatic embed.FS

// Assets returns the embedded static files: the live client script, the
// stylesheet and the images referenced by the default content.
func Assets() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// staticRelPath returns a sanitized path inside the static FS for a request
// path under StaticPrefix. It rejects traversal and absolute-path tricks.
func staticRelPath(urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, StaticPrefix) {
		return "", false
	}
	rel := strings.TrimPrefix(urlPath, StaticPrefix)
	if rel == "" {
		return "", false
	}

	// NUL can arrive as %00.
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// "/static//etc/passwd" leaves "/etc/passwd" after stripping.
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Dot segments are rejected before cleaning so that cleaning cannot
	// change what the request names.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// serveStatic serves one file from the static FS.
func (a *App) serveStatic(w http.ResponseWriter, r *http.Request) {
	requested, ok := staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	rel := requested
	if a.manifest != nil {
		if source, ok := a.manifest.Source(requested); ok {
			rel = source
		}
	}

	f, err := a.static.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	a.applyCacheHeaders(w, requested)
	for key, value := range a.config.Static.Headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, rel, info.ModTime(), rs)
}

// applyCacheHeaders applies the configured Cache-Control policy.
func (a *App) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	switch a.config.Static.CacheControl {
	case CacheControlNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	case CacheControlProduction:
		if isFingerprinted(filePath) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// isFingerprinted reports whether the file name carries a content hash,
// e.g. "landing.a1b2c3d4.css".
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}

	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
