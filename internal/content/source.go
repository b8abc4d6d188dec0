package content

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed data/*.yaml
var embedded embed.FS

// Source lists and reads locale documents.
type Source interface {
	// Name describes the source in logs and errors.
	Name() string

	// Locales returns the locales with a document, sorted.
	Locales(ctx context.Context) ([]string, error)

	// Read returns the raw document for locale. A missing document is an
	// error wrapping fs.ErrNotExist.
	Read(ctx context.Context, locale string) ([]byte, error)
}

// FSSource reads <locale>.yaml files from the root of an fs.FS.
type FSSource struct {
	name string
	fsys fs.FS
}

// Embedded returns the content compiled into the binary.
func Embedded() *FSSource {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return &FSSource{name: "embedded", fsys: sub}
}

// Dir returns a source reading from a directory on disk.
func Dir(dir string) *FSSource {
	return &FSSource{name: "dir:" + dir, fsys: os.DirFS(dir)}
}

// NewFSSource wraps an arbitrary filesystem.
func NewFSSource(name string, fsys fs.FS) *FSSource {
	return &FSSource{name: name, fsys: fsys}
}

func (s *FSSource) Name() string { return s.name }

func (s *FSSource) Locales(ctx context.Context) ([]string, error) {
	matches, err := fs.Glob(s.fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	locales := make([]string, 0, len(matches))
	for _, m := range matches {
		locales = append(locales, strings.TrimSuffix(m, ".yaml"))
	}
	sort.Strings(locales)
	return locales, nil
}

func (s *FSSource) Read(ctx context.Context, locale string) ([]byte, error) {
	if !validLocaleName(locale) {
		return nil, fmt.Errorf("read %q: %w", locale, fs.ErrNotExist)
	}
	return fs.ReadFile(s.fsys, locale+".yaml")
}

// validLocaleName rejects names that could escape the source root.
func validLocaleName(locale string) bool {
	if locale == "" || strings.ContainsAny(locale, `/\`) || locale != path.Clean(locale) {
		return false
	}
	return !strings.HasPrefix(locale, ".")
}
