// Package assets maps static asset names to content-fingerprinted names.
//
// Fingerprint hashes every file of an fs.FS at startup and records
//
//	"landing.css"  -> "landing.3f2a9c1d0b7e4a55.css"
//	"img/logo.svg" -> "img/logo.91c0d6e2aa04b3f7.svg"
//
// Pages link the fingerprinted name, which browsers may cache forever; the
// static handler maps a request for it back to the file with Source.
//
//	manifest, _ := assets.Fingerprint(static)
//	resolver := assets.NewResolver(manifest, "/static/")
//	resolver.Asset("landing.js") // "/static/landing.5d41402abc4b2a76.js"
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// hashLen is the number of hex characters of the SHA-256 sum kept in a
// fingerprinted name.
const hashLen = 16

// Manifest holds the mapping from source asset paths to fingerprinted paths.
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
	reverse map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
		reverse: make(map[string]string),
	}
}

// Fingerprint builds a manifest for every regular file in fsys.
func Fingerprint(fsys fs.FS) (*Manifest, error) {
	m := NewManifest()
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		sum, err := hashFile(fsys, name)
		if err != nil {
			return err
		}
		m.Set(name, fingerprintName(name, sum))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fingerprint assets: %w", err)
	}
	return m, nil
}

func hashFile(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:hashLen], nil
}

// fingerprintName inserts sum before the extension of name.
func fingerprintName(name, sum string) string {
	ext := path.Ext(name)
	if ext == "" || ext == name || strings.HasSuffix(name, "/"+ext) {
		return name + "." + sum
	}
	return strings.TrimSuffix(name, ext) + "." + sum + ext
}

// Resolve returns the fingerprinted path for source, or source unchanged
// when it is not in the manifest.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Source maps a fingerprinted path back to the file it names.
func (m *Manifest) Source(resolved string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source, ok := m.reverse[resolved]
	return source, ok
}

// Has returns true if the manifest contains the given source path.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[source]; ok {
		delete(m.reverse, old)
	}
	m.entries[source] = resolved
	m.reverse[resolved] = source
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// All returns a copy of all manifest entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}
