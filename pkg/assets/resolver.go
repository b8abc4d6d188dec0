package assets

// Resolver turns an asset name into the URL pages link to.
type Resolver interface {
	// Asset resolves a source asset path to its URL path, e.g.
	// "landing.js" to "/static/landing.5d41402abc4b2a76.js".
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver that links fingerprinted names under
// prefix.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   prefix,
	}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

// passthrough returns assets unchanged (for development mode).
type passthrough struct {
	prefix string
}

// NewPassthroughResolver links the plain names under prefix. Dev mode uses
// it together with disabled caching.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}
