// Package content loads the landing page copy: navigation, hero, steps,
// services, testimonials, brands, newsletter text, call to action and
// footer.
//
// Each locale is one YAML document named <locale>.yaml. A Source lists and
// reads documents; the built-in sources are the embedded defaults, a
// directory on disk and an S3 bucket. A Store parses and validates every
// locale from its source into an immutable Snapshot and swaps snapshots
// atomically, so a failed reload leaves the previous snapshot serving.
package content
