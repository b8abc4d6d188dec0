package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (L101-L199)

	"L101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "landing.json could not be parsed as JSON.",
	},
	"L102": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
	},
	"L103": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A WISHLANE_* environment variable could not be parsed.",
	},
	"L104": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"L105": {
		Category: CategoryConfig,
		Message:  "Configuration file not writable",
	},

	// Content (L201-L299)

	"L201": {
		Category: CategoryContent,
		Message:  "Content document invalid",
		Detail:   "The document could not be parsed as YAML.",
	},
	"L202": {
		Category: CategoryContent,
		Message:  "Content failed validation",
	},
	"L203": {
		Category: CategoryContent,
		Message:  "Content source unavailable",
	},
	"L204": {
		Category: CategoryContent,
		Message:  "Default locale missing",
		Detail:   "The content source has no document for the configured default locale.",
	},

	// Server (L301-L399)

	"L301": {
		Category: CategoryServer,
		Message:  "Server failed",
	},
	"L302": {
		Category: CategoryServer,
		Message:  "Live session rejected",
	},
	"L303": {
		Category: CategoryServer,
		Message:  "Telemetry setup failed",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns every registered code.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
