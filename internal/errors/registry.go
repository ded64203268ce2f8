package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (E100-E199)
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid listen address",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "Log level must be one of debug, info, warn or error.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid environment configuration",
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Invalid snapshot configuration",
	},

	// Manifests (E200-E299)
	"E201": {
		Category: CategoryManifest,
		Message:  "Head manifest could not be read",
	},
	"E202": {
		Category: CategoryManifest,
		Message:  "Invalid head manifest",
	},
	"E203": {
		Category: CategoryManifest,
		Message:  "Unsupported head tag",
		Detail:   "Only title, meta, link, style, script, base and noscript can be managed.",
	},
	"E204": {
		Category: CategoryManifest,
		Message:  "Unknown component",
	},
	"E205": {
		Category: CategoryManifest,
		Message:  "Invalid attribute name",
		Detail:   "Attribute names start with a letter, '_' or ':' and contain only letters, digits, '-', '_', '.' or ':'.",
	},

	// Snapshots (E300-E399)
	"E301": {
		Category: CategorySnapshot,
		Message:  "Snapshot write failed",
	},
	"E302": {
		Category: CategorySnapshot,
		Message:  "Invalid snapshot key",
		Detail:   "Keys must be relative paths without '..' segments.",
	},

	// Protocol (E400-E499)
	"E401": {
		Category: CategoryProtocol,
		Message:  "Head frame encoding failed",
	},
	"E402": {
		Category: CategoryProtocol,
		Message:  "WebSocket upgrade failed",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
