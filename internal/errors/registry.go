package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Construction Errors (E001-E019)
	// ============================================

	"E001": {
		Category:   CategoryConfig,
		Message:    "Missing document",
		Detail:     "Every engine component is scoped to a document; a nil document leaves it with no event source or clock.",
		Suggestion: "Create one with dom.NewDocument() and pass it to the constructor.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e001",
	},
	"E002": {
		Category:   CategoryConfig,
		Message:    "Missing trigger element",
		Detail:     "An overlay is positioned relative to its trigger; without one there is nothing to anchor to or toggle from.",
		Suggestion: "Pass the element whose interaction opens the overlay.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e002",
	},
	"E003": {
		Category:   CategoryConfig,
		Message:    "Missing floating element",
		Detail:     "The floating element is the overlay content being positioned; it must exist before the overlay is constructed.",
		Suggestion: "Pass the element that should float next to the trigger.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e003",
	},
	"E004": {
		Category:   CategoryConfig,
		Message:    "Missing container element",
		Detail:     "Focus traps and roving navigators operate on the descendants of a container; a nil container gives them nothing to scan.",
		Suggestion: "Pass the element whose subtree should be managed.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e004",
	},
	"E005": {
		Category:   CategoryConfig,
		Message:    "Missing item selector",
		Detail:     "A roving navigator builds its roster from elements matching the item selector.",
		Suggestion: "Pass the selector that identifies navigable items, e.g. \"menu-item\".",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e005",
	},

	// ============================================
	// Lifecycle Errors (E020-E039)
	// ============================================

	"E020": {
		Category:   CategoryLifecycle,
		Message:    "Duplicate overlay binding",
		Detail:     "An overlay with this binding id already exists in the session.",
		Suggestion: "Destroy the existing binding first, or use a fresh id.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e020",
	},
	"E021": {
		Category:   CategoryLifecycle,
		Message:    "Unknown overlay binding",
		Detail:     "No overlay with this binding id exists in the session.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e021",
	},
	"E022": {
		Category:   CategoryLifecycle,
		Message:    "Unknown element reference",
		Detail:     "The referenced element id has not been announced through a geometry update.",
		Suggestion: "Send geometry for an element before binding or targeting it.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e022",
	},

	// ============================================
	// Protocol Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryProtocol,
		Message:  "WebSocket upgrade failed",
		Detail:   "The HTTP connection could not be upgraded to a WebSocket.",
		DocURL:   "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e040",
	},
	"E041": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
		Detail:   "A received frame could not be decoded.",
		DocURL:   "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e041",
	},
	"E042": {
		Category:   CategoryProtocol,
		Message:    "Unsupported protocol version",
		Detail:     "The client's protocol version does not match the server's.",
		Suggestion: "Upgrade the client to the protocol version this server speaks.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e042",
	},
	"E043": {
		Category:   CategoryProtocol,
		Message:    "Session limit reached",
		Detail:     "The server is at its configured maximum number of concurrent sessions.",
		Suggestion: "Raise session.maxSessions in buoy.json or retry later.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e043",
	},

	// ============================================
	// Configuration File Errors (E060-E079)
	// ============================================

	"E060": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Detail:     "buoy.json exists but could not be parsed.",
		Suggestion: "Check the file for JSON syntax errors.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e060",
	},
	"E061": {
		Category:   CategoryConfig,
		Message:    "Invalid listen address",
		Detail:     "The configured address is not a valid host:port.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e061",
	},
	"E062": {
		Category:   CategoryConfig,
		Message:    "Invalid log level",
		Detail:     "The configured log level is not one of debug, info, warn, error.",
		DocURL:     "https://github.com/buoy-ui/buoy/blob/main/docs/errors.md#e062",
	},
}
