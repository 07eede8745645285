package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Diff / apply errors (E100-E119)
	// ============================================

	"E101": {
		Category: CategoryDiff,
		Message:  "Thunk did not return a valid node",
	},
	"E102": {
		Category: CategoryApply,
		Message:  "Patch cycle already in progress",
		Detail:   "A tree accepts one diff/patch cycle at a time. Wait for the running Update to return.",
	},
	"E103": {
		Category: CategoryApply,
		Message:  "Failed to mount tree",
	},
	"E104": {
		Category: CategoryApply,
		Message:  "Failed to apply patch set",
		Detail:   "The live tree may be partially patched. Remount it from the current virtual tree.",
	},

	// ============================================
	// Config errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},

	// ============================================
	// Document errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryDocument,
		Message:  "Invalid tree document",
	},

	// ============================================
	// Storage errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryStorage,
		Message:  "Snapshot not found",
	},
	"E161": {
		Category: CategoryStorage,
		Message:  "Snapshot store failure",
	},

	// ============================================
	// Protocol errors (E170-E179)
	// ============================================

	"E170": {
		Category: CategoryProtocol,
		Message:  "Malformed patch frame",
	},

	// ============================================
	// CLI errors (E180-E189)
	// ============================================

	"E180": {
		Category: CategoryCLI,
		Message:  "Invalid command input",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
