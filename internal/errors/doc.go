// Package errors provides structured, actionable error messages for buoy.
//
// Construction-time misconfiguration is fatal and immediate in this engine:
// a missing trigger, floating element, or container makes every later call
// meaningless, so the constructors return a coded error instead of degrading
// silently. Each error carries a stable code callers can match on, a plain
// explanation, and where it helps, a fix suggestion.
//
// # Error Categories
//
//   - config: misconfiguration at construction time or in buoy.json
//   - lifecycle: misuse of a live instance (duplicate bindings, stale ids)
//   - protocol: wire protocol errors (invalid frames, version mismatch)
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("E002").
//	    WithDetail("overlay %q has no trigger", id)
//
//	fmt.Println(err.Format())
//	// ERROR E002: Missing trigger element
//	//   category: config
//	//
//	//   overlay "menu" has no trigger
//	//
//	//   hint: Pass the element whose interaction opens the overlay.
package errors
