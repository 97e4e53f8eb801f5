// Package anchor computes where a floating element should sit relative to
// its trigger.
//
// Compute is a pure function over rectangle snapshots: flip chooses the side
// with room, shift keeps the element inside the boundary, size reports how
// much room remains, and the arrow offset points back at the trigger. It
// holds no state, so resize and scroll handlers may call it on every event.
package anchor
