// Package remote runs the interaction engine behind a WebSocket, for hosts
// that render in one process and decide in another.
//
// The division of labor mirrors the embedded API: the host owns pixels and
// real input, the engine owns decisions. A remote host streams element
// geometry and input events to the server; the server mirrors the elements
// into a per-session document, drives overlays bound over the wire, and
// streams back patch frames carrying the styles, attributes, and focus moves
// the host must apply. Frames use the binary codec from pkg/protocol.
//
// # Session model
//
// Each WebSocket connection is one Session with its own document, element
// mirror, and overlay bindings. All engine state is confined to the session's
// run goroutine: incoming frames, timer callbacks, and pings are funneled
// into one loop, so the single-goroutine document model holds without locks.
// A second goroutine reads from the socket and does nothing but decode and
// forward.
//
// A session lives exactly as long as its connection. Reconnecting with the
// previous session id takes the id over but starts from an empty mirror; the
// host re-sends geometry and bindings, which it keeps authoritative copies
// of anyway.
//
// # Addressing
//
// Hosts name elements with their own ids and never see engine internals.
// Two conventions cross the wire:
//
//   - Arrow styles are addressed to the id formed by appending "-arrow" to
//     the floating element id (see ArrowTarget). Hosts without an arrow
//     element ignore those patches.
//   - Key consumption is not echoed back. A remote host cannot know
//     synchronously whether the engine consumed an Escape; hosts that need
//     that decision embed the engine instead.
package remote
