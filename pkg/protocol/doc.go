// Package protocol implements the binary wire format spoken between a buoy
// server and a remote host.
//
// A remote host owns the real surface (a browser page, a native shell, a test
// driver) and mirrors it into a server-side document: it streams element
// geometry and input events in, and receives style/attribute patches and
// focus commands back. Every message travels inside a frame:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//	│                                                            │
//	│  Payload (variable length)                                 │
//	│                                                            │
//	└────────────────────────────────────────────────────────────┘
//
// Frame types:
//
//	Hello     0x00  host → server   version, viewport, optional session resume
//	Welcome   0x01  server → host   handshake result, session id
//	Geometry  0x02  host → server   element rect/flag/text sync
//	Event     0x03  host → server   pointer, key, focus, scroll, resize,
//	                                transition notifications
//	Patch     0x04  server → host   style/attribute/focus operations
//	Control   0x05  both            ping, pong, close
//	Error     0x06  server → host   coded error reports
//	Bind      0x07  host → server   overlay create/destroy requests
//
// Payloads use a compact binary encoding: protobuf-style varints for counts
// and sequence numbers, length-prefixed UTF-8 strings, IEEE 754 big-endian
// float64 for coordinates. Encoder appends to a reusable buffer; Decoder
// reads from a byte slice and enforces allocation limits so a malicious
// length prefix cannot allocate unbounded memory.
//
// Typical host-side usage:
//
//	e := protocol.NewEncoder()
//	protocol.EncodeHelloTo(e, protocol.NewHello(1920, 1080))
//	frame := protocol.NewFrame(protocol.FrameHello, e.Bytes())
//	conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
//
// The package is self-contained: it does not depend on the engine packages,
// so alternative hosts can vendor it alone.
package protocol
