package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the maximum payload size (2^16 - 1 bytes). Hosts
	// split larger geometry bursts across frames and mark the last one
	// with FlagFinal.
	MaxPayloadSize = 65535
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHello    FrameType = 0x00 // Host → server handshake
	FrameWelcome  FrameType = 0x01 // Server → host handshake reply
	FrameGeometry FrameType = 0x02 // Host → server element geometry sync
	FrameEvent    FrameType = 0x03 // Host → server input events
	FramePatch    FrameType = 0x04 // Server → host style/attr/focus patches
	FrameControl  FrameType = 0x05 // Ping, pong, close
	FrameError    FrameType = 0x06 // Server → host error reports
	FrameBind     FrameType = 0x07 // Host → server overlay bind requests
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameWelcome:
		return "Welcome"
	case FrameGeometry:
		return "Geometry"
	case FrameEvent:
		return "Event"
	case FramePatch:
		return "Patch"
	case FrameControl:
		return "Control"
	case FrameError:
		return "Error"
	case FrameBind:
		return "Bind"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	FlagSequenced FrameFlags = 0x01 // Payload carries a sequence number
	FlagFinal     FrameFlags = 0x02 // Last frame of a multi-frame burst
)

// Has returns true if the flags contain the specified flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge = errors.New("protocol: frame payload too large")
	ErrUnknownFrame  = errors.New("protocol: unknown frame type")
)

// Frame is a protocol frame: a 4-byte header followed by the payload.
//
// Header layout: type (1 byte), flags (1 byte), payload length
// (2 bytes, big-endian).
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	length := len(f.Payload)
	buf := make([]byte, FrameHeaderSize+length)
	buf[0] = byte(f.Type)
	buf[1] = byte(f.Flags)
	buf[2] = byte(length >> 8)
	buf[3] = byte(length)
	copy(buf[FrameHeaderSize:], f.Payload)
	return buf
}

// EncodeTo encodes the frame using the provided encoder.
func (f *Frame) EncodeTo(e *Encoder) {
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint16(uint16(len(f.Payload)))
	e.WriteBytes(f.Payload)
}

// DecodeFrame decodes a frame from bytes. The input must contain the full
// header and payload, as delivered by a binary WebSocket message. The frame
// type is validated; the payload is copied.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}

	ft := FrameType(data[0])
	if ft > FrameBind {
		return nil, ErrUnknownFrame
	}
	flags := FrameFlags(data[1])
	length := int(data[2])<<8 | int(data[3])

	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])

	return &Frame{
		Type:    ft,
		Flags:   flags,
		Payload: payload,
	}, nil
}

// ReadFrame reads a complete frame from an io.Reader.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	ft := FrameType(header[0])
	if ft > FrameBind {
		return nil, ErrUnknownFrame
	}
	flags := FrameFlags(header[1])
	length := int(header[2])<<8 | int(header[3])

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}

	return &Frame{
		Type:    ft,
		Flags:   flags,
		Payload: payload,
	}, nil
}

// WriteFrame writes a complete frame to an io.Writer.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}

	data := f.Encode()
	_, err := w.Write(data)
	return err
}

// NewFrame creates a frame with the given type and payload.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{
		Type:    ft,
		Flags:   0,
		Payload: payload,
	}
}

// NewFrameWithFlags creates a frame with the given type, flags, and payload.
func NewFrameWithFlags(ft FrameType, flags FrameFlags, payload []byte) *Frame {
	return &Frame{
		Type:    ft,
		Flags:   flags,
		Payload: payload,
	}
}
