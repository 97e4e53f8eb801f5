package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantLen int // expected total length including header
	}{
		{
			name: "empty_payload",
			frame: Frame{
				Type:    FrameEvent,
				Flags:   0,
				Payload: []byte{},
			},
			wantLen: FrameHeaderSize,
		},
		{
			name: "patch_sequenced",
			frame: Frame{
				Type:    FramePatch,
				Flags:   FlagSequenced,
				Payload: []byte{0x01, 0x02, 0x03},
			},
			wantLen: FrameHeaderSize + 3,
		},
		{
			name: "geometry_final",
			frame: Frame{
				Type:    FrameGeometry,
				Flags:   FlagFinal,
				Payload: []byte("burst"),
			},
			wantLen: FrameHeaderSize + 5,
		},
		{
			name: "hello",
			frame: Frame{
				Type:    FrameHello,
				Payload: []byte{0x01, 0x00},
			},
			wantLen: FrameHeaderSize + 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := tc.frame.Encode()
			if len(encoded) != tc.wantLen {
				t.Errorf("Encode() length = %d, want %d", len(encoded), tc.wantLen)
			}

			if FrameType(encoded[0]) != tc.frame.Type {
				t.Errorf("encoded type = %v, want %v", FrameType(encoded[0]), tc.frame.Type)
			}
			if FrameFlags(encoded[1]) != tc.frame.Flags {
				t.Errorf("encoded flags = %v, want %v", FrameFlags(encoded[1]), tc.frame.Flags)
			}

			decoded, err := DecodeFrame(encoded)
			if err != nil {
				t.Fatalf("DecodeFrame() error = %v", err)
			}

			if decoded.Type != tc.frame.Type {
				t.Errorf("decoded type = %v, want %v", decoded.Type, tc.frame.Type)
			}
			if decoded.Flags != tc.frame.Flags {
				t.Errorf("decoded flags = %v, want %v", decoded.Flags, tc.frame.Flags)
			}
			if !bytes.Equal(decoded.Payload, tc.frame.Payload) {
				t.Errorf("decoded payload = %v, want %v", decoded.Payload, tc.frame.Payload)
			}
		})
	}
}

func TestFrameEncodeTo(t *testing.T) {
	f := &Frame{
		Type:    FrameEvent,
		Flags:   FlagSequenced,
		Payload: []byte{0x0A, 0x0B},
	}

	e := NewEncoder()
	f.EncodeTo(e)

	if !bytes.Equal(e.Bytes(), f.Encode()) {
		t.Errorf("EncodeTo() = %v, want %v", e.Bytes(), f.Encode())
	}
}

func TestDecodeFramePayloadCopied(t *testing.T) {
	f := &Frame{Type: FramePatch, Payload: []byte{1, 2, 3}}
	encoded := f.Encode()

	decoded, err := DecodeFrame(encoded)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}

	// Mutating the wire buffer must not affect the decoded payload.
	encoded[FrameHeaderSize] = 0xFF
	if decoded.Payload[0] != 1 {
		t.Error("decoded payload aliases the input buffer")
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	// Short header
	if _, err := DecodeFrame([]byte{0x00, 0x00}); err != io.ErrUnexpectedEOF {
		t.Errorf("short header: got %v, want io.ErrUnexpectedEOF", err)
	}

	// Claims 16 payload bytes, has none
	if _, err := DecodeFrame([]byte{0x03, 0x00, 0x00, 0x10}); err != io.ErrUnexpectedEOF {
		t.Errorf("short payload: got %v, want io.ErrUnexpectedEOF", err)
	}

	// Type byte beyond the known range
	if _, err := DecodeFrame([]byte{0x2A, 0x00, 0x00, 0x00}); err != ErrUnknownFrame {
		t.Errorf("unknown type: got %v, want ErrUnknownFrame", err)
	}
}

func TestReadWriteFrame(t *testing.T) {
	original := &Frame{
		Type:    FrameGeometry,
		Flags:   FlagSequenced | FlagFinal,
		Payload: []byte("viewport sync"),
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, original); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}

	decoded, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}

	if decoded.Type != original.Type {
		t.Errorf("Type = %v, want %v", decoded.Type, original.Type)
	}
	if decoded.Flags != original.Flags {
		t.Errorf("Flags = %v, want %v", decoded.Flags, original.Flags)
	}
	if !bytes.Equal(decoded.Payload, original.Payload) {
		t.Errorf("Payload = %q, want %q", decoded.Payload, original.Payload)
	}
}

func TestReadFrameErrors(t *testing.T) {
	// EOF on header
	if _, err := ReadFrame(bytes.NewReader(nil)); err != io.EOF {
		t.Errorf("empty reader: got %v, want io.EOF", err)
	}

	// Short header
	if _, err := ReadFrame(bytes.NewReader([]byte{0x00, 0x00})); err != io.ErrUnexpectedEOF {
		t.Errorf("short header: got %v, want io.ErrUnexpectedEOF", err)
	}

	// Short payload
	if _, err := ReadFrame(bytes.NewReader([]byte{0x03, 0x00, 0x00, 0x05, 0x01})); err != io.ErrUnexpectedEOF {
		t.Errorf("short payload: got %v, want io.ErrUnexpectedEOF", err)
	}

	// Unknown frame type
	if _, err := ReadFrame(bytes.NewReader([]byte{0x7F, 0x00, 0x00, 0x00})); err != ErrUnknownFrame {
		t.Errorf("unknown type: got %v, want ErrUnknownFrame", err)
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	f := &Frame{
		Type:    FrameGeometry,
		Payload: make([]byte, MaxPayloadSize+1),
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, f); err != ErrFrameTooLarge {
		t.Errorf("WriteFrame() = %v, want ErrFrameTooLarge", err)
	}
	if buf.Len() != 0 {
		t.Errorf("WriteFrame wrote %d bytes before failing", buf.Len())
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := []struct {
		ft   FrameType
		want string
	}{
		{FrameHello, "Hello"},
		{FrameWelcome, "Welcome"},
		{FrameGeometry, "Geometry"},
		{FrameEvent, "Event"},
		{FramePatch, "Patch"},
		{FrameControl, "Control"},
		{FrameError, "Error"},
		{FrameBind, "Bind"},
		{FrameType(0xFF), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.ft.String(); got != tc.want {
			t.Errorf("FrameType(%d).String() = %q, want %q", tc.ft, got, tc.want)
		}
	}
}

func TestFrameFlagsHas(t *testing.T) {
	flags := FlagSequenced

	if !flags.Has(FlagSequenced) {
		t.Error("Has(FlagSequenced) = false, want true")
	}
	if flags.Has(FlagFinal) {
		t.Error("Has(FlagFinal) = true, want false")
	}

	both := FlagSequenced | FlagFinal
	if !both.Has(FlagFinal) {
		t.Error("Has(FlagFinal) = false, want true")
	}
}

func TestNewFrame(t *testing.T) {
	payload := []byte{1, 2, 3}

	f := NewFrame(FrameEvent, payload)
	if f.Type != FrameEvent || f.Flags != 0 || !bytes.Equal(f.Payload, payload) {
		t.Errorf("NewFrame() = %+v", f)
	}

	f = NewFrameWithFlags(FramePatch, FlagSequenced, payload)
	if f.Type != FramePatch || f.Flags != FlagSequenced || !bytes.Equal(f.Payload, payload) {
		t.Errorf("NewFrameWithFlags() = %+v", f)
	}
}

func TestMultipleFrames(t *testing.T) {
	var buf bytes.Buffer

	frames := []*Frame{
		{Type: FrameHello, Payload: []byte("hello")},
		{Type: FrameGeometry, Flags: FlagFinal, Payload: []byte("geometry")},
		{Type: FrameEvent, Payload: []byte("event")},
	}

	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame() error = %v", err)
		}
	}

	reader := bytes.NewReader(buf.Bytes())
	for i, original := range frames {
		decoded, err := ReadFrame(reader)
		if err != nil {
			t.Fatalf("ReadFrame(%d) error = %v", i, err)
		}
		if decoded.Type != original.Type {
			t.Errorf("frame %d: Type = %v, want %v", i, decoded.Type, original.Type)
		}
		if !bytes.Equal(decoded.Payload, original.Payload) {
			t.Errorf("frame %d: payload mismatch", i)
		}
	}
}

func BenchmarkFrameEncode(b *testing.B) {
	f := &Frame{
		Type:    FrameEvent,
		Flags:   FlagSequenced,
		Payload: make([]byte, 64),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Encode()
	}
}

func BenchmarkFrameDecode(b *testing.B) {
	f := &Frame{
		Type:    FrameEvent,
		Flags:   FlagSequenced,
		Payload: make([]byte, 64),
	}
	data := f.Encode()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = DecodeFrame(data)
	}
}
