package protocol

// HandshakeStatus represents the result of a handshake.
type HandshakeStatus uint8

const (
	HandshakeOK              HandshakeStatus = 0x00
	HandshakeVersionMismatch HandshakeStatus = 0x01
	HandshakeServerBusy      HandshakeStatus = 0x02 // Session limit reached
	HandshakeInvalidFormat   HandshakeStatus = 0x03 // Malformed hello
	HandshakeInternalError   HandshakeStatus = 0x04 // Server error
)

// String returns the string representation of the handshake status.
func (hs HandshakeStatus) String() string {
	switch hs {
	case HandshakeOK:
		return "OK"
	case HandshakeVersionMismatch:
		return "VersionMismatch"
	case HandshakeServerBusy:
		return "ServerBusy"
	case HandshakeInvalidFormat:
		return "InvalidFormat"
	case HandshakeInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// ProtocolVersion represents a protocol version as major.minor.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// CurrentVersion is the current protocol version.
var CurrentVersion = ProtocolVersion{Major: 1, Minor: 0}

// Hello is sent by the host after the WebSocket connection is established.
type Hello struct {
	Version   ProtocolVersion // Protocol version
	SessionID string          // Existing session id (empty for a new session)
	ViewportW uint16          // Viewport width in pixels
	ViewportH uint16          // Viewport height in pixels
}

// Welcome is the server's response to Hello.
type Welcome struct {
	Status     HandshakeStatus // Handshake result
	SessionID  string          // Assigned session id
	ServerTime uint64          // Server time in Unix milliseconds
	ReadLimit  uint32          // Maximum frame size the server accepts
}

// EncodeHello encodes a Hello to bytes.
func EncodeHello(h *Hello) []byte {
	e := NewEncoder()
	EncodeHelloTo(e, h)
	return e.Bytes()
}

// EncodeHelloTo encodes a Hello using the provided encoder.
func EncodeHelloTo(e *Encoder, h *Hello) {
	e.WriteByte(h.Version.Major)
	e.WriteByte(h.Version.Minor)
	e.WriteString(h.SessionID)
	e.WriteUint16(h.ViewportW)
	e.WriteUint16(h.ViewportH)
}

// DecodeHello decodes a Hello from bytes.
func DecodeHello(data []byte) (*Hello, error) {
	d := NewDecoder(data)
	return DecodeHelloFrom(d)
}

// DecodeHelloFrom decodes a Hello from a decoder.
func DecodeHelloFrom(d *Decoder) (*Hello, error) {
	h := &Hello{}
	var err error

	major, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	minor, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	h.Version = ProtocolVersion{Major: major, Minor: minor}

	h.SessionID, err = d.ReadString()
	if err != nil {
		return nil, err
	}

	h.ViewportW, err = d.ReadUint16()
	if err != nil {
		return nil, err
	}

	h.ViewportH, err = d.ReadUint16()
	if err != nil {
		return nil, err
	}

	return h, nil
}

// EncodeWelcome encodes a Welcome to bytes.
func EncodeWelcome(w *Welcome) []byte {
	e := NewEncoder()
	EncodeWelcomeTo(e, w)
	return e.Bytes()
}

// EncodeWelcomeTo encodes a Welcome using the provided encoder.
func EncodeWelcomeTo(e *Encoder, w *Welcome) {
	e.WriteByte(byte(w.Status))
	e.WriteString(w.SessionID)
	e.WriteUint64(w.ServerTime)
	e.WriteUint32(w.ReadLimit)
}

// DecodeWelcome decodes a Welcome from bytes.
func DecodeWelcome(data []byte) (*Welcome, error) {
	d := NewDecoder(data)
	return DecodeWelcomeFrom(d)
}

// DecodeWelcomeFrom decodes a Welcome from a decoder.
func DecodeWelcomeFrom(d *Decoder) (*Welcome, error) {
	w := &Welcome{}
	var err error

	status, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	w.Status = HandshakeStatus(status)

	w.SessionID, err = d.ReadString()
	if err != nil {
		return nil, err
	}

	w.ServerTime, err = d.ReadUint64()
	if err != nil {
		return nil, err
	}

	w.ReadLimit, err = d.ReadUint32()
	if err != nil {
		return nil, err
	}

	return w, nil
}

// NewHello creates a Hello for a new session with the current version.
func NewHello(viewportW, viewportH uint16) *Hello {
	return &Hello{
		Version:   CurrentVersion,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// NewWelcome creates a successful Welcome.
func NewWelcome(sessionID string, serverTime uint64, readLimit uint32) *Welcome {
	return &Welcome{
		Status:     HandshakeOK,
		SessionID:  sessionID,
		ServerTime: serverTime,
		ReadLimit:  readLimit,
	}
}

// NewWelcomeError creates a Welcome with an error status.
func NewWelcomeError(status HandshakeStatus) *Welcome {
	return &Welcome{
		Status: status,
	}
}
