package protocol

// ControlType identifies the type of control message.
type ControlType uint8

const (
	ControlPing   ControlType = 0x01 // Client/server ping
	ControlPong   ControlType = 0x02 // Response to ping
	ControlShow   ControlType = 0x10 // Open a bound overlay
	ControlHide   ControlType = 0x11 // Close a bound overlay
	ControlToggle ControlType = 0x12 // Toggle a bound overlay
	ControlClose  ControlType = 0x20 // Session close
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlShow:
		return "Show"
	case ControlHide:
		return "Hide"
	case ControlToggle:
		return "Toggle"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// CloseReason indicates why a session is being closed.
type CloseReason uint8

const (
	CloseNormal         CloseReason = 0x00 // Normal closure
	CloseGoingAway      CloseReason = 0x01 // Client/server going away
	CloseServerShutdown CloseReason = 0x02 // Server shutting down
	CloseError          CloseReason = 0x03 // Error occurred
)

// String returns the string representation of the close reason.
func (cr CloseReason) String() string {
	switch cr {
	case CloseNormal:
		return "Normal"
	case CloseGoingAway:
		return "GoingAway"
	case CloseServerShutdown:
		return "ServerShutdown"
	case CloseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PingPong is the payload for Ping and Pong messages.
type PingPong struct {
	Timestamp uint64 // Unix timestamp in milliseconds
}

// CloseMessage is sent when closing a session.
type CloseMessage struct {
	Reason  CloseReason
	Message string
}

// OverlayCommand addresses a bound overlay by its binding id. It is the
// payload for Show, Hide, and Toggle, which drive manual-mode overlays from
// the host side.
type OverlayCommand struct {
	OverlayID string
}

// EncodeControl encodes a control message to bytes.
func EncodeControl(ct ControlType, payload any) []byte {
	e := NewEncoder()
	EncodeControlTo(e, ct, payload)
	return e.Bytes()
}

// EncodeControlTo encodes a control message using the provided encoder.
// A payload of the wrong type encodes as the zero payload for ct.
func EncodeControlTo(e *Encoder, ct ControlType, payload any) {
	e.WriteByte(byte(ct))

	switch ct {
	case ControlPing, ControlPong:
		if pp, ok := payload.(*PingPong); ok {
			e.WriteUint64(pp.Timestamp)
		} else {
			e.WriteUint64(0)
		}

	case ControlShow, ControlHide, ControlToggle:
		if oc, ok := payload.(*OverlayCommand); ok {
			e.WriteString(oc.OverlayID)
		} else {
			e.WriteString("")
		}

	case ControlClose:
		if cm, ok := payload.(*CloseMessage); ok {
			e.WriteByte(byte(cm.Reason))
			e.WriteString(cm.Message)
		} else {
			e.WriteByte(byte(CloseNormal))
			e.WriteString("")
		}
	}
}

// DecodeControl decodes a control message from bytes.
// Returns the control type and the decoded payload.
func DecodeControl(data []byte) (ControlType, any, error) {
	d := NewDecoder(data)
	return DecodeControlFrom(d)
}

// DecodeControlFrom decodes a control message from a decoder.
// An unrecognized control type decodes as a nil payload without error,
// so hosts can skip control kinds they do not understand.
func DecodeControlFrom(d *Decoder) (ControlType, any, error) {
	typeByte, err := d.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	ct := ControlType(typeByte)

	switch ct {
	case ControlPing, ControlPong:
		ts, err := d.ReadUint64()
		if err != nil {
			return ct, nil, err
		}
		return ct, &PingPong{Timestamp: ts}, nil

	case ControlShow, ControlHide, ControlToggle:
		id, err := d.ReadString()
		if err != nil {
			return ct, nil, err
		}
		return ct, &OverlayCommand{OverlayID: id}, nil

	case ControlClose:
		reason, err := d.ReadByte()
		if err != nil {
			return ct, nil, err
		}
		message, err := d.ReadString()
		if err != nil {
			return ct, nil, err
		}
		return ct, &CloseMessage{
			Reason:  CloseReason(reason),
			Message: message,
		}, nil

	default:
		return ct, nil, nil
	}
}

// NewPing creates a new Ping message.
func NewPing(timestamp uint64) (ControlType, *PingPong) {
	return ControlPing, &PingPong{Timestamp: timestamp}
}

// NewPong creates a new Pong message.
func NewPong(timestamp uint64) (ControlType, *PingPong) {
	return ControlPong, &PingPong{Timestamp: timestamp}
}

// NewShow creates a Show command for the given overlay binding.
func NewShow(overlayID string) (ControlType, *OverlayCommand) {
	return ControlShow, &OverlayCommand{OverlayID: overlayID}
}

// NewHide creates a Hide command for the given overlay binding.
func NewHide(overlayID string) (ControlType, *OverlayCommand) {
	return ControlHide, &OverlayCommand{OverlayID: overlayID}
}

// NewToggle creates a Toggle command for the given overlay binding.
func NewToggle(overlayID string) (ControlType, *OverlayCommand) {
	return ControlToggle, &OverlayCommand{OverlayID: overlayID}
}

// NewClose creates a new Close message.
func NewClose(reason CloseReason, message string) (ControlType, *CloseMessage) {
	return ControlClose, &CloseMessage{Reason: reason, Message: message}
}
