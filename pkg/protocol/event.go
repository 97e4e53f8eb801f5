package protocol

import "errors"

// EventType identifies the type of host input event.
type EventType uint8

// Event type constants.
const (
	// Pointer events (0x01-0x05)
	EventPointerDown  EventType = 0x01
	EventPointerUp    EventType = 0x02
	EventPointerMove  EventType = 0x03
	EventPointerEnter EventType = 0x04
	EventPointerLeave EventType = 0x05

	// Keyboard events (0x10-0x11)
	EventKeyDown EventType = 0x10
	EventKeyUp   EventType = 0x11

	// Focus events (0x20-0x21)
	EventFocusIn  EventType = 0x20
	EventFocusOut EventType = 0x21

	// Viewport events (0x30-0x31)
	EventScroll EventType = 0x30
	EventResize EventType = 0x31

	// Transition events (0x40-0x41)
	EventTransitionEnd    EventType = 0x40
	EventTransitionCancel EventType = 0x41
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	switch et {
	case EventPointerDown:
		return "PointerDown"
	case EventPointerUp:
		return "PointerUp"
	case EventPointerMove:
		return "PointerMove"
	case EventPointerEnter:
		return "PointerEnter"
	case EventPointerLeave:
		return "PointerLeave"
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventFocusIn:
		return "FocusIn"
	case EventFocusOut:
		return "FocusOut"
	case EventScroll:
		return "Scroll"
	case EventResize:
		return "Resize"
	case EventTransitionEnd:
		return "TransitionEnd"
	case EventTransitionCancel:
		return "TransitionCancel"
	default:
		return "Unknown"
	}
}

// Modifiers represents modifier keys held during an event. The bit layout
// matches the engine's, so conversion is a plain cast.
type Modifiers uint8

const (
	ModCtrl  Modifiers = 0x01
	ModShift Modifiers = 0x02
	ModAlt   Modifiers = 0x04
	ModMeta  Modifiers = 0x08
)

// Has returns true if the specified modifier is set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

// Event payload types.

// PointerData carries pointer event coordinates and button state.
type PointerData struct {
	X         float64
	Y         float64
	Button    uint8
	Modifiers Modifiers
}

// KeyData carries keyboard event identity.
type KeyData struct {
	Key       string // Logical key ("Escape", "Tab", "a")
	Code      string // Physical key code ("Escape", "KeyA")
	Modifiers Modifiers
	Repeat    bool
}

// ScrollData carries scroll offsets. A frame with an empty target reports
// viewport scroll.
type ScrollData struct {
	Left float64
	Top  float64
}

// ResizeData carries the new viewport size.
type ResizeData struct {
	Width  float64
	Height float64
}

// TransitionData reports a CSS transition finishing or being cut short.
type TransitionData struct {
	Property  string
	ElapsedMs uint32
}

// EventFrame is a decoded host input event. Target names the element the
// event happened on; it is empty for viewport-level events and for pointer
// events over untracked surface. Payload is type-specific and nil for focus
// events.
type EventFrame struct {
	Seq     uint64
	Type    EventType
	Target  string
	Payload any
}

// ErrInvalidEventType is returned when decoding meets an unrecognized
// event type byte.
var ErrInvalidEventType = errors.New("protocol: invalid event type")

// EncodeEvent encodes an event to bytes.
func EncodeEvent(ev *EventFrame) []byte {
	e := NewEncoder()
	EncodeEventTo(e, ev)
	return e.Bytes()
}

// EncodeEventTo encodes an event using the provided encoder. A missing or
// mistyped payload encodes as the zero payload for the event type.
func EncodeEventTo(e *Encoder, ev *EventFrame) {
	e.WriteUvarint(ev.Seq)
	e.WriteByte(byte(ev.Type))
	e.WriteString(ev.Target)

	switch ev.Type {
	case EventPointerDown, EventPointerUp, EventPointerMove,
		EventPointerEnter, EventPointerLeave:
		data, ok := ev.Payload.(*PointerData)
		if !ok || data == nil {
			data = &PointerData{}
		}
		e.WriteFloat64(data.X)
		e.WriteFloat64(data.Y)
		e.WriteByte(data.Button)
		e.WriteByte(byte(data.Modifiers))

	case EventKeyDown, EventKeyUp:
		data, ok := ev.Payload.(*KeyData)
		if !ok || data == nil {
			data = &KeyData{}
		}
		e.WriteString(data.Key)
		e.WriteString(data.Code)
		e.WriteByte(byte(data.Modifiers))
		e.WriteBool(data.Repeat)

	case EventFocusIn, EventFocusOut:
		// No payload; the target carries everything.

	case EventScroll:
		data, ok := ev.Payload.(*ScrollData)
		if !ok || data == nil {
			data = &ScrollData{}
		}
		e.WriteFloat64(data.Left)
		e.WriteFloat64(data.Top)

	case EventResize:
		data, ok := ev.Payload.(*ResizeData)
		if !ok || data == nil {
			data = &ResizeData{}
		}
		e.WriteFloat64(data.Width)
		e.WriteFloat64(data.Height)

	case EventTransitionEnd, EventTransitionCancel:
		data, ok := ev.Payload.(*TransitionData)
		if !ok || data == nil {
			data = &TransitionData{}
		}
		e.WriteString(data.Property)
		e.WriteUint32(data.ElapsedMs)
	}
}

// DecodeEvent decodes an event from bytes.
func DecodeEvent(data []byte) (*EventFrame, error) {
	d := NewDecoder(data)
	return DecodeEventFrom(d)
}

// DecodeEventFrom decodes an event from a decoder. An unrecognized event
// type returns ErrInvalidEventType: payload sizes are type-specific, so an
// unknown type cannot be skipped safely.
func DecodeEventFrom(d *Decoder) (*EventFrame, error) {
	ev := &EventFrame{}
	var err error

	ev.Seq, err = d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	ev.Type = EventType(typeByte)

	ev.Target, err = d.ReadString()
	if err != nil {
		return nil, err
	}

	switch ev.Type {
	case EventPointerDown, EventPointerUp, EventPointerMove,
		EventPointerEnter, EventPointerLeave:
		data := &PointerData{}
		if data.X, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
		if data.Y, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
		if data.Button, err = d.ReadByte(); err != nil {
			return nil, err
		}
		var mods byte
		if mods, err = d.ReadByte(); err != nil {
			return nil, err
		}
		data.Modifiers = Modifiers(mods)
		ev.Payload = data

	case EventKeyDown, EventKeyUp:
		data := &KeyData{}
		if data.Key, err = d.ReadString(); err != nil {
			return nil, err
		}
		if data.Code, err = d.ReadString(); err != nil {
			return nil, err
		}
		var mods byte
		if mods, err = d.ReadByte(); err != nil {
			return nil, err
		}
		data.Modifiers = Modifiers(mods)
		if data.Repeat, err = d.ReadBool(); err != nil {
			return nil, err
		}
		ev.Payload = data

	case EventFocusIn, EventFocusOut:
		// No payload.

	case EventScroll:
		data := &ScrollData{}
		if data.Left, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
		if data.Top, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
		ev.Payload = data

	case EventResize:
		data := &ResizeData{}
		if data.Width, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
		if data.Height, err = d.ReadFloat64(); err != nil {
			return nil, err
		}
		ev.Payload = data

	case EventTransitionEnd, EventTransitionCancel:
		data := &TransitionData{}
		if data.Property, err = d.ReadString(); err != nil {
			return nil, err
		}
		if data.ElapsedMs, err = d.ReadUint32(); err != nil {
			return nil, err
		}
		ev.Payload = data

	default:
		return nil, ErrInvalidEventType
	}

	return ev, nil
}

// NewPointerEvent creates a pointer event frame.
func NewPointerEvent(seq uint64, et EventType, target string, x, y float64) *EventFrame {
	return &EventFrame{
		Seq:     seq,
		Type:    et,
		Target:  target,
		Payload: &PointerData{X: x, Y: y},
	}
}

// NewKeyEvent creates a keyboard event frame.
func NewKeyEvent(seq uint64, et EventType, target, key, code string) *EventFrame {
	return &EventFrame{
		Seq:     seq,
		Type:    et,
		Target:  target,
		Payload: &KeyData{Key: key, Code: code},
	}
}

// NewFocusEvent creates a focus event frame.
func NewFocusEvent(seq uint64, et EventType, target string) *EventFrame {
	return &EventFrame{Seq: seq, Type: et, Target: target}
}

// NewResizeEvent creates a resize event frame.
func NewResizeEvent(seq uint64, width, height float64) *EventFrame {
	return &EventFrame{
		Seq:     seq,
		Type:    EventResize,
		Payload: &ResizeData{Width: width, Height: height},
	}
}

// NewTransitionEvent creates a transition event frame.
func NewTransitionEvent(seq uint64, et EventType, target, property string) *EventFrame {
	return &EventFrame{
		Seq:     seq,
		Type:    et,
		Target:  target,
		Payload: &TransitionData{Property: property},
	}
}
