package protocol

import "errors"

// BindOp identifies the kind of bind request.
type BindOp uint8

const (
	BindCreate  BindOp = 0x01 // Create an overlay binding
	BindDestroy BindOp = 0x02 // Tear an overlay binding down
)

// String returns the string representation of the bind operation.
func (op BindOp) String() string {
	switch op {
	case BindCreate:
		return "Create"
	case BindDestroy:
		return "Destroy"
	default:
		return "Unknown"
	}
}

// BindMode selects how an overlay is triggered.
type BindMode uint8

const (
	BindModeClick  BindMode = 0x00
	BindModeHover  BindMode = 0x01
	BindModeFocus  BindMode = 0x02
	BindModeManual BindMode = 0x03
)

// String returns the string representation of the bind mode.
func (m BindMode) String() string {
	switch m {
	case BindModeClick:
		return "Click"
	case BindModeHover:
		return "Hover"
	case BindModeFocus:
		return "Focus"
	case BindModeManual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// ErrInvalidBindOp is returned when decoding meets an unrecognized bind
// operation.
var ErrInvalidBindOp = errors.New("protocol: invalid bind operation")

// BindOptions carries the overlay configuration across the wire. The server
// maps it onto its native option set; unknown placement strings fall back
// to the default there, not here.
type BindOptions struct {
	Mode BindMode

	Placement    string  // "bottom", "top-start", ...
	Offset       float64 // Perpendicular offset in pixels
	Skidding     float64 // Parallel offset in pixels
	Flip         bool
	FlipPadding  float64
	Shift        bool
	ShiftPadding float64
	Size         bool
	Arrow        bool
	ArrowW       float64
	ArrowH       float64
	ArrowPadding float64

	ShowDelayMs uint32
	HideDelayMs uint32
	Interactive bool

	CloseOnEscape             bool
	CloseOnPointerDownOutside bool
	Exclude                   []string // Extra element ids the dismissal skips

	Trap                 bool
	InitialFocusSelector string
	ReturnFocus          bool

	TransitionProperty string
	TransitionMs       uint32
}

// BindRequest asks the server to create or destroy an overlay binding.
// Trigger, Floating, and Options are meaningful only for BindCreate.
type BindRequest struct {
	Op        BindOp
	OverlayID string
	Trigger   string
	Floating  string
	Options   BindOptions
}

// EncodeBind encodes a bind request to bytes.
func EncodeBind(br *BindRequest) []byte {
	e := NewEncoder()
	EncodeBindTo(e, br)
	return e.Bytes()
}

// EncodeBindTo encodes a bind request using the provided encoder.
func EncodeBindTo(e *Encoder, br *BindRequest) {
	e.WriteByte(byte(br.Op))
	e.WriteString(br.OverlayID)

	if br.Op != BindCreate {
		return
	}

	e.WriteString(br.Trigger)
	e.WriteString(br.Floating)

	o := &br.Options
	e.WriteByte(byte(o.Mode))
	e.WriteString(o.Placement)
	e.WriteFloat64(o.Offset)
	e.WriteFloat64(o.Skidding)
	e.WriteBool(o.Flip)
	e.WriteFloat64(o.FlipPadding)
	e.WriteBool(o.Shift)
	e.WriteFloat64(o.ShiftPadding)
	e.WriteBool(o.Size)
	e.WriteBool(o.Arrow)
	e.WriteFloat64(o.ArrowW)
	e.WriteFloat64(o.ArrowH)
	e.WriteFloat64(o.ArrowPadding)
	e.WriteUint32(o.ShowDelayMs)
	e.WriteUint32(o.HideDelayMs)
	e.WriteBool(o.Interactive)
	e.WriteBool(o.CloseOnEscape)
	e.WriteBool(o.CloseOnPointerDownOutside)
	e.WriteUvarint(uint64(len(o.Exclude)))
	for _, id := range o.Exclude {
		e.WriteString(id)
	}
	e.WriteBool(o.Trap)
	e.WriteString(o.InitialFocusSelector)
	e.WriteBool(o.ReturnFocus)
	e.WriteString(o.TransitionProperty)
	e.WriteUint32(o.TransitionMs)
}

// DecodeBind decodes a bind request from bytes.
func DecodeBind(data []byte) (*BindRequest, error) {
	d := NewDecoder(data)
	return DecodeBindFrom(d)
}

// DecodeBindFrom decodes a bind request from a decoder.
func DecodeBindFrom(d *Decoder) (*BindRequest, error) {
	br := &BindRequest{}
	var err error

	opByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	br.Op = BindOp(opByte)

	br.OverlayID, err = d.ReadString()
	if err != nil {
		return nil, err
	}

	switch br.Op {
	case BindDestroy:
		return br, nil
	case BindCreate:
	default:
		return nil, ErrInvalidBindOp
	}

	br.Trigger, err = d.ReadString()
	if err != nil {
		return nil, err
	}
	br.Floating, err = d.ReadString()
	if err != nil {
		return nil, err
	}

	o := &br.Options
	var mode byte
	if mode, err = d.ReadByte(); err != nil {
		return nil, err
	}
	o.Mode = BindMode(mode)
	if o.Placement, err = d.ReadString(); err != nil {
		return nil, err
	}
	if o.Offset, err = d.ReadFloat64(); err != nil {
		return nil, err
	}
	if o.Skidding, err = d.ReadFloat64(); err != nil {
		return nil, err
	}
	if o.Flip, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if o.FlipPadding, err = d.ReadFloat64(); err != nil {
		return nil, err
	}
	if o.Shift, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if o.ShiftPadding, err = d.ReadFloat64(); err != nil {
		return nil, err
	}
	if o.Size, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if o.Arrow, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if o.ArrowW, err = d.ReadFloat64(); err != nil {
		return nil, err
	}
	if o.ArrowH, err = d.ReadFloat64(); err != nil {
		return nil, err
	}
	if o.ArrowPadding, err = d.ReadFloat64(); err != nil {
		return nil, err
	}
	if o.ShowDelayMs, err = d.ReadUint32(); err != nil {
		return nil, err
	}
	if o.HideDelayMs, err = d.ReadUint32(); err != nil {
		return nil, err
	}
	if o.Interactive, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if o.CloseOnEscape, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if o.CloseOnPointerDownOutside, err = d.ReadBool(); err != nil {
		return nil, err
	}

	excl, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if excl > 0 {
		o.Exclude = make([]string, excl)
		for i := 0; i < excl; i++ {
			if o.Exclude[i], err = d.ReadString(); err != nil {
				return nil, err
			}
		}
	}

	if o.Trap, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if o.InitialFocusSelector, err = d.ReadString(); err != nil {
		return nil, err
	}
	if o.ReturnFocus, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if o.TransitionProperty, err = d.ReadString(); err != nil {
		return nil, err
	}
	if o.TransitionMs, err = d.ReadUint32(); err != nil {
		return nil, err
	}

	return br, nil
}

// NewBindCreate creates a bind request that sets an overlay up.
func NewBindCreate(overlayID, trigger, floating string, opts BindOptions) *BindRequest {
	return &BindRequest{
		Op:        BindCreate,
		OverlayID: overlayID,
		Trigger:   trigger,
		Floating:  floating,
		Options:   opts,
	}
}

// NewBindDestroy creates a bind request that tears an overlay down.
func NewBindDestroy(overlayID string) *BindRequest {
	return &BindRequest{
		Op:        BindDestroy,
		OverlayID: overlayID,
	}
}
