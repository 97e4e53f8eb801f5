package protocol

import "errors"

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchStyle      PatchOp = 0x01 // Set inline style property
	PatchAttr       PatchOp = 0x02 // Set attribute
	PatchRemoveAttr PatchOp = 0x03 // Remove attribute
	PatchFocus      PatchOp = 0x04 // Move host focus to the target
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchStyle:
		return "Style"
	case PatchAttr:
		return "Attr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchFocus:
		return "Focus"
	default:
		return "Unknown"
	}
}

// ErrInvalidPatchOp is returned when decoding meets an unrecognized
// operation; per-op payloads make unknown ops unskippable.
var ErrInvalidPatchOp = errors.New("protocol: invalid patch operation")

// Patch is a single host-surface operation.
type Patch struct {
	Op     PatchOp
	Target string // Element id
	Key    string // Style property or attribute name
	Value  string // Style or attribute value
}

// PatchFrame is a batch of patches with a sequence number. Hosts apply
// batches atomically and in sequence order.
type PatchFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatchFrame encodes a patch frame to bytes.
func EncodePatchFrame(pf *PatchFrame) []byte {
	e := NewEncoder()
	EncodePatchFrameTo(e, pf)
	return e.Bytes()
}

// EncodePatchFrameTo encodes a patch frame using the provided encoder.
func EncodePatchFrameTo(e *Encoder, pf *PatchFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))

	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

// encodePatch encodes a single patch.
func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteString(p.Target)

	switch p.Op {
	case PatchStyle, PatchAttr:
		e.WriteString(p.Key)
		e.WriteString(p.Value)

	case PatchRemoveAttr:
		e.WriteString(p.Key)

	case PatchFocus:
		// The target is sufficient.
	}
}

// DecodePatchFrame decodes a patch frame from bytes.
func DecodePatchFrame(data []byte) (*PatchFrame, error) {
	d := NewDecoder(data)
	return DecodePatchFrameFrom(d)
}

// DecodePatchFrameFrom decodes a patch frame from a decoder.
func DecodePatchFrameFrom(d *Decoder) (*PatchFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	pf := &PatchFrame{Seq: seq}
	if count > 0 {
		pf.Patches = make([]Patch, count)
		for i := 0; i < count; i++ {
			if err := decodePatch(d, &pf.Patches[i]); err != nil {
				return nil, err
			}
		}
	}

	return pf, nil
}

// decodePatch decodes a single patch.
func decodePatch(d *Decoder, p *Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(opByte)

	p.Target, err = d.ReadString()
	if err != nil {
		return err
	}

	switch p.Op {
	case PatchStyle, PatchAttr:
		p.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		p.Value, err = d.ReadString()

	case PatchRemoveAttr:
		p.Key, err = d.ReadString()

	case PatchFocus:
		// No additional data.

	default:
		return ErrInvalidPatchOp
	}

	return err
}

// NewStylePatch creates a Style patch.
func NewStylePatch(target, property, value string) Patch {
	return Patch{Op: PatchStyle, Target: target, Key: property, Value: value}
}

// NewAttrPatch creates an Attr patch.
func NewAttrPatch(target, key, value string) Patch {
	return Patch{Op: PatchAttr, Target: target, Key: key, Value: value}
}

// NewRemoveAttrPatch creates a RemoveAttr patch.
func NewRemoveAttrPatch(target, key string) Patch {
	return Patch{Op: PatchRemoveAttr, Target: target, Key: key}
}

// NewFocusPatch creates a Focus patch.
func NewFocusPatch(target string) Patch {
	return Patch{Op: PatchFocus, Target: target}
}
