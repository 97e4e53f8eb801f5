package protocol

// ElementGeometry is one element's measured state as reported by the host.
// A zero ParentID attaches the element at the document root.
type ElementGeometry struct {
	ID        string
	ParentID  string
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Focusable bool
	Disabled  bool
	Text      string
	Markers   []string
}

// GeometryFrame is a batch of element updates and removals. Hosts send one
// after layout settles; the server applies updates before removals.
type GeometryFrame struct {
	Updates []ElementGeometry
	Removed []string
}

// EncodeGeometry encodes a geometry frame to bytes.
func EncodeGeometry(gf *GeometryFrame) []byte {
	e := NewEncoder()
	EncodeGeometryTo(e, gf)
	return e.Bytes()
}

// EncodeGeometryTo encodes a geometry frame using the provided encoder.
func EncodeGeometryTo(e *Encoder, gf *GeometryFrame) {
	e.WriteUvarint(uint64(len(gf.Updates)))
	for i := range gf.Updates {
		encodeElementGeometry(e, &gf.Updates[i])
	}

	e.WriteUvarint(uint64(len(gf.Removed)))
	for _, id := range gf.Removed {
		e.WriteString(id)
	}
}

// encodeElementGeometry encodes a single element record.
func encodeElementGeometry(e *Encoder, eg *ElementGeometry) {
	e.WriteString(eg.ID)
	e.WriteString(eg.ParentID)
	e.WriteFloat64(eg.X)
	e.WriteFloat64(eg.Y)
	e.WriteFloat64(eg.Width)
	e.WriteFloat64(eg.Height)
	e.WriteBool(eg.Focusable)
	e.WriteBool(eg.Disabled)
	e.WriteString(eg.Text)
	e.WriteUvarint(uint64(len(eg.Markers)))
	for _, m := range eg.Markers {
		e.WriteString(m)
	}
}

// DecodeGeometry decodes a geometry frame from bytes.
func DecodeGeometry(data []byte) (*GeometryFrame, error) {
	d := NewDecoder(data)
	return DecodeGeometryFrom(d)
}

// DecodeGeometryFrom decodes a geometry frame from a decoder.
func DecodeGeometryFrom(d *Decoder) (*GeometryFrame, error) {
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	gf := &GeometryFrame{}
	if count > 0 {
		gf.Updates = make([]ElementGeometry, count)
		for i := 0; i < count; i++ {
			if err := decodeElementGeometry(d, &gf.Updates[i]); err != nil {
				return nil, err
			}
		}
	}

	removed, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		gf.Removed = make([]string, removed)
		for i := 0; i < removed; i++ {
			gf.Removed[i], err = d.ReadString()
			if err != nil {
				return nil, err
			}
		}
	}

	return gf, nil
}

// decodeElementGeometry decodes a single element record.
func decodeElementGeometry(d *Decoder, eg *ElementGeometry) error {
	var err error

	eg.ID, err = d.ReadString()
	if err != nil {
		return err
	}
	eg.ParentID, err = d.ReadString()
	if err != nil {
		return err
	}
	eg.X, err = d.ReadFloat64()
	if err != nil {
		return err
	}
	eg.Y, err = d.ReadFloat64()
	if err != nil {
		return err
	}
	eg.Width, err = d.ReadFloat64()
	if err != nil {
		return err
	}
	eg.Height, err = d.ReadFloat64()
	if err != nil {
		return err
	}
	eg.Focusable, err = d.ReadBool()
	if err != nil {
		return err
	}
	eg.Disabled, err = d.ReadBool()
	if err != nil {
		return err
	}
	eg.Text, err = d.ReadString()
	if err != nil {
		return err
	}

	markers, err := d.ReadCollectionCount()
	if err != nil {
		return err
	}
	if markers > 0 {
		eg.Markers = make([]string, markers)
		for i := 0; i < markers; i++ {
			eg.Markers[i], err = d.ReadString()
			if err != nil {
				return err
			}
		}
	}

	return nil
}
