package frame

// FrVect is a typed, optionally compressed numeric array with dimension
// metadata. Numeric compression is treated as a black-box codec: gwframe
// detects a non-zero Compress scheme and can expand it only when a caller
// supplies a Decompressor (see Expand); it never implements a codec itself.
type FrVect struct {
	Name     string
	Compress uint16 // 0 = uncompressed; nonzero names an external codec
	Type     uint16 // element type id (int16/int32/float32/float64/complex64/...)
	NData    uint32 // logical element count (post-decompression)
	NBytes   uint32 // on-wire byte count of Data (pre-decompression if compressed)
	Data     []byte
	NDim     uint32
	Dim      []VectDim
	UnitY    string
}

// VectDim describes one axis of an FrVect's array.
type VectDim struct {
	NX     uint32
	DX     float64
	StartX float64
	UnitX  string
}

// Decompressor expands a compressed FrVect payload. gwframe ships none; a
// caller wires in whichever scheme(s) it needs.
type Decompressor func(compress uint16, data []byte, nBytes uint32) ([]byte, error)

// Expand returns v's Data decompressed via fn if Compress != 0, or Data
// unchanged otherwise.
func (v *FrVect) Expand(fn Decompressor) ([]byte, error) {
	if v.Compress == 0 || fn == nil {
		return v.Data, nil
	}
	return fn(v.Compress, v.Data, v.NBytes)
}

func decodeFrVect(rc *readContext) (any, error) {
	s := rc.s
	name, err := s.String16()
	if err != nil {
		return nil, err
	}
	compress, err := s.U16()
	if err != nil {
		return nil, err
	}
	typ, err := s.U16()
	if err != nil {
		return nil, err
	}
	nData, err := s.U32()
	if err != nil {
		return nil, err
	}
	nBytes, err := s.U32()
	if err != nil {
		return nil, err
	}
	data, err := s.ReadBytes(int(nBytes))
	if err != nil {
		return nil, err
	}
	nDim, err := s.U32()
	if err != nil {
		return nil, err
	}
	dims := make([]VectDim, nDim)
	for i := range dims {
		nx, err := s.U32()
		if err != nil {
			return nil, err
		}
		dx, err := s.F64()
		if err != nil {
			return nil, err
		}
		startX, err := s.F64()
		if err != nil {
			return nil, err
		}
		unitX, err := s.String16()
		if err != nil {
			return nil, err
		}
		dims[i] = VectDim{NX: nx, DX: dx, StartX: startX, UnitX: unitX}
	}
	unitY, err := s.String16()
	if err != nil {
		return nil, err
	}
	v := &FrVect{
		Name: name, Compress: compress, Type: typ,
		NData: nData, NBytes: nBytes, Data: data,
		NDim: nDim, Dim: dims, UnitY: unitY,
	}
	next, err := readPtrSlots(s, rc.ver, 1)
	if err != nil {
		return nil, err
	}
	deferNext(rc, v, next[0])
	return v, nil
}

func encodeFrVect(wc *writeContext, obj any) ([]byte, error) {
	v := obj.(*FrVect)
	w := newBodyWriter(wc)
	w.String16(v.Name)
	w.U16(v.Compress)
	w.U16(v.Type)
	w.U32(v.NData)
	w.U32(uint32(len(v.Data)))
	w.WriteBytes(v.Data)
	w.U32(uint32(len(v.Dim)))
	for _, d := range v.Dim {
		w.U32(d.NX)
		w.F64(d.DX)
		w.F64(d.StartX)
		w.String16(d.UnitX)
	}
	w.String16(v.UnitY)
	next := nextPtrOf(wc, v)
	w.U32(next.Class)
	w.U32(next.Instance)
	return w.Bytes(), w.Err()
}

func sizeOfFrVect(obj any, ver Version) uint64 {
	v := obj.(*FrVect)
	n := uint64(sizeofString16(v.Name)) + 2 + 2 + 4 + 4 + uint64(len(v.Data)) + 4 + 8
	for _, d := range v.Dim {
		n += 4 + 8 + 8 + uint64(sizeofString16(d.UnitX))
	}
	n += uint64(sizeofString16(v.UnitY))
	return n
}

func verifyFrVect(obj any) []error {
	v := obj.(*FrVect)
	var errs []error
	if int(v.NBytes) != len(v.Data) && v.Compress == 0 {
		errs = append(errs, &MetadataInvalidError{Detail: "FrVect " + v.Name + ": NBytes disagrees with Data length"})
	}
	return errs
}

func init() {
	registerKind(&kindInfo{
		ID: KindFrVect, Name: "FrVect",
		Decode: decodeFrVect, Encode: encodeFrVect, SizeOf: sizeOfFrVect, Verify: verifyFrVect,
	})
}
