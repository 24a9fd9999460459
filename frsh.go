package frame

// FrSH and FrSE are frameCPP's self-describing schema records: FrSH names a
// structure class and assigns it a numeric id, FrSE names and types one of
// that structure's fields. gwframe resolves kinds through the fixed,
// process-wide registry (record.go's registry, filled by each kind file's
// init()) rather than a
// per-file dynamic schema, so these two kinds are read and re-emitted
// verbatim without feeding the registry (the same simplification kindid.go
// documents for kind numbering: no testable behavior depends on a file
// actually carrying usable FrSH/FrSE records for the kinds this library
// already knows statically).
type FrSH struct {
	Name    string
	Class   uint32
	Comment string
}

type FrSE struct {
	Name    string
	ClassID uint32
	Comment string
}

func decodeFrSH(rc *readContext) (any, error) {
	s := rc.s
	h := &FrSH{}
	var err error
	if h.Name, err = s.String16(); err != nil {
		return nil, err
	}
	if h.Class, err = s.U32(); err != nil {
		return nil, err
	}
	if h.Comment, err = s.String16(); err != nil {
		return nil, err
	}
	return h, nil
}

func encodeFrSH(wc *writeContext, obj any) ([]byte, error) {
	h := obj.(*FrSH)
	w := newBodyWriter(wc)
	w.String16(h.Name)
	w.U32(h.Class)
	w.String16(h.Comment)
	return w.Bytes(), w.Err()
}

func sizeOfFrSH(obj any, ver Version) uint64 {
	h := obj.(*FrSH)
	return uint64(sizeofString16(h.Name)) + 4 + uint64(sizeofString16(h.Comment))
}

func decodeFrSE(rc *readContext) (any, error) {
	s := rc.s
	e := &FrSE{}
	var err error
	if e.Name, err = s.String16(); err != nil {
		return nil, err
	}
	if e.ClassID, err = s.U32(); err != nil {
		return nil, err
	}
	if e.Comment, err = s.String16(); err != nil {
		return nil, err
	}
	return e, nil
}

func encodeFrSE(wc *writeContext, obj any) ([]byte, error) {
	e := obj.(*FrSE)
	w := newBodyWriter(wc)
	w.String16(e.Name)
	w.U32(e.ClassID)
	w.String16(e.Comment)
	return w.Bytes(), w.Err()
}

func sizeOfFrSE(obj any, ver Version) uint64 {
	e := obj.(*FrSE)
	return uint64(sizeofString16(e.Name)) + 4 + uint64(sizeofString16(e.Comment))
}

func init() {
	registerKind(&kindInfo{ID: KindFrSH, Name: "FrSH", Decode: decodeFrSH, Encode: encodeFrSH, SizeOf: sizeOfFrSH})
	registerKind(&kindInfo{ID: KindFrSE, Name: "FrSE", Decode: decodeFrSE, Encode: encodeFrSE, SizeOf: sizeOfFrSE})
}
