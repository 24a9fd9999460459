package frame

// FrProcData is a derived/processed channel record: a time or frequency
// series produced from one or more raw channels, carrying enough metadata
// to interpret the series without reference to the producing pipeline.
type FrProcData struct {
	Name       string
	Comment    string
	Type       uint32
	SubType    uint32
	TimeOffset GPSTime
	TRange     float64
	FShift     float64
	Phase      float32
	BW         float64

	Data  []*FrVect
	Aux   []*FrVect
	Table *FrTable // decoration table; v3 has no field for it
}

func decodeFrProcData(rc *readContext) (any, error) {
	s := rc.s
	p := &FrProcData{}
	var err error
	if p.Name, err = s.String16(); err != nil {
		return nil, err
	}
	if p.Comment, err = s.String16(); err != nil {
		return nil, err
	}
	if p.Type, err = s.U32(); err != nil {
		return nil, err
	}
	if p.SubType, err = s.U32(); err != nil {
		return nil, err
	}
	if p.TimeOffset.Sec, err = s.U32(); err != nil {
		return nil, err
	}
	if p.TimeOffset.Nsec, err = s.U32(); err != nil {
		return nil, err
	}
	if p.TRange, err = s.F64(); err != nil {
		return nil, err
	}
	if p.FShift, err = s.F64(); err != nil {
		return nil, err
	}
	if p.Phase, err = s.F32(); err != nil {
		return nil, err
	}
	if p.BW, err = s.F64(); err != nil {
		return nil, err
	}

	heads, err := readPtrSlots(s, rc.ver, 3)
	if err != nil {
		return nil, err
	}
	deferContainer(rc, heads[0], func(v any) { p.Data = append(p.Data, v.(*FrVect)) })
	deferContainer(rc, heads[1], func(v any) { p.Aux = append(p.Aux, v.(*FrVect)) })
	if !heads[2].isNull() {
		rc.resolver.Defer(heads[2].key(), func(v any) { p.Table = v.(*FrTable) })
	}
	next, err := readPtrSlots(s, rc.ver, 1)
	if err != nil {
		return nil, err
	}
	deferNext(rc, p, next[0])
	return p, nil
}

func encodeFrProcData(wc *writeContext, obj any) ([]byte, error) {
	p := obj.(*FrProcData)
	if wc.ver <= Version3 && p.Table != nil {
		// v3 has no wire field for a decoration table; a non-empty one
		// cannot be represented at all.
		return nil, ErrUnimplemented
	}
	w := newBodyWriter(wc)
	w.String16(p.Name)
	w.String16(p.Comment)
	w.U32(p.Type)
	w.U32(p.SubType)
	w.U32(p.TimeOffset.Sec)
	w.U32(p.TimeOffset.Nsec)
	w.F64(p.TRange)
	w.F64(p.FShift)
	w.F32(p.Phase)
	w.F64(p.BW)
	if w.Err() != nil {
		return nil, w.Err()
	}

	dataHead := headOf(wc, KindFrVect, len(p.Data), func(i int) any { return p.Data[i] })
	auxHead := headOf(wc, KindFrVect, len(p.Aux), func(i int) any { return p.Aux[i] })
	var tableHead ptrHeader
	if p.Table != nil {
		sr := wc.dict.RefCreate(p.Table, uint32(KindFrTable))
		tableHead = ptrHeader{Class: sr.Class, Instance: sr.Instance}
	}
	for _, h := range []ptrHeader{dataHead, auxHead, tableHead} {
		w.U32(h.Class)
		w.U32(h.Instance)
	}
	next := nextPtrOf(wc, p)
	w.U32(next.Class)
	w.U32(next.Instance)
	return w.Bytes(), w.Err()
}

func sizeOfFrProcData(obj any, ver Version) uint64 {
	p := obj.(*FrProcData)
	return uint64(sizeofString16(p.Name)) + uint64(sizeofString16(p.Comment)) +
		4 + 4 + 4 + 4 + 8 + 8 + 4 + 8 + 4*8
}

func verifyFrProcData(obj any) []error {
	p := obj.(*FrProcData)
	var errs []error
	if p.TRange < 0 {
		errs = append(errs, &MetadataInvalidError{Detail: "FrProcData " + p.Name + ": negative time range"})
	}
	return errs
}

func init() {
	registerKind(&kindInfo{
		ID: KindFrProcData, Name: "FrProcData",
		Decode: decodeFrProcData, Encode: encodeFrProcData, SizeOf: sizeOfFrProcData, Verify: verifyFrProcData,
	})
}
