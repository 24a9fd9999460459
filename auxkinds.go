package frame

// The kinds below are the frame format's lighter auxiliary object kinds:
// a file-level description of a detector's calibration state, the record
// of processing steps applied to a frame, and records of (simulated or
// real) events, summaries, tables and messages. Their domain field
// semantics are out of scope here (out of scope per design note: "per-leaf
// domain semantics of the lighter auxiliary kinds"); each is still a fully
// wired, round-tripping object kind with a name, a comment, an opaque
// payload blob for its leaf fields, and the one FrVect container every
// concrete frameCPP kind in this family carries.

type shapeKind struct {
	Name    string
	Comment string
	Payload []byte
	Data    []*FrVect
}

// FrDetector describes one interferometer's static calibration metadata.
type FrDetector struct{ shapeKind }

// FrHistory records one processing step applied to a frame.
type FrHistory struct{ shapeKind }

// FrEvent records a detected (candidate) event.
type FrEvent struct{ shapeKind }

// FrSimEvent records a simulated/injected event.
type FrSimEvent struct{ shapeKind }

// FrSimData records simulated channel data.
type FrSimData struct{ shapeKind }

// FrSummary records a processing summary for a frame.
type FrSummary struct{ shapeKind }

// FrTable is a generic tabular decoration record, used standalone (as a
// raw-data auxiliary table) and as FrProcData's optional decoration table.
type FrTable struct{ shapeKind }

// FrMsg is a free-text diagnostic message attached to a frame.
type FrMsg struct{ shapeKind }

// FrSerData is a serial-line auxiliary data record (e.g. a slow-control
// channel) held alongside the ADC channel list in FrRawData.
type FrSerData struct{ shapeKind }

// shapeKindFields holds a decoded shapeKind body before it is wrapped in
// its concrete (*FrDetector, *FrHistory, ...) type: the Data container and
// next-pointer appenders must be registered against that final wrapped
// pointer's embedded field, not against a value returned from here, or the
// deferred resolver mutates an object the caller never sees again.
type shapeKindFields struct {
	Name     string
	Comment  string
	Payload  []byte
	dataHead ptrHeader
	nextHead ptrHeader
}

// decodeShapeKind reads the common body shared by every shapeKind-backed
// record and the trailing next-pointer every list element carries, without
// registering either deferred pointer: the caller does that once it has
// wrapped the fields in its concrete type, so the resolver appends to the
// object it actually returns.
func decodeShapeKind(rc *readContext) (shapeKindFields, error) {
	s := rc.s
	var f shapeKindFields
	var err error
	if f.Name, err = s.String16(); err != nil {
		return f, err
	}
	if f.Comment, err = s.String16(); err != nil {
		return f, err
	}
	n, err := s.U32()
	if err != nil {
		return f, err
	}
	if f.Payload, err = s.ReadBytes(int(n)); err != nil {
		return f, err
	}
	dataHead, err := readPtrSlots(s, rc.ver, 1)
	if err != nil {
		return f, err
	}
	f.dataHead = dataHead[0]
	nextHead, err := readPtrSlots(s, rc.ver, 1)
	if err != nil {
		return f, err
	}
	f.nextHead = nextHead[0]
	return f, nil
}

// encodeShapeKind writes the common body. obj is the wrapped pointer
// (e.g. *FrDetector) so nextPtrOf can look up its chain position in the
// write-side dictionary.
func encodeShapeKind(wc *writeContext, obj any, k shapeKind) ([]byte, error) {
	w := newBodyWriter(wc)
	w.String16(k.Name)
	w.String16(k.Comment)
	w.U32(uint32(len(k.Payload)))
	w.WriteBytes(k.Payload)
	if w.Err() != nil {
		return nil, w.Err()
	}
	head := headOf(wc, KindFrVect, len(k.Data), func(i int) any { return k.Data[i] })
	w.U32(head.Class)
	w.U32(head.Instance)
	next := nextPtrOf(wc, obj)
	w.U32(next.Class)
	w.U32(next.Instance)
	return w.Bytes(), w.Err()
}

func sizeOfShapeKind(k shapeKind) uint64 {
	return uint64(sizeofString16(k.Name)) + uint64(sizeofString16(k.Comment)) + 4 + uint64(len(k.Payload)) + 8 + 8
}

func init() {
	registerKind(&kindInfo{
		ID: KindFrDetector, Name: "FrDetector",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrDetector{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrDetector).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrDetector).shapeKind) },
	})
	registerKind(&kindInfo{
		ID: KindFrHistory, Name: "FrHistory",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrHistory{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrHistory).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrHistory).shapeKind) },
	})
	registerKind(&kindInfo{
		ID: KindFrEvent, Name: "FrEvent",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrEvent{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrEvent).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrEvent).shapeKind) },
	})
	registerKind(&kindInfo{
		ID: KindFrSimEvent, Name: "FrSimEvent",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrSimEvent{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrSimEvent).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrSimEvent).shapeKind) },
	})
	registerKind(&kindInfo{
		ID: KindFrSimData, Name: "FrSimData",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrSimData{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrSimData).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrSimData).shapeKind) },
	})
	registerKind(&kindInfo{
		ID: KindFrSummary, Name: "FrSummary",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrSummary{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrSummary).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrSummary).shapeKind) },
	})
	registerKind(&kindInfo{
		ID: KindFrTable, Name: "FrTable",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrTable{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrTable).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrTable).shapeKind) },
	})
	registerKind(&kindInfo{
		ID: KindFrMsg, Name: "FrMsg",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrMsg{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrMsg).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrMsg).shapeKind) },
	})
	registerKind(&kindInfo{
		ID: KindFrSerData, Name: "FrSerData",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrSerData{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) { return encodeShapeKind(wc, obj, obj.(*FrSerData).shapeKind) },
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrSerData).shapeKind) },
	})
}
