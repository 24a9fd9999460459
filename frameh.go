package frame

import (
	"github.com/ligo-gw/frame/internal/dictionary"
	"github.com/ligo-gw/frame/internal/streamio"
)

// FrameH is the per-frame header, the root object of one frame's object
// graph: a name, the GPS start time of the frame, its duration, a
// run/frame counter pair, leap-second count, a data-quality word, and the
// ordered containers of every channel and auxiliary kind attached to the
// frame.
type FrameH struct {
	Name        string
	Run         int32
	Frame       uint32
	DataQuality uint32
	GTimeS      uint32
	GTimeN      uint32
	ULeapS      uint16
	Dt          float64

	RawData   *FrRawData
	ProcData  []*FrProcData
	SimData   []*FrSimData
	Event     []*FrEvent
	SimEvent  []*FrSimEvent
	Summary   []*FrSummary
	Aux       []*FrVect
	Table     []*FrTable
	Detectors []*FrDetector
	History   []*FrHistory
	Versions  []*FrVersion
}

func decodeFrameH(rc *readContext) (any, error) {
	s := rc.s
	fr := &FrameH{}
	var err error
	if fr.Name, err = s.String16(); err != nil {
		return nil, err
	}
	if fr.Run, err = s.I32(); err != nil {
		return nil, err
	}
	if fr.Frame, err = s.U32(); err != nil {
		return nil, err
	}
	if fr.DataQuality, err = s.U32(); err != nil {
		return nil, err
	}
	if fr.GTimeS, err = s.U32(); err != nil {
		return nil, err
	}
	if fr.GTimeN, err = s.U32(); err != nil {
		return nil, err
	}
	if fr.ULeapS, err = s.U16(); err != nil {
		return nil, err
	}
	if fr.Dt, err = s.F64(); err != nil {
		return nil, err
	}

	// Linked-list head pointers, resolved once every record in the frame
	// has been read: each container field is a deferred resolution against
	// the head of its linked list.
	heads, err := readPtrSlots(s, rc.ver, 11)
	if err != nil {
		return nil, err
	}
	if !heads[0].isNull() {
		rc.resolver.Defer(heads[0].key(), func(v any) { fr.RawData = v.(*FrRawData) })
	}
	deferContainer(rc, heads[1], func(v any) { fr.ProcData = append(fr.ProcData, v.(*FrProcData)) })
	deferContainer(rc, heads[2], func(v any) { fr.SimData = append(fr.SimData, v.(*FrSimData)) })
	deferContainer(rc, heads[3], func(v any) { fr.Event = append(fr.Event, v.(*FrEvent)) })
	deferContainer(rc, heads[4], func(v any) { fr.SimEvent = append(fr.SimEvent, v.(*FrSimEvent)) })
	deferContainer(rc, heads[5], func(v any) { fr.Summary = append(fr.Summary, v.(*FrSummary)) })
	deferContainer(rc, heads[6], func(v any) { fr.Aux = append(fr.Aux, v.(*FrVect)) })
	deferContainer(rc, heads[7], func(v any) { fr.Table = append(fr.Table, v.(*FrTable)) })
	deferContainer(rc, heads[8], func(v any) { fr.Detectors = append(fr.Detectors, v.(*FrDetector)) })
	deferContainer(rc, heads[9], func(v any) { fr.History = append(fr.History, v.(*FrHistory)) })
	deferContainer(rc, heads[10], func(v any) { fr.Versions = append(fr.Versions, v.(*FrVersion)) })

	return fr, nil
}

func encodeFrameH(wc *writeContext, obj any) ([]byte, error) {
	fr := obj.(*FrameH)
	w := newBodyWriter(wc)
	w.String16(fr.Name)
	w.I32(fr.Run)
	w.U32(fr.Frame)
	w.U32(fr.DataQuality)
	w.U32(fr.GTimeS)
	w.U32(fr.GTimeN)
	w.U16(fr.ULeapS)
	w.F64(fr.Dt)
	if w.Err() != nil {
		return nil, w.Err()
	}

	heads := make([]ptrHeader, 11)
	if fr.RawData != nil {
		sr := wc.dict.RefCreate(fr.RawData, uint32(KindFrRawData))
		heads[0] = ptrHeader{Class: sr.Class, Instance: sr.Instance}
	}
	heads[1] = headOf(wc, KindFrProcData, len(fr.ProcData), func(i int) any { return fr.ProcData[i] })
	heads[2] = headOf(wc, KindFrSimData, len(fr.SimData), func(i int) any { return fr.SimData[i] })
	heads[3] = headOf(wc, KindFrEvent, len(fr.Event), func(i int) any { return fr.Event[i] })
	heads[4] = headOf(wc, KindFrSimEvent, len(fr.SimEvent), func(i int) any { return fr.SimEvent[i] })
	heads[5] = headOf(wc, KindFrSummary, len(fr.Summary), func(i int) any { return fr.Summary[i] })
	heads[6] = headOf(wc, KindFrVect, len(fr.Aux), func(i int) any { return fr.Aux[i] })
	heads[7] = headOf(wc, KindFrTable, len(fr.Table), func(i int) any { return fr.Table[i] })
	heads[8] = headOf(wc, KindFrDetector, len(fr.Detectors), func(i int) any { return fr.Detectors[i] })
	heads[9] = headOf(wc, KindFrHistory, len(fr.History), func(i int) any { return fr.History[i] })
	heads[10] = headOf(wc, KindFrVersion, len(fr.Versions), func(i int) any { return fr.Versions[i] })

	for _, h := range heads {
		w.U32(h.Class)
		w.U32(h.Instance)
	}
	return w.Bytes(), w.Err()
}

// headOf returns the head pointer of an in-memory slice once every element
// has been assigned a stable instance id, chaining dict.SetNext across them
// in declaration order so the graph walk that later emits each element as
// its own top-level record (outstream.go's writeFrameGraph and its
// siblings) reproduces the same list order.
func headOf(wc *writeContext, kind KindID, n int, at func(int) any) ptrHeader {
	if n == 0 {
		return nullPtr
	}
	var prev any
	var headSR dictionary.StreamRef
	for i := 0; i < n; i++ {
		obj := at(i)
		sr := wc.dict.RefCreate(obj, uint32(kind))
		if i == 0 {
			headSR = sr
		}
		if prev != nil {
			wc.dict.SetNext(prev, obj)
		}
		prev = obj
	}
	return ptrHeader{Class: headSR.Class, Instance: headSR.Instance}
}

func deferContainer(rc *readContext, head ptrHeader, appendTo func(any)) {
	if head.isNull() {
		return
	}
	rc.resolver.DeferContainer(head.key(), appendTo)
}

func readPtrSlots(s *streamio.Stream, ver Version, n int) ([]ptrHeader, error) {
	out := make([]ptrHeader, n)
	for i := 0; i < n; i++ {
		c, err := s.U32()
		if err != nil {
			return nil, err
		}
		inst, err := s.U32()
		if err != nil {
			return nil, err
		}
		out[i] = ptrHeader{Class: c, Instance: inst}
	}
	return out, nil
}

func sizeOfFrameH(obj any, ver Version) uint64 {
	fr := obj.(*FrameH)
	return uint64(sizeofString16(fr.Name)) + 4 + 4 + 4 + 4 + 4 + 2 + 8 + uint64(11*8)
}

func verifyFrameH(obj any) []error {
	fr := obj.(*FrameH)
	var errs []error
	if fr.Name == "" {
		errs = append(errs, &MetadataInvalidError{Detail: "FrameH: empty name"})
	}
	return errs
}

func init() {
	registerKind(&kindInfo{
		ID: KindFrameH, Name: "FrameH",
		Decode: decodeFrameH, Encode: encodeFrameH, SizeOf: sizeOfFrameH, Verify: verifyFrameH,
	})
}
