package frame

// FrAdcData is an ADC channel record, held in the canonical (version 8)
// in-memory shape regardless of the wire version it was read from or will
// be written to. Older wire shapes are translated on the way in and out by
// decodeFrAdcDataV3/encodeFrAdcDataV3 below.
type FrAdcData struct {
	Name           string
	Comment        string
	ChannelGroup   uint32
	ChannelNumber  uint32
	NBits          uint32
	Bias           float32
	Slope          float32
	Units          string
	SampleRate     float64
	TimeOffset     float64
	FShift         float64
	Phase          float32 // schema-defaulted to 0 when promoted from a version that lacks it
	DataValid      uint16

	Data []*FrVect
	Aux  []*FrVect
}

func decodeFrAdcData(rc *readContext) (any, error) {
	if rc.ver <= Version3 {
		return decodeFrAdcDataV3(rc)
	}
	s := rc.s
	a := &FrAdcData{}
	var err error
	if a.Name, err = s.String16(); err != nil {
		return nil, err
	}
	if a.Comment, err = s.String16(); err != nil {
		return nil, err
	}
	if a.ChannelGroup, err = s.U32(); err != nil {
		return nil, err
	}
	if a.ChannelNumber, err = s.U32(); err != nil {
		return nil, err
	}
	if a.NBits, err = s.U32(); err != nil {
		return nil, err
	}
	if a.Bias, err = s.F32(); err != nil {
		return nil, err
	}
	if a.Slope, err = s.F32(); err != nil {
		return nil, err
	}
	if a.Units, err = s.String16(); err != nil {
		return nil, err
	}
	if a.SampleRate, err = s.F64(); err != nil {
		return nil, err
	}
	if a.TimeOffset, err = s.F64(); err != nil {
		return nil, err
	}
	if a.FShift, err = s.F64(); err != nil {
		return nil, err
	}
	if a.Phase, err = s.F32(); err != nil {
		return nil, err
	}
	if a.DataValid, err = s.U16(); err != nil {
		return nil, err
	}
	heads, err := readPtrSlots(s, rc.ver, 2)
	if err != nil {
		return nil, err
	}
	deferContainer(rc, heads[0], func(v any) { a.Data = append(a.Data, v.(*FrVect)) })
	deferContainer(rc, heads[1], func(v any) { a.Aux = append(a.Aux, v.(*FrVect)) })
	next, err := readPtrSlots(s, rc.ver, 1)
	if err != nil {
		return nil, err
	}
	deferNext(rc, a, next[0])
	return a, nil
}

// decodeFrAdcDataV3 reads the version-3 wire shape directly into the
// canonical struct: crate+channel collapse into channelGroup+channelNumber,
// the split GPS time offset collapses into one float64 seconds value, and
// overRange is copied into dataValid unchanged (see
// promoteFrAdcDataV3Fields).
func decodeFrAdcDataV3(rc *readContext) (any, error) {
	s := rc.s
	a := &FrAdcData{}
	var err error
	if a.Name, err = s.String16(); err != nil {
		return nil, err
	}
	if a.Comment, err = s.String16(); err != nil {
		return nil, err
	}
	crate, err := s.U32()
	if err != nil {
		return nil, err
	}
	channel, err := s.U32()
	if err != nil {
		return nil, err
	}
	if a.NBits, err = s.U32(); err != nil {
		return nil, err
	}
	if a.Bias, err = s.F32(); err != nil {
		return nil, err
	}
	if a.Slope, err = s.F32(); err != nil {
		return nil, err
	}
	if a.Units, err = s.String16(); err != nil {
		return nil, err
	}
	if a.SampleRate, err = s.F64(); err != nil {
		return nil, err
	}
	timeOffsetS, err := s.U32()
	if err != nil {
		return nil, err
	}
	timeOffsetN, err := s.U32()
	if err != nil {
		return nil, err
	}
	overRange, err := s.U32()
	if err != nil {
		return nil, err
	}
	promoteFrAdcDataV3Fields(a, crate, channel, timeOffsetS, timeOffsetN, overRange)

	heads, err := readPtrSlots(s, rc.ver, 2)
	if err != nil {
		return nil, err
	}
	deferContainer(rc, heads[0], func(v any) { a.Data = append(a.Data, v.(*FrVect)) })
	deferContainer(rc, heads[1], func(v any) { a.Aux = append(a.Aux, v.(*FrVect)) })
	next, err := readPtrSlots(s, rc.ver, 1)
	if err != nil {
		return nil, err
	}
	deferNext(rc, a, next[0])
	return a, nil
}

// promoteFrAdcDataV3Fields applies the v3->v8 field mapping in place.
// ChannelGroup/ChannelNumber take crate/channel verbatim (the rename
// carries no unit or range change); the split GPS offset collapses to
// seconds; overRange and dataValid share one convention (zero means the
// ADC data is valid), so dataValid takes overRange's value directly; Phase
// has no v3 counterpart so it takes the schema default of 0.
func promoteFrAdcDataV3Fields(a *FrAdcData, crate, channel, timeOffsetS, timeOffsetN, overRange uint32) {
	a.ChannelGroup = crate
	a.ChannelNumber = channel
	a.TimeOffset = float64(timeOffsetS) + float64(timeOffsetN)*1e-9
	a.DataValid = uint16(overRange)
	a.Phase = 0
}

// demoteFrAdcDataV3Fields is the inverse mapping used by encodeFrAdcDataV3.
// It returns ErrLossyDemote when fShift or phase carry information v3 has
// no field for and strict mode is requested.
func demoteFrAdcDataV3Fields(a *FrAdcData, strict bool) (crate, channel, timeOffsetS, timeOffsetN, overRange uint32, err error) {
	if strict && (a.FShift != 0 || a.Phase != 0) {
		return 0, 0, 0, 0, 0, ErrLossyDemote
	}
	crate = a.ChannelGroup
	channel = a.ChannelNumber
	whole := float64(int64(a.TimeOffset))
	frac := a.TimeOffset - whole
	timeOffsetS = uint32(whole)
	timeOffsetN = uint32(frac * 1e9)
	overRange = uint32(a.DataValid)
	return
}

func encodeFrAdcData(wc *writeContext, obj any) ([]byte, error) {
	if wc.ver <= Version3 {
		return encodeFrAdcDataV3(wc, obj)
	}
	a := obj.(*FrAdcData)
	w := newBodyWriter(wc)
	w.String16(a.Name)
	w.String16(a.Comment)
	w.U32(a.ChannelGroup)
	w.U32(a.ChannelNumber)
	w.U32(a.NBits)
	w.F32(a.Bias)
	w.F32(a.Slope)
	w.String16(a.Units)
	w.F64(a.SampleRate)
	w.F64(a.TimeOffset)
	w.F64(a.FShift)
	w.F32(a.Phase)
	w.U16(a.DataValid)
	if w.Err() != nil {
		return nil, w.Err()
	}
	heads := []ptrHeader{
		headOf(wc, KindFrVect, len(a.Data), func(i int) any { return a.Data[i] }),
		headOf(wc, KindFrVect, len(a.Aux), func(i int) any { return a.Aux[i] }),
	}
	for _, h := range heads {
		w.U32(h.Class)
		w.U32(h.Instance)
	}
	next := nextPtrOf(wc, a)
	w.U32(next.Class)
	w.U32(next.Instance)
	return w.Bytes(), w.Err()
}

func encodeFrAdcDataV3(wc *writeContext, obj any) ([]byte, error) {
	a := obj.(*FrAdcData)
	crate, channel, toS, toN, overRange, err := demoteFrAdcDataV3Fields(a, false)
	if err != nil {
		return nil, err
	}
	w := newBodyWriter(wc)
	w.String16(a.Name)
	w.String16(a.Comment)
	w.U32(crate)
	w.U32(channel)
	w.U32(a.NBits)
	w.F32(a.Bias)
	w.F32(a.Slope)
	w.String16(a.Units)
	w.F64(a.SampleRate)
	w.U32(toS)
	w.U32(toN)
	w.U32(overRange)
	if w.Err() != nil {
		return nil, w.Err()
	}
	heads := []ptrHeader{
		headOf(wc, KindFrVect, len(a.Data), func(i int) any { return a.Data[i] }),
		headOf(wc, KindFrVect, len(a.Aux), func(i int) any { return a.Aux[i] }),
	}
	for _, h := range heads {
		w.U32(h.Class)
		w.U32(h.Instance)
	}
	next := nextPtrOf(wc, a)
	w.U32(next.Class)
	w.U32(next.Instance)
	return w.Bytes(), w.Err()
}

func sizeOfFrAdcData(obj any, ver Version) uint64 {
	a := obj.(*FrAdcData)
	base := uint64(sizeofString16(a.Name)) + uint64(sizeofString16(a.Comment)) +
		4 + 4 + 4 + 4 + 4 + uint64(sizeofString16(a.Units)) + 8 + 2*8 + 8
	if ver <= Version3 {
		base += 4 + 4 + 4 // timeOffsetS + timeOffsetN + overRange
	} else {
		base += 8 + 8 + 4 + 2 // timeOffset + fShift + phase + dataValid
	}
	return base
}

func verifyFrAdcData(obj any) []error {
	a := obj.(*FrAdcData)
	var errs []error
	if a.SampleRate <= 0 {
		errs = append(errs, &MetadataInvalidError{Detail: "FrAdcData " + a.Name + ": non-positive sample rate"})
	}
	return errs
}

func init() {
	registerKind(&kindInfo{
		ID: KindFrAdcData, Name: "FrAdcData",
		Decode: decodeFrAdcData, Encode: encodeFrAdcData, SizeOf: sizeOfFrAdcData, Verify: verifyFrAdcData,
	})
}
