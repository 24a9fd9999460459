package frame

import "sort"

// FrTOC is the table of contents written once near the end of a frame
// file: a frame-offset table (absolute byte offset of every FrameH), the
// matching GPS time/duration per frame, and a two-level channel-offset
// index (channel name -> per-frame byte offset of that channel's
// FrAdcData record, 0 where the channel is absent from a given frame).
// InputStream does not consult it for lookups: ReadAdcData and the other
// accessors search the frames the one-shot decode pass already built.
//
// This is gwframe's own internal index shape, not a bit-for-bit rendition
// of any particular on-disk LDAS TOC layout: the original format's TOC
// also carries static-data offset tables (detector, history) and per-kind
// auxiliary indices that no property or scenario in scope here exercises,
// so they are not modeled.
type FrTOC struct {
	ULeapS        uint16
	FrameOffsets  []int64
	GTimeS        []uint32
	GTimeN        []uint32
	Dt            []float64
	ChannelOffset map[string][]int64
}

func newFrTOC() *FrTOC {
	return &FrTOC{ChannelOffset: map[string][]int64{}}
}

// AddFrame records one frame's position and GPS time in the TOC and gives
// every channel already indexed a 0 slot for the new frame, which
// SetChannelOffset overwrites when the channel is present in it.
func (t *FrTOC) AddFrame(offset int64, gTimeS, gTimeN uint32, dt float64) {
	t.FrameOffsets = append(t.FrameOffsets, offset)
	t.GTimeS = append(t.GTimeS, gTimeS)
	t.GTimeN = append(t.GTimeN, gTimeN)
	t.Dt = append(t.Dt, dt)
	for name, slots := range t.ChannelOffset {
		t.ChannelOffset[name] = append(slots, 0)
	}
}

// SetChannelOffset records the byte offset of channel name's FrAdcData
// record within the frame at frameIndex.
func (t *FrTOC) SetChannelOffset(name string, frameIndex int, offset int64) {
	slots, ok := t.ChannelOffset[name]
	if !ok {
		slots = make([]int64, len(t.FrameOffsets))
	}
	for len(slots) <= frameIndex {
		slots = append(slots, 0)
	}
	slots[frameIndex] = offset
	t.ChannelOffset[name] = slots
}

// FrameCount returns how many frames the TOC has indexed.
func (t *FrTOC) FrameCount() int { return len(t.FrameOffsets) }

// sortedChannelNames returns m's keys in lexical order, so two writes of
// the same channel set produce byte-identical TOC records instead of one
// that depends on Go's randomized map iteration.
func sortedChannelNames(m map[string][]int64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decodeFrTOC(rc *readContext) (any, error) {
	s := rc.s
	t := newFrTOC()
	var err error
	if t.ULeapS, err = s.U16(); err != nil {
		return nil, err
	}
	nFrames, err := s.U32()
	if err != nil {
		return nil, err
	}
	t.FrameOffsets = make([]int64, nFrames)
	t.GTimeS = make([]uint32, nFrames)
	t.GTimeN = make([]uint32, nFrames)
	t.Dt = make([]float64, nFrames)
	for i := range t.FrameOffsets {
		off, err := s.U64()
		if err != nil {
			return nil, err
		}
		t.FrameOffsets[i] = int64(off)
		if t.GTimeS[i], err = s.U32(); err != nil {
			return nil, err
		}
		if t.GTimeN[i], err = s.U32(); err != nil {
			return nil, err
		}
		if t.Dt[i], err = s.F64(); err != nil {
			return nil, err
		}
	}
	nChannels, err := s.U32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < nChannels; i++ {
		name, err := s.String16()
		if err != nil {
			return nil, err
		}
		slots := make([]int64, nFrames)
		for j := range slots {
			off, err := s.U64()
			if err != nil {
				return nil, err
			}
			slots[j] = int64(off)
		}
		t.ChannelOffset[name] = slots
	}
	return t, nil
}

func encodeFrTOC(wc *writeContext, obj any) ([]byte, error) {
	t := obj.(*FrTOC)
	w := newBodyWriter(wc)
	w.U16(t.ULeapS)
	w.U32(uint32(len(t.FrameOffsets)))
	for i := range t.FrameOffsets {
		w.U64(uint64(t.FrameOffsets[i]))
		w.U32(t.GTimeS[i])
		w.U32(t.GTimeN[i])
		w.F64(t.Dt[i])
	}
	w.U32(uint32(len(t.ChannelOffset)))
	for _, name := range sortedChannelNames(t.ChannelOffset) {
		w.String16(name)
		for _, off := range t.ChannelOffset[name] {
			w.U64(uint64(off))
		}
	}
	return w.Bytes(), w.Err()
}

func sizeOfFrTOC(obj any, ver Version) uint64 {
	t := obj.(*FrTOC)
	n := uint64(2 + 4 + len(t.FrameOffsets)*(8+4+4+8) + 4)
	for name, slots := range t.ChannelOffset {
		n += uint64(sizeofString16(name)) + uint64(len(slots)*8)
	}
	return n
}

func init() {
	registerKind(&kindInfo{
		ID: KindFrTOC, Name: "FrTOC",
		Decode: decodeFrTOC, Encode: encodeFrTOC, SizeOf: sizeOfFrTOC,
	})
}
