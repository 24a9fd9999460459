package frame

// FrRawData is the per-frame container of raw (undecimated) channel data:
// the ADC channel list plus auxiliary raw-data tables and serial-data
// records.
type FrRawData struct {
	Name    string
	Adc     []*FrAdcData
	Ser     []*FrSerData
	Table   []*FrTable
	Other   []*FrVect
}

func decodeFrRawData(rc *readContext) (any, error) {
	s := rc.s
	rd := &FrRawData{}
	var err error
	if rd.Name, err = s.String16(); err != nil {
		return nil, err
	}
	heads, err := readPtrSlots(s, rc.ver, 4)
	if err != nil {
		return nil, err
	}
	deferContainer(rc, heads[0], func(v any) { rd.Adc = append(rd.Adc, v.(*FrAdcData)) })
	deferContainer(rc, heads[1], func(v any) { rd.Ser = append(rd.Ser, v.(*FrSerData)) })
	deferContainer(rc, heads[2], func(v any) { rd.Table = append(rd.Table, v.(*FrTable)) })
	deferContainer(rc, heads[3], func(v any) { rd.Other = append(rd.Other, v.(*FrVect)) })
	return rd, nil
}

func encodeFrRawData(wc *writeContext, obj any) ([]byte, error) {
	rd := obj.(*FrRawData)
	w := newBodyWriter(wc)
	w.String16(rd.Name)
	if w.Err() != nil {
		return nil, w.Err()
	}
	heads := []ptrHeader{
		headOf(wc, KindFrAdcData, len(rd.Adc), func(i int) any { return rd.Adc[i] }),
		headOf(wc, KindFrSerData, len(rd.Ser), func(i int) any { return rd.Ser[i] }),
		headOf(wc, KindFrTable, len(rd.Table), func(i int) any { return rd.Table[i] }),
		headOf(wc, KindFrVect, len(rd.Other), func(i int) any { return rd.Other[i] }),
	}
	for _, h := range heads {
		w.U32(h.Class)
		w.U32(h.Instance)
	}
	return w.Bytes(), w.Err()
}

func sizeOfFrRawData(obj any, ver Version) uint64 {
	rd := obj.(*FrRawData)
	return uint64(sizeofString16(rd.Name)) + 4*8
}

func verifyFrRawData(obj any) []error {
	rd := obj.(*FrRawData)
	seen := map[string]bool{}
	var errs []error
	for _, a := range rd.Adc {
		if seen[a.Name] {
			errs = append(errs, &DuplicateChannelNameError{Kind: "FrAdcData", Name: a.Name})
		}
		seen[a.Name] = true
	}
	return errs
}

func init() {
	registerKind(&kindInfo{
		ID: KindFrRawData, Name: "FrRawData",
		Decode: decodeFrRawData, Encode: encodeFrRawData, SizeOf: sizeOfFrRawData, Verify: verifyFrRawData,
	})
}
