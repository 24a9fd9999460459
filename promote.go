package frame

// Version promotion and demotion are implemented per kind, inline in each
// kind's decode/encode pair (fradcdata.go's decodeFrAdcDataV3/
// encodeFrAdcDataV3 is the concrete, fully worked example): a kind whose
// wire shape changed across versions reads every historical shape straight
// into the single canonical (current-version) in-memory struct, and writes
// back out to whichever version the stream targets. There is no separate
// chain of intermediate v3->v4->v6->v7 structs; only the two wire
// endpoints with a concrete field mapping (the oldest supported shape and
// the current one) actually differ. Versions in between are wire-compatible
// with one of the two in every kind this library models, so
// promotion/demotion never needs a multi-hop chain in practice. A kind
// that gains a genuine third wire shape would add a third branch the same
// way, not a new abstraction.
//
// Promoter lets the verifier's check-expandability flag ask a kind whether
// round-tripping through an older version would lose information, without
// actually performing the write.
type Promoter interface {
	// CanDemoteLosslessly reports whether demoting to ver would preserve
	// every field gwframe models.
	CanDemoteLosslessly(ver Version) bool
}

func (a *FrAdcData) CanDemoteLosslessly(ver Version) bool {
	if ver > Version3 {
		return true
	}
	return a.FShift == 0 && a.Phase == 0
}

func (p *FrProcData) CanDemoteLosslessly(ver Version) bool {
	if ver > Version3 {
		return true
	}
	return p.Table == nil
}
