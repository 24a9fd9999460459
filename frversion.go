package frame

// FrVersion carries the library/originator version string that produced a
// file, an auxiliary record some writers attach near the file header for
// provenance. gwframe treats it as an opaque shape like the other
// auxiliary kinds in auxkinds.go.
type FrVersion struct{ shapeKind }

func init() {
	registerKind(&kindInfo{
		ID:   KindFrVersion,
		Name: "FrVersion",
		Decode: func(rc *readContext) (any, error) {
			f, err := decodeShapeKind(rc)
			if err != nil {
				return nil, err
			}
			v := &FrVersion{shapeKind{Name: f.Name, Comment: f.Comment, Payload: f.Payload}}
			deferContainer(rc, f.dataHead, func(x any) { v.Data = append(v.Data, x.(*FrVect)) })
			deferNext(rc, v, f.nextHead)
			return v, nil
		},
		Encode: func(wc *writeContext, obj any) ([]byte, error) {
			return encodeShapeKind(wc, obj, obj.(*FrVersion).shapeKind)
		},
		SizeOf: func(obj any, ver Version) uint64 { return sizeOfShapeKind(obj.(*FrVersion).shapeKind) },
	})
}
