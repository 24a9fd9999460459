package frame

// GPSTime is a GPS-epoch timestamp split into whole seconds and nanoseconds,
// used where the wire format stores an absolute time rather than a relative
// offset: FrProcData.TimeOffset is a GPS time, distinct from FrAdcData's
// plain real-valued offset in seconds.
type GPSTime struct {
	Sec  uint32
	Nsec uint32
}
