package hll

// Precision governs the sketch's register count (m = 2^p) and every table
// lookup the estimator pipeline performs. Valid range is [4, 18].
type Precision int32

// clamp pulls an out-of-range requested precision into [minPrecision,
// maxPrecision].
func (p Precision) clamp() Precision {
	if p < minPrecision {
		return minPrecision
	}
	if p > maxPrecision {
		return maxPrecision
	}
	return p
}

func (p Precision) valid() bool {
	return p >= minPrecision && p <= maxPrecision
}

// New returns a Sketch at the given requested precision, clamping it into
// [4, 18] if it falls outside that range. Use Precision() on the result to
// learn the effective value. Panics only if register allocation itself
// panics (see TryNew for the error-returning form).
func New(requestedPrecision int32) *Sketch {
	s, err := newSketch(Precision(requestedPrecision).clamp())
	if err != nil {
		// Clamped precision is always in-range, so the only possible
		// failure here is allocation, which we don't swallow silently.
		panic(err)
	}
	return s
}

// TryNew returns a Sketch at the given requested precision, or
// ErrInvalidPrecision if it falls outside [4, 18]. Returns
// ErrAllocationFailure if the register buffer could not be allocated.
func TryNew(requestedPrecision int32) (*Sketch, error) {
	p := Precision(requestedPrecision)
	if !p.valid() {
		return nil, ErrInvalidPrecision
	}
	return newSketch(p)
}

// TryNewClamped clamps requestedPrecision into [4, 18] the way New does,
// but reports allocation failure as an error instead of panicking. This is
// the constructor the cgo facade uses: panicking across a cgo boundary
// unwinds into undefined behavior, so callers that cross that boundary
// need clamping semantics without the panic.
func TryNewClamped(requestedPrecision int32) (*Sketch, error) {
	return newSketch(Precision(requestedPrecision).clamp())
}

// newSketch allocates a zeroed Sketch at precision p, which must already be
// validated/clamped into range.
func newSketch(p Precision) (s *Sketch, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, ErrAllocationFailure
		}
	}()

	m := uint64(1) << uint(p)

	return &Sketch{
		precision: p,
		registers: make([]uint8, m),
	}, nil
}

// Precision returns the sketch's effective precision.
func (s *Sketch) Precision() Precision {
	return s.precision
}
