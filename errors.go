package hll

import "errors"

var (
	// ErrInvalidPrecision is returned by TryNew when the requested precision
	// falls outside [4, 18].
	ErrInvalidPrecision = errors.New("hll: precision out of range [4,18]")

	// ErrPrecisionMismatch is returned by Merge when the two sketches were
	// built with different precisions.
	ErrPrecisionMismatch = errors.New("hll: precision mismatch between sketches")

	// ErrAllocationFailure is returned by TryNew if the register buffer
	// could not be allocated. In practice this is unreachable for any
	// precision this package accepts (register buffers are at most 2^18
	// bytes), but the path exists to mirror the original C allocator's
	// NULL-on-failure contract rather than assume allocation never fails.
	ErrAllocationFailure = errors.New("hll: failed to allocate registers")
)
