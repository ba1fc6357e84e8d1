// Command libhllpp is the cgo facade that exposes the hll package to C
// callers as a handle-indexed shared library, mirroring the dual Go/C
// surface of the original libcount (include/count/hllc.h): the estimator
// logic is never duplicated here, this package only translates between
// opaque *C.HLL_CTX handles and *hll.Sketch values.
package main

/*
#include <stdint.h>

typedef struct HLL_CTX HLL_CTX;
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	hll "github.com/kixa/hllpp-go"
)

// HLL_init allocates a sketch at the given precision, clamping it into
// range the way hll.New does, and returns an opaque handle. Returns NULL
// if the underlying allocation fails.
//
//export HLL_init
func HLL_init(precision C.int) *C.HLL_CTX {
	s, err := hll.TryNewClamped(int32(precision))
	if err != nil {
		return nil
	}

	h := cgo.NewHandle(s)
	return (*C.HLL_CTX)(unsafe.Pointer(uintptr(h)))
}

// HLL_update folds one already-hashed element into the sketch behind ctx.
// Returns 0 on success, -1 if ctx is not a live handle.
//
//export HLL_update
func HLL_update(ctx *C.HLL_CTX, elementHash C.uint64_t) C.int {
	s, ok := sketchFromHandle(ctx)
	if !ok {
		return -1
	}

	s.Update(uint64(elementHash))
	return 0
}

// HLL_cardinality writes the current cardinality estimate to *cardinality.
// Returns 0 on success, -1 if ctx is not a live handle.
//
//export HLL_cardinality
func HLL_cardinality(ctx *C.HLL_CTX, cardinality *C.uint64_t) C.int {
	s, ok := sketchFromHandle(ctx)
	if !ok {
		return -1
	}

	*cardinality = C.uint64_t(s.Estimate())
	return 0
}

// HLL_merge folds src's registers into dst's. Returns 0 on success, -1 if
// either handle is dead or the two sketches were built at different
// precisions.
//
//export HLL_merge
func HLL_merge(dst *C.HLL_CTX, src *C.HLL_CTX) C.int {
	d, ok := sketchFromHandle(dst)
	if !ok {
		return -1
	}

	s, ok := sketchFromHandle(src)
	if !ok {
		return -1
	}

	if err := d.Merge(s); err != nil {
		return -1
	}

	return 0
}

// HLL_precision reports the precision a context was actually allocated
// with, after clamping. Returns -1 if ctx is not a live handle.
//
//export HLL_precision
func HLL_precision(ctx *C.HLL_CTX) C.int {
	s, ok := sketchFromHandle(ctx)
	if !ok {
		return -1
	}

	return C.int(s.Precision())
}

// HLL_free releases the handle. The context must not be used afterward.
//
//export HLL_free
func HLL_free(ctx *C.HLL_CTX) {
	if ctx == nil {
		return
	}

	cgo.Handle(uintptr(unsafe.Pointer(ctx))).Delete()
}

func sketchFromHandle(ctx *C.HLL_CTX) (s *hll.Sketch, ok bool) {
	if ctx == nil {
		return nil, false
	}

	// cgo.Handle.Value panics on a handle that is not live; report it as a
	// dead handle instead of letting the panic cross the cgo boundary.
	defer func() {
		if recover() != nil {
			s, ok = nil, false
		}
	}()

	h := cgo.Handle(uintptr(unsafe.Pointer(ctx)))

	v := h.Value()
	s, ok = v.(*hll.Sketch)
	return s, ok
}

func main() {}
