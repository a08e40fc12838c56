// Scratch buffers for the top-level entry points. Kernels themselves never
// allocate; the callers that size a scratch region for a variable-length
// call take it from here.

package limbs

import (
	"math/bits"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// Scratch Pools
// ─────────────────────────────────────────────────────────────────────────────

// scratchSizes are the pool size classes, powers of 4 from 64 limbs to 4M limbs.
var scratchSizes = [...]int{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}

var scratchPools = [len(scratchSizes)]sync.Pool{}

func init() {
	for i := range scratchPools {
		size := scratchSizes[i]
		scratchPools[i].New = func() any {
			s := make([]Word, size)
			return &s
		}
	}
}

// poolIndex returns the size class for n limbs, or -1 when n is too large to
// pool. Class i holds 4^(i+3) limbs.
func poolIndex(n int) int {
	if n <= scratchSizes[0] {
		return 0
	}
	if n > scratchSizes[len(scratchSizes)-1] {
		return -1
	}
	return (bits.Len(uint(n-1)) - 5) / 2
}

// Acquire returns a zeroed limb slice of length n. Release it when done:
//
//	s := limbs.Acquire(n)
//	defer limbs.Release(s)
func Acquire(n int) []Word {
	s := AcquireDirty(n)
	clear(s)
	return s
}

// AcquireDirty is Acquire without the clear, for callers that overwrite the
// whole slice or treat its contents as garbage (scratch).
func AcquireDirty(n int) []Word {
	idx := poolIndex(n)
	if idx < 0 {
		return make([]Word, n)
	}
	p := scratchPools[idx].Get().(*[]Word)
	return (*p)[:n]
}

// Release returns s to its pool. Slices that did not come from Acquire are
// left to the garbage collector. Safe to call with nil.
func Release(s []Word) {
	if s == nil {
		return
	}
	c := cap(s)
	idx := poolIndex(c)
	if idx < 0 || scratchSizes[idx] != c {
		return
	}
	s = s[:c]
	scratchPools[idx].Put(&s)
}
