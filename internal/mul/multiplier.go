//go:generate mockgen -source=multiplier.go -destination=mocks/mock_multiplier.go -package=mocks

package mul

import "math/big"

// Multiplier is the general multiplication collaborator consumed by the
// exact-division and squaring engines. Implementations must not retain any
// argument beyond the call.
type Multiplier interface {
	// Mul sets out = x*y, with len(x) >= len(y) >= 1 and
	// len(out) == len(x)+len(y). out must not overlap x or y.
	Mul(out, x, y []big.Word)

	// MulLow sets out = x*y mod B^n for n == len(out) == len(x) == len(y).
	MulLow(out, x, y []big.Word)

	// MulmodBnm1 sets out = a*b mod (B^m - 1) with 0 < len(b) <= len(a) <= m.
	// When len(a)+len(b) <= m the plain product is written and out is zero
	// padded to m limbs. The residue 0 of a nonzero product may be returned
	// as B^m - 1. scratch must hold MulmodBnm1ScratchLen(m, len(a), len(b))
	// limbs.
	MulmodBnm1(out []big.Word, m int, a, b, scratch []big.Word)

	// MulmodBnm1NextSize returns the smallest modulus size >= n supported
	// by MulmodBnm1. The result never exceeds n + ceil(n/2).
	MulmodBnm1NextSize(n int) int

	// MulmodBnm1ScratchLen returns the scratch needed by MulmodBnm1.
	MulmodBnm1ScratchLen(m, an, bn int) int
}
