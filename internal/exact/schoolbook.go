package exact

import (
	"math/big"

	"github.com/agbru/limbcalc/internal/limbs"
)

// The schoolbook kernels take dinv = -1/ds[0] mod B. Each step picks the
// limb q that clears the lowest remaining dividend limb when q*ds is added,
// so the accumulated quotient is -N/D; it is stored complemented and the
// final increment turns it into N/D.

// divSchoolbook sets qs[:len(ns)] = ns / ds mod B^len(ns). ns is destroyed.
// Requires len(ns) >= len(ds) >= 1.
func divSchoolbook(qs, ns, ds []big.Word, dinv big.Word) {
	n, d := len(ns), len(ds)
	qs = qs[:n]
	diff := n - d
	for i := range diff {
		q := dinv * ns[i]
		c := limbs.AddMul(ns[i:i+d], ds, q)
		limbs.AddLimbInPlace(ns[i+d:], c)
		qs[i] = ^q
	}
	last := n - 1
	for i := diff; i < last; i++ {
		q := dinv * ns[i]
		limbs.AddMul(ns[i:], ds[:n-i], q)
		qs[i] = ^q
	}
	qs[last] = ^(dinv * ns[last])
	limbs.AddLimbInPlace(qs, 1)
}

// divModSchoolbook sets qs[:q] = ns / ds mod B^q for q = len(ns) - len(ds)
// and leaves (ns - qs*ds) / B^q in ns[q:], offset by B^len(ds) when the
// result is true. Requires len(ns) > len(ds) >= 1.
//
// The carries of each block of d steps are parked in the cleared low limbs
// and added in bulk once the block is done.
func divModSchoolbook(qs, ns, ds []big.Word, dinv big.Word) bool {
	n, d := len(ns), len(ds)
	qn := n - d
	qs = qs[:qn]
	highest := false
	lowest := true
	rest := qn
	for rest > d {
		qd := qn - rest
		for i := qd; i < n-rest; i++ {
			q := dinv * ns[i]
			ns[i] = limbs.AddMul(ns[i:i+d], ds, q)
			qs[i] = ^q
		}
		np := ns[qd:]
		if limbs.AddInPlace(np[d:d+rest], np[:d]) != 0 {
			highest = true
		}
		if lowest && limbs.AddLimbInPlace(qs[qd:n-rest], 1) == 0 {
			lowest = false
		}
		rest -= d
	}
	qd := qn - rest
	for i := qd; i < qn; i++ {
		q := dinv * ns[i]
		ns[i] = limbs.AddMul(ns[i:i+d], ds, q)
		qs[i] = ^q
	}
	np := ns[qd:]
	if limbs.AddSameInPlace(np[d:d+rest], np[:rest]) != 0 {
		highest = true
	}
	if lowest && limbs.AddLimbInPlace(qs[qd:], 1) != 0 {
		return false
	}
	borrow := limbs.SubSameInPlace(ns[qn:], ds) != 0
	return borrow != highest
}
