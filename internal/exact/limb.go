package exact

import (
	"math/big"
	"math/bits"

	"github.com/agbru/limbcalc/internal/limbs"
)

// invertLimbTable[i] is the inverse of 2i+1 modulo 2^8.
var invertLimbTable = [128]uint8{
	0x01, 0xab, 0xcd, 0xb7, 0x39, 0xa3, 0xc5, 0xef, 0xf1, 0x1b, 0x3d, 0xa7, 0x29, 0x13, 0x35, 0xdf,
	0xe1, 0x8b, 0xad, 0x97, 0x19, 0x83, 0xa5, 0xcf, 0xd1, 0xfb, 0x1d, 0x87, 0x09, 0xf3, 0x15, 0xbf,
	0xc1, 0x6b, 0x8d, 0x77, 0xf9, 0x63, 0x85, 0xaf, 0xb1, 0xdb, 0xfd, 0x67, 0xe9, 0xd3, 0xf5, 0x9f,
	0xa1, 0x4b, 0x6d, 0x57, 0xd9, 0x43, 0x65, 0x8f, 0x91, 0xbb, 0xdd, 0x47, 0xc9, 0xb3, 0xd5, 0x7f,
	0x81, 0x2b, 0x4d, 0x37, 0xb9, 0x23, 0x45, 0x6f, 0x71, 0x9b, 0xbd, 0x27, 0xa9, 0x93, 0xb5, 0x5f,
	0x61, 0x0b, 0x2d, 0x17, 0x99, 0x03, 0x25, 0x4f, 0x51, 0x7b, 0x9d, 0x07, 0x89, 0x73, 0x95, 0x3f,
	0x41, 0xeb, 0x0d, 0xf7, 0x79, 0xe3, 0x05, 0x2f, 0x31, 0x5b, 0x7d, 0xe7, 0x69, 0x53, 0x75, 0x1f,
	0x21, 0xcb, 0xed, 0xd7, 0x59, 0xc3, 0xe5, 0x0f, 0x11, 0x3b, 0x5d, 0xc7, 0x49, 0x33, 0x55, 0xff,
}

// ModularInverseLimb returns the inverse of the odd limb x modulo B.
//
// The table seed is correct to 8 bits and every Newton step y = 2y - x*y*y
// doubles the number of correct bits.
func ModularInverseLimb(x big.Word) big.Word {
	if x&1 == 0 {
		panic(violation("ModularInverseLimb", "even value %#x", x))
	}
	return inverseLimb(x)
}

func inverseLimb(x big.Word) big.Word {
	inv := big.Word(invertLimbTable[(x>>1)&127])
	inv = inv<<1 - inv*inv*x
	inv = inv<<1 - inv*inv*x
	if limbs.W == 64 {
		inv = inv<<1 - inv*inv*x
	}
	return inv
}

// negInverseLimb returns -1/x mod B, the multiplier of the binary division
// loops.
func negInverseLimb(x big.Word) big.Word {
	return -inverseLimb(x)
}

// ─────────────────────────────────────────────────────────────────────────────
// Division by one limb
// ─────────────────────────────────────────────────────────────────────────────

const (
	maxOver3   = limbs.MaxLimb / 3
	maxOver255 = limbs.MaxLimb / 255
)

// DivExactLimb sets out[:len(ns)] = ns / d, where d must divide ns exactly.
// out may be ns itself. Divisors 3 use a multiply-only recurrence; even
// divisors are shifted by their trailing zeros on the fly.
func DivExactLimb(out, ns []big.Word, d big.Word) {
	switch {
	case d == 0:
		panic(violation("DivExactLimb", "division by zero"))
	case len(ns) == 0:
		panic(violation("DivExactLimb", "empty dividend"))
	case len(out) < len(ns):
		panic(violation("DivExactLimb", "output has %d limbs, need %d", len(out), len(ns)))
	}
	divExactLimb(out, ns, d)
}

// DivExactLimbInPlace sets ns = ns / d.
func DivExactLimbInPlace(ns []big.Word, d big.Word) {
	DivExactLimb(ns, ns, d)
}

// DivExactLimbAlloc returns ns / d in a new slice of len(ns) limbs.
func DivExactLimbAlloc(ns []big.Word, d big.Word) []big.Word {
	out := make([]big.Word, len(ns))
	DivExactLimb(out, ns, d)
	return out
}

func divExactLimb(out, ns []big.Word, d big.Word) {
	if d == 3 {
		divExactBy3(out, ns)
		return
	}
	n := len(ns)
	if d&1 == 0 {
		shift := uint(bits.TrailingZeros(uint(d)))
		sd := d >> shift
		dinv := inverseLimb(sd)
		var upper big.Word
		prev := ns[0]
		for i := 1; i < n; i++ {
			next := ns[i]
			shifted := prev>>shift | next<<(limbs.W-shift)
			prev = next
			diff, borrow := bits.Sub(uint(shifted), uint(upper), 0)
			q := big.Word(diff) * dinv
			out[i-1] = q
			upper = limbs.MulHi(q, sd) + big.Word(borrow)
		}
		out[n-1] = (prev>>shift - upper) * dinv
		return
	}
	dinv := inverseLimb(d)
	q := ns[0] * dinv
	out[0] = q
	var borrow uint
	for i := 1; i < n; i++ {
		upper := limbs.MulHi(q, d) + big.Word(borrow)
		var diff uint
		diff, borrow = bits.Sub(uint(ns[i]), uint(upper), 0)
		q = big.Word(diff) * dinv
		out[i] = q
	}
}

// divExactBy3 uses the identity 1/3 = (B-1)/3 * 1/(B-1): the quotient
// digits come out of DivByLimbMaxDivisor without any inverse.
func divExactBy3(out, ns []big.Word) {
	n := len(ns)
	last := ns[n-1]
	h := DivByLimbMaxDivisor(out[:n-1], ns[:n-1], maxOver3, 0)
	out[n-1] = h - last*maxOver3
}

// DivExactBy3 sets out = ns / 3 for a multiple of 3.
func DivExactBy3(out, ns []big.Word) {
	DivExactLimb(out, ns, 3)
}

// DivExactBy255 sets ns = ns / 255 in place for a multiple of 255.
func DivExactBy255(ns []big.Word) {
	DivByLimbMaxDivisor(ns, ns, maxOver255, 0)
}

// DivByLimbMaxDivisor runs the recurrence behind division by a divisor d of
// B-1 given bd = (B-1)/d. With h = 0 and ns a multiple of d it sets out to
// ns/d and returns 0. A nonzero h carries the state of a previous call.
// out may be ns itself.
func DivByLimbMaxDivisor(out, ns []big.Word, bd, h big.Word) big.Word {
	for i, a := range ns {
		p1, p0 := bits.Mul(uint(a), uint(bd))
		v, b := bits.Sub(uint(h), p0, 0)
		out[i] = big.Word(v)
		h = big.Word(v - p1 - b)
	}
	return h
}
