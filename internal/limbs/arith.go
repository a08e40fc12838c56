package limbs

import "math/bits"

const (
	// W is the limb width in bits.
	W = bits.UintSize
	// MaxLimb is the all-ones limb.
	MaxLimb = ^Word(0)
)

// ─────────────────────────────────────────────────────────────────────────────
// Addition
// ─────────────────────────────────────────────────────────────────────────────

// Add sets z = x + y and returns the carry. It requires len(x) >= len(y) and
// len(z) >= len(x); only z[:len(x)] is written. z may alias x or y.
func Add(z, x, y []Word) Word {
	n := len(y)
	var c Word
	if n > 0 {
		c = addVV(z[:n], x[:n], y)
	}
	if len(x) > n {
		return AddLimb(z[n:len(x)], x[n:], c)
	}
	return c
}

// AddSame sets z = x + y for equal-length x and y and returns the carry.
func AddSame(z, x, y []Word) Word {
	if len(x) == 0 {
		return 0
	}
	return addVV(z[:len(x)], x, y[:len(x)])
}

// AddInPlace sets x += y, len(x) >= len(y), and returns the carry.
func AddInPlace(x, y []Word) Word {
	return Add(x, x, y)
}

// AddSameInPlace sets x += y over len(x) limbs and returns the carry.
func AddSameInPlace(x, y []Word) Word {
	return AddSame(x, x, y)
}

// AddLimb sets z = x + w and returns the carry out of the top limb.
func AddLimb(z, x []Word, w Word) Word {
	if len(x) == 0 {
		return w
	}
	if w == 0 {
		if &z[0] != &x[0] {
			copy(z, x)
		}
		return 0
	}
	return addVW(z[:len(x)], x, w)
}

// AddLimbInPlace sets x += w and returns the carry out of the top limb.
// Propagation stops at the first limb that does not overflow.
func AddLimbInPlace(x []Word, w Word) Word {
	for i := range x {
		if w == 0 {
			return 0
		}
		s, c := bits.Add(uint(x[i]), uint(w), 0)
		x[i] = Word(s)
		w = Word(c)
	}
	return w
}

// ─────────────────────────────────────────────────────────────────────────────
// Subtraction
// ─────────────────────────────────────────────────────────────────────────────

// Sub sets z = x - y and returns the borrow. It requires len(x) >= len(y);
// only z[:len(x)] is written.
func Sub(z, x, y []Word) Word {
	n := len(y)
	var b Word
	if n > 0 {
		b = subVV(z[:n], x[:n], y)
	}
	if len(x) > n {
		return SubLimb(z[n:len(x)], x[n:], b)
	}
	return b
}

// SubSame sets z = x - y for equal-length x and y and returns the borrow.
func SubSame(z, x, y []Word) Word {
	if len(x) == 0 {
		return 0
	}
	return subVV(z[:len(x)], x, y[:len(x)])
}

// SubInPlace sets x -= y, len(x) >= len(y), and returns the borrow.
func SubInPlace(x, y []Word) Word {
	return Sub(x, x, y)
}

// SubSameInPlace sets x -= y over len(x) limbs and returns the borrow.
func SubSameInPlace(x, y []Word) Word {
	return SubSame(x, x, y)
}

// SubRightInPlace sets y = x - y over len(x) limbs and returns the borrow.
func SubRightInPlace(x, y []Word) Word {
	return SubSame(y, x, y)
}

// SubLimb sets z = x - w and returns the borrow out of the top limb.
func SubLimb(z, x []Word, w Word) Word {
	if len(x) == 0 {
		return w
	}
	if w == 0 {
		if &z[0] != &x[0] {
			copy(z, x)
		}
		return 0
	}
	return subVW(z[:len(x)], x, w)
}

// SubLimbInPlace sets x -= w and returns the borrow out of the top limb.
func SubLimbInPlace(x []Word, w Word) Word {
	for i := range x {
		if w == 0 {
			return 0
		}
		d, b := bits.Sub(uint(x[i]), uint(w), 0)
		x[i] = Word(d)
		w = Word(b)
	}
	return w
}

// ─────────────────────────────────────────────────────────────────────────────
// Shifts
// ─────────────────────────────────────────────────────────────────────────────

// Shl sets z = x << s for 0 < s < W and returns the bits shifted out of the
// top limb, in the low end of the result. z may alias x.
func Shl(z, x []Word, s uint) Word {
	if len(x) == 0 {
		return 0
	}
	return shlVU(z[:len(x)], x, s)
}

// ShlInPlace sets x <<= s for 0 < s < W and returns the bits shifted out.
func ShlInPlace(x []Word, s uint) Word {
	return Shl(x, x, s)
}

// Shr sets z = x >> s (logical) for 0 < s < W and returns the bits shifted
// out of the bottom limb, in the high end of the result. z may alias x.
func Shr(z, x []Word, s uint) Word {
	n := len(x)
	if n == 0 {
		return 0
	}
	ŝ := W - s
	out := x[0] << ŝ
	for i := 0; i < n-1; i++ {
		z[i] = x[i]>>s | x[i+1]<<ŝ
	}
	z[n-1] = x[n-1] >> s
	return out
}

// ShrInPlace sets x >>= s for 0 < s < W and returns the bits shifted out.
func ShrInPlace(x []Word, s uint) Word {
	return Shr(x, x, s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Multiply-accumulate
// ─────────────────────────────────────────────────────────────────────────────

// MulHi returns the high limb of x*y.
func MulHi(x, y Word) Word {
	hi, _ := bits.Mul(uint(x), uint(y))
	return Word(hi)
}

// MulLimb sets z = x*w and returns the high limb. len(z) >= len(x).
func MulLimb(z, x []Word, w Word) Word {
	if len(x) == 0 {
		return 0
	}
	return mulAddVWW(z[:len(x)], x, w, 0)
}

// AddMul sets z[:len(x)] += x*w and returns the carry limb.
func AddMul(z, x []Word, w Word) Word {
	if len(x) == 0 {
		return 0
	}
	return addMulVVW(z[:len(x)], x, w)
}

// SubMul sets z[:len(x)] -= x*w and returns the borrow limb.
func SubMul(z, x []Word, w Word) Word {
	var c uint
	for i, xi := range x {
		hi, lo := bits.Mul(uint(xi), uint(w))
		lo, cc := bits.Add(lo, c, 0)
		hi += cc
		d, b := bits.Sub(uint(z[i]), lo, 0)
		z[i] = Word(d)
		c = hi + b
	}
	return Word(c)
}

// AddShl sets z = x + (y << s) for equal lengths and 0 < s < W, and returns
// the carry, at most 2^s. z may alias x.
func AddShl(z, x, y []Word, s uint) Word {
	ŝ := W - s
	var prev Word
	var c uint
	for i := range y {
		v := y[i]<<s | prev>>ŝ
		prev = y[i]
		var sum uint
		sum, c = bits.Add(uint(x[i]), uint(v), c)
		z[i] = Word(sum)
	}
	if len(y) == 0 {
		return 0
	}
	return prev>>ŝ + Word(c)
}

// AddShlInPlace sets x += y << s and returns the carry.
func AddShlInPlace(x, y []Word, s uint) Word {
	return AddShl(x, x, y, s)
}

// SubShl sets z = x - (y << s) for equal lengths and 0 < s < W, and returns
// the borrow, at most 2^s. z may alias x.
func SubShl(z, x, y []Word, s uint) Word {
	ŝ := W - s
	var prev Word
	var b uint
	for i := range y {
		v := y[i]<<s | prev>>ŝ
		prev = y[i]
		var d uint
		d, b = bits.Sub(uint(x[i]), uint(v), b)
		z[i] = Word(d)
	}
	if len(y) == 0 {
		return 0
	}
	return prev>>ŝ + Word(b)
}

// SubShlInPlace sets x -= y << s and returns the borrow.
func SubShlInPlace(x, y []Word, s uint) Word {
	return SubShl(x, x, y, s)
}

// Rsh1Add sets z = (x + y) >> 1 over len(x) limbs, where the carry of the
// sum becomes the top bit, and returns the bit shifted out. z may alias x or y.
func Rsh1Add(z, x, y []Word) Word {
	n := len(x)
	if n == 0 {
		return 0
	}
	var c uint
	var prev uint
	prev, c = bits.Add(uint(x[0]), uint(y[0]), 0)
	low := Word(prev & 1)
	for i := 1; i < n; i++ {
		var s uint
		s, c = bits.Add(uint(x[i]), uint(y[i]), c)
		z[i-1] = Word(prev>>1 | s<<(W-1))
		prev = s
	}
	z[n-1] = Word(prev>>1 | c<<(W-1))
	return low
}

// Rsh1Sub sets z = (x - y) >> 1 over len(x) limbs, where the borrow becomes
// the top bit, and returns the bit shifted out. z may alias x or y.
func Rsh1Sub(z, x, y []Word) Word {
	n := len(x)
	if n == 0 {
		return 0
	}
	var b uint
	var prev uint
	prev, b = bits.Sub(uint(x[0]), uint(y[0]), 0)
	low := Word(prev & 1)
	for i := 1; i < n; i++ {
		var d uint
		d, b = bits.Sub(uint(x[i]), uint(y[i]), b)
		z[i-1] = Word(prev>>1 | d<<(W-1))
		prev = d
	}
	z[n-1] = Word(prev>>1 | b<<(W-1))
	return low
}

// ─────────────────────────────────────────────────────────────────────────────
// Comparison, negation and normalization
// ─────────────────────────────────────────────────────────────────────────────

// Cmp compares equal-length x and y as unsigned integers.
func Cmp(x, y []Word) int {
	for i := len(x) - 1; i >= 0; i-- {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	return 0
}

// CmpNormalized compares x and y of any length, ignoring high zero limbs.
func CmpNormalized(x, y []Word) int {
	x, y = Normalize(x), Normalize(y)
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	}
	return Cmp(x, y)
}

// Neg sets z = -x mod B^len(x) and reports whether x was nonzero.
func Neg(z, x []Word) bool {
	i := 0
	for i < len(x) && x[i] == 0 {
		z[i] = 0
		i++
	}
	if i == len(x) {
		return false
	}
	z[i] = -x[i]
	for i++; i < len(x); i++ {
		z[i] = ^x[i]
	}
	return true
}

// NegInPlace sets x = -x mod B^len(x) and reports whether x was nonzero.
func NegInPlace(x []Word) bool {
	return Neg(x, x)
}

// NotInPlace complements every limb of x.
func NotInPlace(x []Word) {
	for i := range x {
		x[i] = ^x[i]
	}
}

// IsZero reports whether every limb of x is zero.
func IsZero(x []Word) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

// LowZeroLimbs returns the number of zero limbs at the low end of x.
func LowZeroLimbs(x []Word) int {
	for i, w := range x {
		if w != 0 {
			return i
		}
	}
	return len(x)
}

// Normalize returns x without its high zero limbs.
func Normalize(x []Word) []Word {
	n := len(x)
	for n > 0 && x[n-1] == 0 {
		n--
	}
	return x[:n]
}

// Set copies src into dst and zeroes dst[len(src):].
func Set(dst, src []Word) {
	copy(dst, src)
	clear(dst[len(src):])
}
