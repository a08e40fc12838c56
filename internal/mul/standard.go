package mul

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"

	"github.com/agbru/limbcalc/internal/limbs"
)

const (
	// DefaultFFTThreshold is the length in limbs of the shorter operand from
	// which the FFT multiply is used instead of math/big.
	DefaultFFTThreshold = 1800
	// DefaultMulmodBnm1Threshold is the modulus size below which
	// MulmodBnm1NextSize returns its argument unchanged.
	DefaultMulmodBnm1Threshold = 16
	// minMulmodBnm1Threshold is the smallest threshold for which every
	// rounded size stays within n + ceil(n/2).
	minMulmodBnm1Threshold = 3
)

// Standard multiplies through math/big below its FFT threshold and through
// github.com/remyoudompheng/bigfft above it.
type Standard struct {
	fftThreshold        int
	mulmodBnm1Threshold int
}

// Option configures a Standard multiplier.
type Option func(*Standard)

// WithFFTThreshold sets the FFT crossover in limbs. Zero or negative values
// disable the FFT path.
func WithFFTThreshold(limbs int) Option {
	return func(s *Standard) { s.fftThreshold = limbs }
}

// WithMulmodBnm1Threshold sets the size below which moduli are not rounded.
// Values below 3 are raised to 3.
func WithMulmodBnm1Threshold(limbs int) Option {
	return func(s *Standard) { s.mulmodBnm1Threshold = max(limbs, minMulmodBnm1Threshold) }
}

// NewStandard returns a Standard multiplier with default thresholds.
func NewStandard(opts ...Option) *Standard {
	s := &Standard{
		fftThreshold:        DefaultFFTThreshold,
		mulmodBnm1Threshold: DefaultMulmodBnm1Threshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FFTThreshold returns the configured FFT crossover in limbs.
func (s *Standard) FFTThreshold() int { return s.fftThreshold }

// mulInt returns x*y as a big.Int. The operands are wrapped without copying;
// math/big never writes to the operands of Mul.
func (s *Standard) mulInt(x, y []big.Word) *big.Int {
	xi := new(big.Int).SetBits(x)
	yi := xi
	if !sameSlice(x, y) {
		yi = new(big.Int).SetBits(y)
	}
	if s.fftThreshold > 0 && min(len(x), len(y)) >= s.fftThreshold {
		return bigfft.Mul(xi, yi)
	}
	return new(big.Int).Mul(xi, yi)
}

// Mul implements Multiplier.
func (s *Standard) Mul(out, x, y []big.Word) {
	limbs.Set(out[:len(x)+len(y)], s.mulInt(x, y).Bits())
}

// Square sets out = x*x with len(out) == 2*len(x).
func (s *Standard) Square(out, x []big.Word) {
	limbs.Set(out[:2*len(x)], s.mulInt(x, x).Bits())
}

// MulLow implements Multiplier.
func (s *Standard) MulLow(out, x, y []big.Word) {
	n := len(out)
	p := s.mulInt(x[:n], y[:n]).Bits()
	if len(p) > n {
		p = p[:n]
	}
	limbs.Set(out, p)
}

// MulmodBnm1 implements Multiplier. The high part of the full product is
// folded onto the low part and the carry is added back until none remains.
func (s *Standard) MulmodBnm1(out []big.Word, m int, a, b, scratch []big.Word) {
	an, bn := len(a), len(b)
	if an < bn {
		a, b = b, a
		an, bn = bn, an
	}
	if an+bn <= m {
		s.Mul(out[:an+bn], a, b)
		clear(out[an+bn : m])
		return
	}
	p := scratch[:an+bn]
	s.Mul(p, a, b)
	c := limbs.Add(out[:m], p[:m], p[m:])
	for c != 0 {
		c = limbs.AddLimbInPlace(out[:m], c)
	}
}

// MulmodBnm1NextSize implements Multiplier. Above the threshold the size is
// rounded up to a multiple of 2, 4 or 8 depending on its magnitude.
func (s *Standard) MulmodBnm1NextSize(n int) int {
	t := s.mulmodBnm1Threshold
	switch {
	case n < t:
		return n
	case n < 4*(t-1)+1:
		return (n + 1) &^ 1
	case n < 8*(t-1)+1:
		return (n + 3) &^ 3
	default:
		return (n + 7) &^ 7
	}
}

// MulmodBnm1ScratchLen implements Multiplier.
func (s *Standard) MulmodBnm1ScratchLen(_, an, bn int) int {
	return an + bn
}

func sameSlice(x, y []big.Word) bool {
	return len(x) == len(y) && len(x) > 0 && &x[0] == &y[0]
}

var _ Multiplier = (*Standard)(nil)
