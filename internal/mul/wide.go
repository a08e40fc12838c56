package mul

// WideModulus wraps a Multiplier and widens every modulus to n + ceil(n/2),
// the largest size the Multiplier contract allows. Engines built on it take
// the branches in which a modular product does not wrap at all.
type WideModulus struct {
	Multiplier
}

// MulmodBnm1NextSize implements Multiplier.
func (w WideModulus) MulmodBnm1NextSize(n int) int {
	return n + (n+1)/2
}
