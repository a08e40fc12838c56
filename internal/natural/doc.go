// Package natural is the value-level entry point to the limb engines. It
// accepts *big.Int operands, validates them, strips signs, runs the exact
// division, inversion and squaring cores on the magnitudes and converts the
// core's contract panics into errors.
package natural
