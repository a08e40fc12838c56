// Package limbs provides the vector kernels that the exact-division and
// squaring engines are built on: addition, subtraction, shifts and
// multiply-accumulate over little-endian []big.Word limb sequences.
//
// Kernels never allocate and never retain their arguments. An output slice
// may alias an input only where the function says so.
package limbs
