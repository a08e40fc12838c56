// Package toom implements Toom-Cook squaring of multi-limb naturals.
//
// A Toom-k square splits its operand into k chunks, evaluates the chunk
// polynomial at 2k-1 points, squares the evaluations recursively and
// interpolates the product polynomial from the squares. The package holds
// the evaluation helpers, the exported interpolation routines for 5, 6, 7,
// 8, 12 and 16 points, and the Toom-2, 3, 4, 6 and 8 squaring kernels with
// a size dispatcher, an FFT hand-off and an optional parallel top level.
//
// Interpolation routines work in place on product-sized buffers and panic
// with an apperrors.ContractViolation when an internal carry bound fails;
// such a panic means the inputs were not evaluations of a valid product.
package toom
