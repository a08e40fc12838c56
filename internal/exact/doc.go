// Package exact implements exact division of multi-limb naturals and the
// limb-level 2-adic inverse it is built on.
//
// All routines work on little-endian []big.Word sequences. Division is
// binary (Hensel) division: quotients are computed from the least
// significant limb upward, which is valid only when the divisor is known to
// divide the dividend. Three algorithm families are provided and selected by
// divisor length: schoolbook, divide-and-conquer and Barrett ("mu")
// division. The Barrett family and the Newton inverse consume a
// mul.Multiplier for their large products.
//
// Preconditions are checked at exported entry points and reported by
// panicking with an apperrors.ContractViolation. Unexported kernels assume
// their callers have validated the operands.
package exact
