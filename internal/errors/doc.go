// Package apperrors defines the error classes shared by the limbcalc command
// and its packages, and maps them to process exit codes.
//
// The arithmetic core does not return errors: precondition failures panic
// with a ContractViolation. The façade and the command layer recover those
// panics and report them through the types in this package.
package apperrors
