// Package format holds the pure formatting helpers shared by the CLI, the
// dashboard and the calibration report: durations, ETAs, progress bars,
// byte counts and truncated hexadecimal values. None of its functions
// perform I/O.
package format
