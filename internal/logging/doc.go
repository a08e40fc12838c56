// Package logging provides the logging interface shared by the squaring and
// division engines and the command line. The default backend is zerolog; a
// standard library adapter is available for callers that already own a
// *log.Logger.
package logging
