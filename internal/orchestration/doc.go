// Package orchestration runs one arithmetic operation through several
// independent strategies at once and cross-checks their answers.
//
// Each strategy runs on its own goroutine inside an OpenTelemetry span, and
// its timing is recorded in the metrics recorder.
// Presentation is kept behind the ProgressReporter and ResultPresenter
// interfaces so that the CLI and the dashboard can share the same run.
package orchestration
