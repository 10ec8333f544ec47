// Package orchestration runs a single factorial computation on behalf of a
// front end. It wires progress reporting, GC control and metrics around the
// engine and maps the outcome onto presenters and exit codes through the
// ProgressReporter and ResultPresenter interfaces.
package orchestration
