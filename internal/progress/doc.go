// Package progress carries per-worker progress from the factorial engine to
// whatever is displaying it. Workers receive a plain ProgressCallback; the
// fan-out to observers happens in ProgressSubject.
package progress
