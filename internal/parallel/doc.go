// Package parallel holds small concurrency helpers shared by the factorial
// engine: first-error collection, panic recovery for worker goroutines and
// detection of the parallelism available to the process.
package parallel
