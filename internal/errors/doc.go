// Package apperrors defines the error classes of factcalc (configuration,
// validation, timeout and worker faults) and maps each class onto a process
// exit code. Wrapping uses fmt.Errorf with %w so errors.Is and errors.As see
// through every layer.
package apperrors
