// Package errors provides the structured error type used across gostream.
// Every failure a pipeline can report carries a machine-readable ErrorCode so
// callers can branch on the kind of failure with errors.Is or IsCode.
package errors
