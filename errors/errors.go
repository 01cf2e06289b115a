package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type returned by pipelines and their collaborators.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Terminal indicates the pipeline that produced the error cannot be driven again.
	Terminal bool `json:"terminal"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code. It lets the
// package sentinels match any error of their kind:
//
//	if errors.Is(err, gserrors.ErrExhaustedSource) { ... }
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic terminal detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Terminal: IsTerminalCode(code),
	}
}

// Sentinels for errors.Is matching. Never return these directly: the
// constructors below attach details and causes.
var (
	ErrNoElementFound  = &AppError{Code: ErrCodeNoElementFound}
	ErrExhaustedSource = &AppError{Code: ErrCodeExhaustedSource}
	ErrInvalidArgument = &AppError{Code: ErrCodeInvalidArgument}
	ErrCallbackFailed  = &AppError{Code: ErrCodeCallbackFailed}
	ErrSinkFailed      = &AppError{Code: ErrCodeSinkFailed}
	ErrCancelled       = &AppError{Code: ErrCodeCancelled}
)

// --- Constructors ---

// NoElementFound creates an AppError for a terminal that found nothing to return.
func NoElementFound(operation string) *AppError {
	return &AppError{
		Code: ErrCodeNoElementFound, Message: "No elements available in this stream.",
		Details: map[string]any{"operation": operation},
	}
}

// ExhaustedSource creates an AppError for a restart of an already driven pipeline.
func ExhaustedSource(state string) *AppError {
	return &AppError{
		Code: ErrCodeExhaustedSource, Message: "Cannot rewind a pipeline that was already run.",
		Terminal: true, Details: map[string]any{"state": state},
	}
}

// InvalidArgument creates an AppError for a malformed operator parameter.
func InvalidArgument(param, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("Invalid argument %s: %s", param, reason),
		Details: map[string]any{"param": param},
	}
}

// CallbackFailed creates an AppError for an element callback that returned an error.
func CallbackFailed(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCallbackFailed, Message: fmt.Sprintf("The %s callback failed.", operation),
		Terminal: true, Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// SinkFailed creates an AppError for a sink that could not accept a value.
func SinkFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeSinkFailed, Message: "The sink rejected a value.",
		Terminal: true, Cause: cause,
	}
}

// Cancelled creates an AppError for a traversal stopped by its context.
func Cancelled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCancelled, Message: "The traversal was cancelled.",
		Terminal: true, Cause: cause,
	}
}

// Validation creates a new AppError for invalid configuration or input.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Terminal: true, Cause: cause,
	}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain are
// returned as-is; other errors become INTERNAL_ERROR with the original as cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
