package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Traversal errors
const (
	// ErrCodeNoElementFound indicates a terminal found no element and no default was given.
	ErrCodeNoElementFound ErrorCode = "NO_ELEMENT_FOUND"
	// ErrCodeExhaustedSource indicates a restart of a pipeline that was already driven.
	ErrCodeExhaustedSource ErrorCode = "EXHAUSTED_SOURCE"
	// ErrCodeCancelled indicates the context was done before the traversal finished.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

// Argument errors
const (
	// ErrCodeInvalidArgument indicates a malformed operator parameter.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidInput indicates invalid configuration or input data.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Callback errors
const (
	// ErrCodeCallbackFailed indicates an element callback returned an error.
	ErrCodeCallbackFailed ErrorCode = "CALLBACK_FAILED"
	// ErrCodeSinkFailed indicates a sink rejected a value.
	ErrCodeSinkFailed ErrorCode = "SINK_FAILED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// terminalCodes lists the codes after which a pipeline cannot be driven again.
var terminalCodes = map[ErrorCode]bool{
	ErrCodeExhaustedSource: true,
	ErrCodeCallbackFailed:  true,
	ErrCodeSinkFailed:      true,
	ErrCodeCancelled:       true,
	ErrCodeInternal:        true,
}

// IsTerminalCode returns true if a pipeline that reported code is permanently unusable.
func IsTerminalCode(code ErrorCode) bool {
	return terminalCodes[code]
}
