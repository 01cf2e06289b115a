package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNoElementFound, "nothing")
	if err.Code != ErrCodeNoElementFound {
		t.Errorf("expected code %s, got %s", ErrCodeNoElementFound, err.Code)
	}
	if err.Message != "nothing" {
		t.Errorf("expected message 'nothing', got %q", err.Message)
	}
	if err.Terminal {
		t.Error("NO_ELEMENT_FOUND should not be terminal")
	}
}

func TestAppError_New_Terminal(t *testing.T) {
	err := New(ErrCodeExhaustedSource, "rewind")
	if !err.Terminal {
		t.Error("EXHAUSTED_SOURCE should be terminal")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name     string
		err      *AppError
		code     ErrorCode
		terminal bool
	}{
		{"NoElementFound", NoElementFound("collect_first"), ErrCodeNoElementFound, false},
		{"ExhaustedSource", ExhaustedSource("exhausted"), ErrCodeExhaustedSource, true},
		{"InvalidArgument", InvalidArgument("size", "must be positive"), ErrCodeInvalidArgument, false},
		{"CallbackFailed", CallbackFailed("map", cause), ErrCodeCallbackFailed, true},
		{"SinkFailed", SinkFailed(cause), ErrCodeSinkFailed, true},
		{"Cancelled", Cancelled(cause), ErrCodeCancelled, true},
		{"Validation", Validation("bad"), ErrCodeInvalidInput, false},
		{"Internal", Internal(cause), ErrCodeInternal, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Terminal != tc.terminal {
				t.Errorf("expected terminal=%v, got %v", tc.terminal, tc.err.Terminal)
			}
		})
	}
}

func TestAppError_NoElementFound_Message(t *testing.T) {
	err := NoElementFound("collect_first")
	if err.Message != "No elements available in this stream." {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Details["operation"] != "collect_first" {
		t.Errorf("expected operation=collect_first, got %v", err.Details["operation"])
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", ExhaustedSource("in_progress"))
	if !stderrors.Is(err, ErrExhaustedSource) {
		t.Error("expected wrapped ExhaustedSource to match sentinel")
	}
	if stderrors.Is(err, ErrNoElementFound) {
		t.Error("expected no match against a different code")
	}
	if stderrors.Is(fmt.Errorf("plain"), ErrExhaustedSource) {
		t.Error("plain error must not match")
	}
}

func TestAppError_Is_ReachesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := SinkFailed(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", InvalidArgument("n", "negative"))
	if !IsCode(err, ErrCodeInvalidArgument) {
		t.Error("expected INVALID_ARGUMENT")
	}
	if IsCode(err, ErrCodeInternal) {
		t.Error("did not expect INTERNAL_ERROR")
	}
	if IsCode(nil, ErrCodeInternal) {
		t.Error("nil has no code")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := InvalidArgument("size", "must be positive")
	err.WithDetails(map[string]any{"value": 0, "operation": "chunk_every"})
	if err.Details["param"] != "size" {
		t.Errorf("expected original detail to survive, got %v", err.Details["param"])
	}
	if err.Details["value"] != 0 {
		t.Errorf("expected value=0, got %v", err.Details["value"])
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := Validation("bad")
	err.WithDetail("key", "value")
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized")
	}
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := NoElementFound("collect_last")
	s := err.Error()
	if !strings.Contains(s, "NO_ELEMENT_FOUND") {
		t.Errorf("expected error string to contain code, got %q", s)
	}

	withCause := CallbackFailed("map", fmt.Errorf("bad value"))
	if !strings.Contains(withCause.Error(), "cause: bad value") {
		t.Errorf("expected cause in error string, got %q", withCause.Error())
	}
}

func TestAppError_Unwrap_Success(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Internal(cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	err2 := NoElementFound("x")
	if err2.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Internal(nil))

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to return true for wrapped AppError")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := NoElementFound("min")
	if Wrap(fmt.Errorf("outer: %w", orig)) != orig {
		t.Error("Wrap should return the AppError found in the chain")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}
