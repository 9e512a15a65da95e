package errors_test

import (
	"errors"
	"fmt"
	"testing"

	. "cfanalyzer/pkg/errors"
)

func TestErrorCode_Message(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{Success, "Success"},
		{HandleNotFound, "User not found"},
		{SubmissionFetchFailed, "Failed to fetch submissions"},
		{ComparisonHandlesRequired, "Please enter both handles"},
		{NoProblemForRating, "No solved problems found with this rating."},
		{ErrorCode(99999), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.code.Message(); got != tt.want {
				t.Errorf("Message() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code       ErrorCode
		wantStatus int
	}{
		{Success, 200},
		{InvalidParams, 400},
		{ComparisonHandlesRequired, 400},
		{HandleNotFound, 404},
		{NoProblemForRating, 404},
		{TooManyRequests, 429},
		{UpstreamUnavailable, 502},
		{AnalysisFailed, 502},
		{CatalogUnavailable, 503},
		{InternalServerError, 500},
	}

	for _, tt := range tests {
		t.Run(tt.code.Message(), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.wantStatus {
				t.Errorf("HTTPStatus() = %v, want %v", got, tt.wantStatus)
			}
		})
	}
}

func TestWrapKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, UpstreamUnavailable)

	if err.Error() != UpstreamUnavailable.Message() {
		t.Errorf("Error() = %q, want default message", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to the cause")
	}
}

func TestWrapRecodesExistingError(t *testing.T) {
	inner := New(UpstreamMalformed)
	err := Wrap(inner, HandleNotFound)

	if err != inner {
		t.Fatal("expected the same *Error to be reused")
	}
	if err.Code != HandleNotFound || err.Error() != "User not found" {
		t.Errorf("got code=%v msg=%q", err.Code, err.Error())
	}
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("load catalog: %w", New(CatalogUnavailable))

	if got := GetCode(err); got != CatalogUnavailable {
		t.Errorf("GetCode() = %v, want %v", got, CatalogUnavailable)
	}
	if !Is(err, CatalogUnavailable) {
		t.Error("Is() should see codes behind fmt wrapping")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "nil error", err: nil, want: Success},
		{name: "custom error", err: New(HandleNotFound), want: HandleNotFound},
		{name: "standard error", err: errors.New("standard error"), want: InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(HandleNotFound)

	if !Is(err, HandleNotFound) {
		t.Error("Is() should return true for matching code")
	}
	if Is(err, SubmissionFetchFailed) {
		t.Error("Is() should return false for non-matching code")
	}
	if Is(nil, HandleNotFound) {
		t.Error("Is() should return false for nil error")
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError("rating", "must be positive")

	if err.Code != ValidationFailed {
		t.Errorf("Code = %v, want %v", err.Code, ValidationFailed)
	}
	if err.Details["field"] != "rating" || err.Details["reason"] != "must be positive" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}
