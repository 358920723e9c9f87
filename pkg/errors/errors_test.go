package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewAndAccessors(t *testing.T) {
	err := New(CodeNotFound, "shop not found")
	if err.Code() != CodeNotFound {
		t.Fatalf("code = %s", err.Code())
	}
	if err.Message() != "shop not found" {
		t.Fatalf("message = %q", err.Message())
	}
	if err.Error() != "NOT_FOUND: shop not found" {
		t.Fatalf("error string = %q", err.Error())
	}
	if err.Details() != nil {
		t.Fatalf("details = %v, want nil", err.Details())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeInternal, cause, "lookup user")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Fatalf("unwrap = %v", err.Unwrap())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeValidation, nil, "amount must be positive")
	if err.Code() != CodeValidation || err.Unwrap() != nil {
		t.Fatalf("unexpected error %+v", err)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeStateConflict, "already decided").
		WithDetails(map[string]any{"status": "approved"})

	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatalf("details type %T", err.Details())
	}
	if details["status"] != "approved" {
		t.Fatalf("details = %v", details)
	}
}

func TestAsUnwrapsThroughChains(t *testing.T) {
	inner := New(CodeConflict, "insufficient stock")
	wrapped := fmt.Errorf("record sale: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeConflict {
		t.Fatalf("code = %s", typed.Code())
	}

	if As(fmt.Errorf("plain")) != nil {
		t.Fatal("plain error should not convert")
	}
	if As(nil) != nil {
		t.Fatal("nil error should not convert")
	}
}

func TestMetadataFor(t *testing.T) {
	cases := []struct {
		code       Code
		status     int
		retryable  bool
		hasDetails bool
	}{
		{CodeValidation, http.StatusBadRequest, false, true},
		{CodeUnauthorized, http.StatusUnauthorized, false, false},
		{CodeNotFound, http.StatusNotFound, false, false},
		{CodeConflict, http.StatusConflict, false, true},
		{CodeStateConflict, http.StatusUnprocessableEntity, false, true},
		{CodeIdempotency, http.StatusConflict, false, true},
		{CodeRateLimit, http.StatusTooManyRequests, false, false},
		{CodeInternal, http.StatusInternalServerError, true, false},
		{CodeDependency, http.StatusServiceUnavailable, true, true},
	}
	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Errorf("%s status = %d, want %d", tc.code, meta.HTTPStatus, tc.status)
		}
		if meta.Retryable != tc.retryable {
			t.Errorf("%s retryable = %v", tc.code, meta.Retryable)
		}
		if meta.DetailsAllowed != tc.hasDetails {
			t.Errorf("%s details allowed = %v", tc.code, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("status = %d", meta.HTTPStatus)
	}
}
