package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidFormat, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeTooManyRequest, http.StatusTooManyRequests},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeTimeout, http.StatusRequestTimeout},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := NewBusiness("msg", tc.code).StatusCode()
		if got != tc.want {
			t.Errorf("code %v: expected status %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestBusinessErrorCarriesReasonAndMeta(t *testing.T) {
	err := NewBusiness("Incorrect OTP", CodeInvalidInput).
		WithReason("OTP_INCORRECT").
		WithMeta("remaining_attempts", int32(3))

	if err.Msg() != "Incorrect OTP" {
		t.Fatalf("unexpected msg %q", err.Msg())
	}
	if err.Reason() != "OTP_INCORRECT" {
		t.Fatalf("unexpected reason %q", err.Reason())
	}
	if err.Meta()["remaining_attempts"] != int32(3) {
		t.Fatalf("unexpected meta %v", err.Meta())
	}
	if err.Type() != TypeBusiness {
		t.Fatalf("unexpected type %v", err.Type())
	}
}

func TestServerErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServer(cause)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be reachable via errors.Is")
	}
	if gerr.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", gerr.StatusCode())
	}
	if gerr.Msg() != "Internal server error" {
		t.Fatalf("unexpected msg %q", gerr.Msg())
	}
}

func TestInvalidInputWithFieldPairs(t *testing.T) {
	err := NewInvalidInput(nil, "email", "Email is required")

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Fields()["email"] != "Email is required" {
		t.Fatalf("unexpected fields %v", gerr.Fields())
	}
	if gerr.Reason() != "" {
		t.Fatalf("validation errors carry no reason, got %q", gerr.Reason())
	}
}
