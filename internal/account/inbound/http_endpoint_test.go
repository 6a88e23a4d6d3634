package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/usecase"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/config"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/instrument"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/router"
)

type fakeUsecase struct {
	requestErr error
	verifyOut  *usecase.PasswordOtpVerifyOutput
	verifyErr  error
	resetErr   error
}

func (f *fakeUsecase) PasswordOtpRequest(context.Context, usecase.PasswordOtpRequestInput) error {
	return f.requestErr
}

func (f *fakeUsecase) PasswordOtpVerify(context.Context, usecase.PasswordOtpVerifyInput) (*usecase.PasswordOtpVerifyOutput, error) {
	return f.verifyOut, f.verifyErr
}

func (f *fakeUsecase) PasswordReset(context.Context, usecase.PasswordResetInput) error {
	return f.resetErr
}

type stubStringID struct{}

func (stubStringID) Generate() string {
	return "test-correlation-id"
}

func newTestServer(t *testing.T, uc *fakeUsecase) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       stubStringID{},
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)

	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}

	return rec.Code, decoded
}

func TestRequestPasswordOtp_GenericSuccess(t *testing.T) {
	h := newTestServer(t, &fakeUsecase{})

	code, body := doJSON(t, h, http.MethodPost, "/request-password-otp", `{"email":"user@example.com"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body["success"])
	}
	if body["message"] != "If the email exists, an OTP has been sent" {
		t.Fatalf("unexpected message %q", body["message"])
	}
}

func TestRequestPasswordOtp_ValidationError(t *testing.T) {
	h := newTestServer(t, &fakeUsecase{
		requestErr: goerror.NewInvalidInput(errors.New("email required")),
	})

	code, body := doJSON(t, h, http.MethodPost, "/request-password-otp", `{}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if _, hasCode := body["code"]; hasCode {
		t.Fatalf("plain validation errors must not carry a code, got %v", body["code"])
	}
	if body["error"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestVerifyPasswordOtp_Success(t *testing.T) {
	expires := time.Date(2025, 6, 1, 12, 10, 0, 0, time.UTC)
	h := newTestServer(t, &fakeUsecase{
		verifyOut: &usecase.PasswordOtpVerifyOutput{
			ResetToken: "11111111-2222-3333-4444-555555555555",
			ExpiresAt:  expires,
		},
	})

	code, body := doJSON(t, h, http.MethodPost, "/verify-password-otp", `{"email":"user@example.com","otp":"123456"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["reset_token"] != "11111111-2222-3333-4444-555555555555" {
		t.Fatalf("unexpected reset_token %v", body["reset_token"])
	}
	if body["message"] != "OTP verified successfully" {
		t.Fatalf("unexpected message %q", body["message"])
	}
	if body["expires_at"] == "" {
		t.Fatal("expected expires_at in the response")
	}
}

func TestVerifyPasswordOtp_IncorrectCodeContract(t *testing.T) {
	h := newTestServer(t, &fakeUsecase{
		verifyErr: goerror.NewBusiness("Incorrect OTP", goerror.CodeInvalidInput).
			WithReason("OTP_INCORRECT").
			WithMeta("remaining_attempts", int32(4)),
	})

	code, body := doJSON(t, h, http.MethodPost, "/verify-password-otp", `{"email":"user@example.com","otp":"000000"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body["error"] != "Incorrect OTP" {
		t.Fatalf("unexpected error %q", body["error"])
	}
	if body["code"] != "OTP_INCORRECT" {
		t.Fatalf("unexpected code %q", body["code"])
	}
	if body["remaining_attempts"] != float64(4) {
		t.Fatalf("expected remaining_attempts 4, got %v", body["remaining_attempts"])
	}
}

func TestVerifyPasswordOtp_RateLimitedContract(t *testing.T) {
	h := newTestServer(t, &fakeUsecase{
		verifyErr: goerror.NewBusiness("Too many attempts. Please try again later.", goerror.CodeTooManyRequest).
			WithReason("RATE_LIMIT_EXCEEDED"),
	})

	code, body := doJSON(t, h, http.MethodPost, "/verify-password-otp", `{"email":"user@example.com","otp":"123456"}`)
	if code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if body["code"] != "RATE_LIMIT_EXCEEDED" {
		t.Fatalf("unexpected code %q", body["code"])
	}
}

func TestResetPasswordWithToken_Success(t *testing.T) {
	h := newTestServer(t, &fakeUsecase{})

	code, body := doJSON(t, h, http.MethodPost, "/reset-password-with-token",
		`{"reset_token":"11111111-2222-3333-4444-555555555555","new_password":"Sup3rSecret"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["message"] != "Password has been reset successfully" {
		t.Fatalf("unexpected message %q", body["message"])
	}
	if body["email_verified"] != true {
		t.Fatalf("expected email_verified true, got %v", body["email_verified"])
	}
}

func TestUnexpectedErrorIsOpaque(t *testing.T) {
	h := newTestServer(t, &fakeUsecase{resetErr: errors.New("pq: connection refused")})

	code, body := doJSON(t, h, http.MethodPost, "/reset-password-with-token",
		`{"reset_token":"x","new_password":"Sup3rSecret"}`)
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body["error"] != "Internal server error" {
		t.Fatalf("internal details must not leak, got %q", body["error"])
	}
}

func TestUnknownEndpoint(t *testing.T) {
	h := newTestServer(t, &fakeUsecase{})

	code, body := doJSON(t, h, http.MethodPost, "/does-not-exist", `{}`)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if body["error"] != "Endpoint not found" {
		t.Fatalf("unexpected body %v", body)
	}
}
