package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
)

func TestPasswordOtpRequest_InvalidEmail(t *testing.T) {
	uc, _ := newTestUsecase(t)

	err := uc.PasswordOtpRequest(context.Background(), PasswordOtpRequestInput{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %T", err)
	}
	if gerr.Code() != goerror.CodeInvalidInput {
		t.Fatalf("expected invalid input code, got %v", gerr.Code())
	}
}

func TestPasswordOtpRequest_RateLimitedLooksLikeSuccess(t *testing.T) {
	uc, env := newTestUsecase(t)
	env.limiter.allowed = false
	env.db.getUserByEmail = func(context.Context, string) (*entity.User, error) {
		t.Fatal("user lookup must not happen when rate limited")
		return nil, nil
	}

	if err := uc.PasswordOtpRequest(context.Background(), PasswordOtpRequestInput{Email: "user@example.com"}); err != nil {
		t.Fatalf("rate limited request must not error, got %v", err)
	}

	if len(env.mq.otpRequested) != 0 {
		t.Fatal("no event should be published when rate limited")
	}
}

func TestPasswordOtpRequest_UnknownEmailLooksLikeSuccess(t *testing.T) {
	uc, env := newTestUsecase(t)
	env.db.getUserByEmail = func(context.Context, string) (*entity.User, error) {
		return nil, goerror.ErrNotFound
	}

	start := time.Now()
	if err := uc.PasswordOtpRequest(context.Background(), PasswordOtpRequestInput{Email: "ghost@example.com"}); err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}

	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Fatalf("expected the no-user branch to take about as long as issuing a code, took %v", elapsed)
	}
	if len(env.mq.otpRequested) != 0 {
		t.Fatal("no event should be published for an unknown email")
	}
}

func TestPasswordOtpRequest_IssuesHashedCode(t *testing.T) {
	uc, env := newTestUsecase(t)

	var stored entity.CreateOtpToken
	env.db.getUserByEmail = func(_ context.Context, email string) (*entity.User, error) {
		if email != "user@example.com" {
			t.Fatalf("expected normalized email, got %q", email)
		}
		return &entity.User{ID: 42, Email: "user@example.com"}, nil
	}
	env.db.replaceOtp = func(_ context.Context, in entity.CreateOtpToken) error {
		stored = in
		return nil
	}

	err := uc.PasswordOtpRequest(context.Background(), PasswordOtpRequestInput{Email: "  User@Example.COM "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.mq.otpRequested) != 1 {
		t.Fatalf("expected one published event, got %d", len(env.mq.otpRequested))
	}
	evt := env.mq.otpRequested[0]

	if !regexp.MustCompile(`^\d{6}$`).MatchString(evt.Otp) {
		t.Fatalf("expected a 6-digit code, got %q", evt.Otp)
	}
	if !env.bcrypt.Verify(stored.OtpHash, evt.Otp) {
		t.Fatal("stored hash does not match the published code")
	}
	if stored.Purpose != entity.OtpPurposePasswordReset {
		t.Fatalf("unexpected purpose %q", stored.Purpose)
	}
	if stored.MaxAttempts != 5 {
		t.Fatalf("expected max attempts 5, got %d", stored.MaxAttempts)
	}
	if want := env.clock.Now().Add(5 * time.Minute); !stored.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, stored.ExpiresAt)
	}
	if evt.UserID != 42 || evt.ExpiresInMinutes != 5 {
		t.Fatalf("unexpected event payload: %+v", evt)
	}
	if evt.EventID == "" {
		t.Fatal("event id must be set")
	}
}

func TestPasswordOtpRequest_PublishFailureIsSwallowed(t *testing.T) {
	uc, env := newTestUsecase(t)
	env.mq.err = errors.New("broker down")
	env.db.getUserByEmail = func(context.Context, string) (*entity.User, error) {
		return &entity.User{ID: 42, Email: "user@example.com"}, nil
	}
	env.db.replaceOtp = func(context.Context, entity.CreateOtpToken) error {
		return nil
	}

	if err := uc.PasswordOtpRequest(context.Background(), PasswordOtpRequestInput{Email: "user@example.com"}); err != nil {
		t.Fatalf("publish failure must not fail the request, got %v", err)
	}
}

func TestPasswordOtpRequest_StorageFailure(t *testing.T) {
	uc, env := newTestUsecase(t)
	env.db.getUserByEmail = func(context.Context, string) (*entity.User, error) {
		return &entity.User{ID: 42, Email: "user@example.com"}, nil
	}
	env.db.replaceOtp = func(context.Context, entity.CreateOtpToken) error {
		return errors.New("db down")
	}

	err := uc.PasswordOtpRequest(context.Background(), PasswordOtpRequestInput{Email: "user@example.com"})
	if err == nil {
		t.Fatal("expected error when storing the code fails")
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Type() != goerror.TypeServer {
		t.Fatalf("expected server error, got %v", err)
	}
}
