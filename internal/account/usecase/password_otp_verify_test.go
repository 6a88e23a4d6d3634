package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
)

func mustReason(t *testing.T, err error, reason string) *goerror.Error {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %T (%v)", err, err)
	}
	if gerr.Reason() != reason {
		t.Fatalf("expected reason %q, got %q", reason, gerr.Reason())
	}

	return gerr
}

func (e *testEnv) activeOtp(t *testing.T, code string, attempts int32) *entity.OtpToken {
	t.Helper()

	codeHash, err := e.bcrypt.Hash(code)
	if err != nil {
		t.Fatalf("failed to hash code: %v", err)
	}

	return &entity.OtpToken{
		ID:          901,
		UserID:      42,
		Email:       "user@example.com",
		OtpHash:     string(codeHash),
		Purpose:     entity.OtpPurposePasswordReset,
		Attempts:    attempts,
		MaxAttempts: 5,
		ExpiresAt:   e.clock.Now().Add(5 * time.Minute),
	}
}

func TestPasswordOtpVerify_RejectsBadFormat(t *testing.T) {
	uc, _ := newTestUsecase(t)

	for _, code := range []string{"", "12345", "1234567", "12345a"} {
		_, err := uc.PasswordOtpVerify(context.Background(), PasswordOtpVerifyInput{Email: "user@example.com", Otp: code})
		if err == nil {
			t.Fatalf("expected validation error for code %q", code)
		}

		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input for code %q, got %v", code, err)
		}
	}
}

func TestPasswordOtpVerify_RateLimited(t *testing.T) {
	uc, env := newTestUsecase(t)
	env.limiter.allowed = false

	_, err := uc.PasswordOtpVerify(context.Background(), PasswordOtpVerifyInput{Email: "user@example.com", Otp: "123456"})
	gerr := mustReason(t, err, "RATE_LIMIT_EXCEEDED")
	if gerr.StatusCode() != 429 {
		t.Fatalf("expected status 429, got %d", gerr.StatusCode())
	}
}

func TestPasswordOtpVerify_NoActiveCode(t *testing.T) {
	uc, env := newTestUsecase(t)
	env.db.getActiveOtp = func(context.Context, string, entity.OtpPurpose) (*entity.OtpToken, error) {
		return nil, goerror.ErrNotFound
	}

	_, err := uc.PasswordOtpVerify(context.Background(), PasswordOtpVerifyInput{Email: "user@example.com", Otp: "123456"})
	mustReason(t, err, "OTP_NOT_FOUND")
}

func TestPasswordOtpVerify_ExpiredCodeIsDeleted(t *testing.T) {
	uc, env := newTestUsecase(t)

	record := env.activeOtp(t, "123456", 0)
	record.ExpiresAt = env.clock.Now().Add(-time.Second)
	env.db.getActiveOtp = func(context.Context, string, entity.OtpPurpose) (*entity.OtpToken, error) {
		return record, nil
	}

	var deleted int64
	env.db.deleteOtp = func(_ context.Context, id int64) error {
		deleted = id
		return nil
	}

	_, err := uc.PasswordOtpVerify(context.Background(), PasswordOtpVerifyInput{Email: "user@example.com", Otp: "123456"})
	mustReason(t, err, "OTP_EXPIRED")
	if deleted != record.ID {
		t.Fatalf("expected otp %d to be deleted, got %d", record.ID, deleted)
	}
}

func TestPasswordOtpVerify_AlreadyExhausted(t *testing.T) {
	uc, env := newTestUsecase(t)

	record := env.activeOtp(t, "123456", 5)
	env.db.getActiveOtp = func(context.Context, string, entity.OtpPurpose) (*entity.OtpToken, error) {
		return record, nil
	}

	var deleted int64
	env.db.deleteOtp = func(_ context.Context, id int64) error {
		deleted = id
		return nil
	}

	_, err := uc.PasswordOtpVerify(context.Background(), PasswordOtpVerifyInput{Email: "user@example.com", Otp: "123456"})
	gerr := mustReason(t, err, "MAX_ATTEMPTS_EXCEEDED")
	if gerr.StatusCode() != 429 {
		t.Fatalf("expected status 429, got %d", gerr.StatusCode())
	}
	if deleted != record.ID {
		t.Fatal("exhausted otp must be deleted")
	}
}

func TestPasswordOtpVerify_WrongCodeCountsAttempt(t *testing.T) {
	uc, env := newTestUsecase(t)

	record := env.activeOtp(t, "123456", 0)
	env.db.getActiveOtp = func(context.Context, string, entity.OtpPurpose) (*entity.OtpToken, error) {
		return record, nil
	}
	env.db.recordFailedOtpAttempt = func(_ context.Context, id int64) (int32, error) {
		if id != record.ID {
			t.Fatalf("unexpected otp id %d", id)
		}
		return 1, nil
	}

	_, err := uc.PasswordOtpVerify(context.Background(), PasswordOtpVerifyInput{Email: "user@example.com", Otp: "654321"})
	gerr := mustReason(t, err, "OTP_INCORRECT")
	if got := gerr.Meta()["remaining_attempts"]; got != int32(4) {
		t.Fatalf("expected 4 remaining attempts, got %v", got)
	}
}

func TestPasswordOtpVerify_LastWrongAttemptExhausts(t *testing.T) {
	uc, env := newTestUsecase(t)

	record := env.activeOtp(t, "123456", 4)
	env.db.getActiveOtp = func(context.Context, string, entity.OtpPurpose) (*entity.OtpToken, error) {
		return record, nil
	}
	env.db.recordFailedOtpAttempt = func(context.Context, int64) (int32, error) {
		return 5, nil
	}

	var deleted int64
	env.db.deleteOtp = func(_ context.Context, id int64) error {
		deleted = id
		return nil
	}

	_, err := uc.PasswordOtpVerify(context.Background(), PasswordOtpVerifyInput{Email: "user@example.com", Otp: "654321"})
	mustReason(t, err, "MAX_ATTEMPTS_EXCEEDED")
	if deleted != record.ID {
		t.Fatal("otp must be deleted once the attempt budget is spent")
	}
}

func TestPasswordOtpVerify_Success(t *testing.T) {
	uc, env := newTestUsecase(t)

	record := env.activeOtp(t, "123456", 2)
	env.db.getActiveOtp = func(_ context.Context, email string, purpose entity.OtpPurpose) (*entity.OtpToken, error) {
		if email != "user@example.com" || purpose != entity.OtpPurposePasswordReset {
			t.Fatalf("unexpected lookup: %q %q", email, purpose)
		}
		return record, nil
	}

	var createdToken entity.CreateResetToken
	var consumedOtpID int64
	env.db.createResetTokenConsumeOtp = func(_ context.Context, rt entity.CreateResetToken, otpID int64) error {
		createdToken = rt
		consumedOtpID = otpID
		return nil
	}

	out, err := uc.PasswordOtpVerify(context.Background(), PasswordOtpVerifyInput{Email: " User@example.com ", Otp: " 123456 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.ResetToken != "11111111-2222-3333-4444-555555555555" {
		t.Fatalf("unexpected reset token %q", out.ResetToken)
	}
	if want := env.clock.Now().Add(10 * time.Minute); !out.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, out.ExpiresAt)
	}
	if consumedOtpID != record.ID {
		t.Fatalf("expected otp %d consumed, got %d", record.ID, consumedOtpID)
	}
	if createdToken.UserID != record.UserID || createdToken.Token != out.ResetToken {
		t.Fatalf("unexpected reset token row: %+v", createdToken)
	}
}
