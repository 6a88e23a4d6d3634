package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
)

type PasswordOtpVerifyInput struct {
	Email string `validate:"required,email"`
	Otp   string `validate:"required,otpcode"`
}

type PasswordOtpVerifyOutput struct {
	ResetToken string
	ExpiresAt  time.Time
}

// PasswordOtpVerify exchanges a correct OTP for a single-use reset token.
func (s *Usecase) PasswordOtpVerify(ctx context.Context, in PasswordOtpVerifyInput) (*PasswordOtpVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "PasswordOtpVerify")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	in.Otp = normalizeOtp(in.Otp)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	allowed, err := s.limiter.Allow(ctx, s.verifyOtpPolicy(), in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check verify otp rate limit", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !allowed {
		slog.WarnContext(ctx, "password otp verify rate limited", "email", in.Email)
		return nil, goerror.NewBusiness("Too many attempts. Please try again later.", goerror.CodeTooManyRequest).
			WithReason("RATE_LIMIT_EXCEEDED")
	}

	record, err := s.repoDB.GetActiveOtp(ctx, in.Email, entity.OtpPurposePasswordReset)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Invalid or expired OTP", goerror.CodeInvalidInput).
			WithReason("OTP_NOT_FOUND")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get active otp", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.clock.Now().After(record.ExpiresAt) {
		if err := s.repoDB.DeleteOtp(ctx, record.ID); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete expired otp", "otp_id", record.ID, "error", err)
		}

		return nil, goerror.NewBusiness("OTP has expired. Please request a new one.", goerror.CodeInvalidInput).
			WithReason("OTP_EXPIRED")
	}

	if record.Attempts >= record.MaxAttempts {
		return nil, s.exhaustOtp(ctx, record.ID)
	}

	if !s.bcrypt.Verify(record.OtpHash, in.Otp) {
		attempts, err := s.repoDB.RecordFailedOtpAttempt(ctx, record.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo record failed otp attempt", "otp_id", record.ID, "error", err)
			return nil, goerror.NewServer(err)
		}

		if attempts >= record.MaxAttempts {
			return nil, s.exhaustOtp(ctx, record.ID)
		}

		return nil, goerror.NewBusiness("Incorrect OTP", goerror.CodeInvalidInput).
			WithReason("OTP_INCORRECT").
			WithMeta("remaining_attempts", record.MaxAttempts-attempts)
	}

	token := s.uuid.Generate()
	expiresAt := s.clock.Now().Add(s.cfg.GetMinute("modules.account.reset_token_ttl_minutes"))

	if err := s.repoDB.CreateResetTokenConsumeOtp(ctx, entity.CreateResetToken{
		ID:        s.uid.Generate(),
		UserID:    record.UserID,
		Email:     in.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, record.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo create reset token", "user_id", record.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PasswordOtpVerifyOutput{
		ResetToken: token,
		ExpiresAt:  expiresAt,
	}, nil
}

// exhaustOtp drops the record so an exhausted code can never be retried, then
// reports the attempt budget as spent.
func (s *Usecase) exhaustOtp(ctx context.Context, id int64) error {
	if err := s.repoDB.DeleteOtp(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete exhausted otp", "otp_id", id, "error", err)
	}

	return goerror.NewBusiness("Maximum verification attempts exceeded. Please request a new OTP.", goerror.CodeTooManyRequest).
		WithReason("MAX_ATTEMPTS_EXCEEDED")
}
