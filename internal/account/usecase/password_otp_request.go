package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
)

type PasswordOtpRequestInput struct {
	Email string `validate:"required,email"`
}

// PasswordOtpRequest issues a password reset OTP for the email and hands it
// off to the notification pipeline.
//
// Rate-limited and unknown-email requests return success like the happy path
// does, so responses never reveal whether an account exists.
func (s *Usecase) PasswordOtpRequest(ctx context.Context, in PasswordOtpRequestInput) error {
	ctx, span := s.startSpan(ctx, "PasswordOtpRequest")
	defer span.End()

	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	allowed, err := s.limiter.Allow(ctx, s.requestOtpPolicy(), in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check request otp rate limit", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}
	if !allowed {
		slog.WarnContext(ctx, "password otp request rate limited", "email", in.Email)
		return nil
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password otp requested for unavailable user", "email", in.Email)

		// Keep the timing close to the code-issuing branch.
		select {
		case <-ctx.Done():
		case <-time.After(100 * time.Millisecond):
		}

		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.bcrypt.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("modules.account.otp_ttl_minutes")
	if err := s.repoDB.ReplaceOtp(ctx, entity.CreateOtpToken{
		ID:          s.uid.Generate(),
		UserID:      user.ID,
		Email:       in.Email,
		OtpHash:     string(codeHash),
		Purpose:     entity.OtpPurposePasswordReset,
		MaxAttempts: s.cfg.GetInt32("modules.account.otp_max_attempts"),
		ExpiresAt:   s.clock.Now().Add(ttl),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo replace otp", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishPasswordOtpRequested(ctx, PasswordOtpRequestedEvent{
		EventID:          s.uuid.Generate(),
		UserID:           user.ID,
		Email:            user.Email,
		Otp:              code,
		ExpiresInMinutes: int(ttl / time.Minute),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish password otp requested", "user_id", user.ID, "error", err)
	}

	return nil
}
