package usecase

import (
	"context"
	"errors"
	"log/slog"
	"unicode"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
)

type PasswordResetInput struct {
	ResetToken  string `validate:"required"`
	NewPassword string `validate:"required"`
}

// PasswordReset redeems a reset token and sets the new credential. Because the
// token holder already proved control of the mailbox via OTP, the email is
// marked verified in the same step.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := checkPasswordPolicy(in.NewPassword); err != nil {
		return err
	}

	record, err := s.repoDB.GetActiveResetToken(ctx, in.ResetToken)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Invalid or expired reset token", goerror.CodeInvalidInput).
			WithReason("TOKEN_INVALID")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get active reset token", "error", err)
		return goerror.NewServer(err)
	}

	if s.clock.Now().After(record.ExpiresAt) {
		if err := s.repoDB.DeleteResetToken(ctx, record.ID); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete expired reset token", "token_id", record.ID, "error", err)
		}

		return goerror.NewBusiness("Reset token has expired. Please start the password reset process again.", goerror.CodeInvalidInput).
			WithReason("TOKEN_EXPIRED")
	}

	user, err := s.repoDB.GetUserByEmail(ctx, record.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "reset token refers to missing user", "email", record.Email)
		return goerror.NewBusiness("User not found", goerror.CodeNotFound).
			WithReason("USER_NOT_FOUND")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", record.Email, "error", err)
		return goerror.NewServer(err)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.CompletePasswordReset(ctx, entity.CompletePasswordReset{
		UserID:       user.ID,
		TokenID:      record.ID,
		Email:        record.Email,
		PasswordHash: string(newHash),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo complete password reset", "user_id", user.ID, "token_id", record.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishPasswordChanged(ctx, PasswordChangedEvent{
		EventID: s.uuid.Generate(),
		UserID:  user.ID,
		Email:   user.Email,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish password changed", "user_id", user.ID, "error", err)
	}

	return nil
}

func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return goerror.NewBusiness("Password must be at least 8 characters long", goerror.CodeInvalidInput).
			WithReason("PASSWORD_TOO_SHORT")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return goerror.NewBusiness("Password must contain at least one uppercase letter, one lowercase letter, and one number", goerror.CodeInvalidInput).
			WithReason("PASSWORD_TOO_WEAK")
	}

	return nil
}
