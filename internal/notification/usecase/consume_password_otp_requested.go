package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/idempotency"
)

type ConsumePasswordOtpRequestedInput struct {
	EventID          string `validate:"required"`
	UserID           int64  `validate:"required,gt=0"`
	Email            string `validate:"required,email"`
	Otp              string `validate:"required"`
	ExpiresInMinutes int
}

// ConsumePasswordOtpRequested emails the one-time code for a password reset.
// Delivery is deduplicated by event id, so a redelivered message does not
// send a second email.
func (s *Usecase) ConsumePasswordOtpRequested(ctx context.Context, in ConsumePasswordOtpRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordOtpRequested")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	key := "notification:" + entity.TriggerKeyPasswordOtp.String() + ":" + in.EventID
	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		data := s.baseEmailTemplateData()
		data["otp"] = in.Otp
		data["expires_in_minutes"] = strconv.Itoa(in.ExpiresInMinutes)

		s.sendEmailNotification(ctx, emailNotificationInput{
			UserID:       in.UserID,
			Email:        in.Email,
			TriggerKey:   entity.TriggerKeyPasswordOtp,
			TemplateData: data,
		})

		return nil
	})
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.InfoContext(ctx, "skipping duplicate password otp event", "event_id", in.EventID)
		return nil
	}

	return err
}
