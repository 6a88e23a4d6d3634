package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/idempotency"
)

type ConsumePasswordChangedInput struct {
	EventID string `validate:"required"`
	UserID  int64  `validate:"required,gt=0"`
	Email   string `validate:"required,email"`
}

// ConsumePasswordChanged emails a confirmation after a successful password
// reset, deduplicated by event id.
func (s *Usecase) ConsumePasswordChanged(ctx context.Context, in ConsumePasswordChangedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePasswordChanged")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	key := "notification:" + entity.TriggerKeyPasswordChanged.String() + ":" + in.EventID
	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		s.sendEmailNotification(ctx, emailNotificationInput{
			UserID:       in.UserID,
			Email:        in.Email,
			TriggerKey:   entity.TriggerKeyPasswordChanged,
			TemplateData: s.baseEmailTemplateData(),
		})

		return nil
	})
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.InfoContext(ctx, "skipping duplicate password changed event", "event_id", in.EventID)
		return nil
	}

	return err
}
