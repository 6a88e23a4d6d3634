package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/mail"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/valueobject"
)

type emailNotificationInput struct {
	UserID       int64
	Email        string
	TriggerKey   entity.TriggerKey
	TemplateData map[string]any
}

func (s *Usecase) sendEmailNotification(ctx context.Context, in emailNotificationInput) {
	tpl := s.getTemplate(ctx, in.TriggerKey)
	if tpl == nil {
		return
	}

	body, err := s.renderTemplate("body", tpl.Body, in.TemplateData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email body", "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	logID := s.uid.Generate()
	err = s.repoDB.CreateEmailLog(ctx, entity.CreateEmailLog{
		ID:         logID,
		UserID:     in.UserID,
		Email:      in.Email,
		TriggerKey: in.TriggerKey,
		Subject:    tpl.Subject,
		Status:     entity.DeliveryStatusQueued,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create email log", "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", err)
		return
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))
	mailErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, mail.Message{
			To:       []string{in.Email},
			Subject:  tpl.Subject,
			HTMLBody: body,
		}); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
	if mailErr == nil {
		up := entity.UpdateEmailLog{
			ID:               logID,
			Status:           entity.DeliveryStatusSent,
			ProviderResponse: valueobject.JSONMap{},
		}
		if err := s.repoDB.UpdateEmailLogStatus(ctx, up); err != nil {
			slog.ErrorContext(ctx, "failed to repo update email log status sent", "log_id", logID, "error", err)
		}
		return
	}

	nextRetry := s.clock.Now().Add(s.retryDelay())
	up := entity.UpdateEmailLog{
		ID:               logID,
		Status:           entity.DeliveryStatusFailed,
		ProviderResponse: valueobject.JSONMap{"error": mailErr.Error()},
		NextRetryAt:      &nextRetry,
	}
	if err := s.repoDB.UpdateEmailLogStatus(ctx, up); err != nil {
		slog.ErrorContext(ctx, "failed to repo update email log status failed", "log_id", logID, "error", err)
	}

	slog.ErrorContext(ctx, "failed to send notification email", "log_id", logID, "user_id", in.UserID, "trigger_key", in.TriggerKey.String(), "error", mailErr)
}

func (s *Usecase) retryDelay() time.Duration {
	delay := s.cfg.GetMinute("modules.notification.retry_delay_minutes")
	if delay <= 0 {
		delay = 2 * time.Minute
	}

	return delay
}
