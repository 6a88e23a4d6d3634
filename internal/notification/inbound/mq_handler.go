package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/usecase"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/instrument"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/messaging"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/uid"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) PasswordOtpRequestedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasswordOtpRequestedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: password otp requested notification")

	var payload event.PasswordOtpRequestedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of password otp requested notification", "error", err)
		return nil
	}

	if err := h.uc.ConsumePasswordOtpRequested(ctx, usecase.ConsumePasswordOtpRequestedInput{
		EventID:          payload.EventID,
		UserID:           payload.UserID,
		Email:            payload.Email,
		Otp:              payload.Otp,
		ExpiresInMinutes: payload.ExpiresInMinutes,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume password otp requested", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) PasswordChangedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PasswordChangedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: password changed notification", "msg_body", string(body))

	var payload event.PasswordChangedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of password changed notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumePasswordChanged(ctx, usecase.ConsumePasswordChangedInput{
		EventID: payload.EventID,
		UserID:  payload.UserID,
		Email:   payload.Email,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume password changed", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
