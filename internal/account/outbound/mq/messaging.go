package mq

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/codes"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/usecase"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/instrument"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/messaging"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishPasswordOtpRequested(ctx context.Context, msg usecase.PasswordOtpRequestedEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, "PublishPasswordOtpRequested")
	defer span.End()

	body, err := json.Marshal(event.PasswordOtpRequestedMessage{
		EventID:          msg.EventID,
		UserID:           msg.UserID,
		Email:            msg.Email,
		Otp:              msg.Otp,
		ExpiresInMinutes: msg.ExpiresInMinutes,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.PasswordOtpRequestedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishPasswordChanged(ctx context.Context, msg usecase.PasswordChangedEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, "PublishPasswordChanged")
	defer span.End()

	body, err := json.Marshal(event.PasswordChangedMessage{
		EventID: msg.EventID,
		UserID:  msg.UserID,
		Email:   msg.Email,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.PasswordChangedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
