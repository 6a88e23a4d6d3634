package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/entity"
)

func TestConsumePasswordOtpRequested_SendsCodeEmail(t *testing.T) {
	uc, db, mailer := newTestNotification(t)

	if err := uc.ConsumePasswordOtpRequested(context.Background(), otpInput("evt-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]

	if msg.To[0] != "user@example.com" {
		t.Fatalf("unexpected recipient %v", msg.To)
	}
	if msg.Subject != "Your CaloTracker password reset code" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, "123456") {
		t.Fatal("email body must contain the code")
	}
	if !strings.Contains(msg.HTMLBody, "expires in 5 minutes") {
		t.Fatal("email body must mention the expiry window")
	}
	if !strings.Contains(msg.HTMLBody, "support@calotracker.com") {
		t.Fatal("email body must include the support address")
	}

	if len(db.created) != 1 || db.created[0].Status != entity.DeliveryStatusQueued {
		t.Fatalf("expected a queued delivery log, got %+v", db.created)
	}
	if db.created[0].TriggerKey != entity.TriggerKeyPasswordOtp {
		t.Fatalf("unexpected trigger key %q", db.created[0].TriggerKey)
	}
	if len(db.updated) != 1 || db.updated[0].Status != entity.DeliveryStatusSent {
		t.Fatalf("expected the log marked sent, got %+v", db.updated)
	}
}

func TestConsumePasswordOtpRequested_DuplicateEventIsSkipped(t *testing.T) {
	uc, _, mailer := newTestNotification(t)

	if err := uc.ConsumePasswordOtpRequested(context.Background(), otpInput("evt-dup")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.ConsumePasswordOtpRequested(context.Background(), otpInput("evt-dup")); err != nil {
		t.Fatalf("duplicate delivery must not error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one email for a redelivered event, got %d", len(mailer.sent))
	}
}

func TestConsumePasswordOtpRequested_InvalidPayloadIsDropped(t *testing.T) {
	uc, db, mailer := newTestNotification(t)

	in := otpInput("evt-bad")
	in.Email = "not-an-email"

	if err := uc.ConsumePasswordOtpRequested(context.Background(), in); err != nil {
		t.Fatalf("invalid payloads are dropped, not retried: %v", err)
	}

	if len(mailer.sent) != 0 || len(db.created) != 0 {
		t.Fatal("nothing should be sent for an invalid payload")
	}
}

func TestConsumePasswordOtpRequested_TransientSendFailureIsRetried(t *testing.T) {
	uc, db, mailer := newTestNotification(t)
	mailer.failures = 2

	if err := uc.ConsumePasswordOtpRequested(context.Background(), otpInput("evt-retry")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected the send to eventually succeed, got %d emails", len(mailer.sent))
	}
	if len(db.updated) != 1 || db.updated[0].Status != entity.DeliveryStatusSent {
		t.Fatalf("expected the log marked sent after retries, got %+v", db.updated)
	}
}

func TestConsumePasswordOtpRequested_PersistentFailureIsRecorded(t *testing.T) {
	uc, db, mailer := newTestNotification(t)
	mailer.failures = 10

	if err := uc.ConsumePasswordOtpRequested(context.Background(), otpInput("evt-fail")); err != nil {
		t.Fatalf("delivery failure is recorded, not bubbled: %v", err)
	}

	if len(mailer.sent) != 0 {
		t.Fatal("no email should have gone out")
	}
	if len(db.updated) != 1 || db.updated[0].Status != entity.DeliveryStatusFailed {
		t.Fatalf("expected the log marked failed, got %+v", db.updated)
	}
	if db.updated[0].NextRetryAt == nil {
		t.Fatal("failed deliveries must schedule a retry time")
	}
}

func TestConsumePasswordChanged_SendsConfirmationEmail(t *testing.T) {
	uc, db, mailer := newTestNotification(t)

	err := uc.ConsumePasswordChanged(context.Background(), ConsumePasswordChangedInput{
		EventID: "evt-changed",
		UserID:  42,
		Email:   "user@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	if mailer.sent[0].Subject != "Your CaloTracker password was changed" {
		t.Fatalf("unexpected subject %q", mailer.sent[0].Subject)
	}
	if db.created[0].TriggerKey != entity.TriggerKeyPasswordChanged {
		t.Fatalf("unexpected trigger key %q", db.created[0].TriggerKey)
	}
}
