package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/config"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/idempotency"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/instrument"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/mail"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/validator"
)

type fakeLogDB struct {
	created []entity.CreateEmailLog
	updated []entity.UpdateEmailLog
}

func (f *fakeLogDB) CreateEmailLog(_ context.Context, data entity.CreateEmailLog) error {
	f.created = append(f.created, data)
	return nil
}

func (f *fakeLogDB) UpdateEmailLogStatus(_ context.Context, data entity.UpdateEmailLog) error {
	f.updated = append(f.updated, data)
	return nil
}

type fakeMail struct {
	sent     []mail.Message
	failures int
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp: connection reset")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

type stubNumberID struct {
	n int64
}

func (s stubNumberID) Generate() int64 {
	return s.n
}

func newTestNotification(t *testing.T) (*Usecase, *fakeLogDB, *fakeMail) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  notification:
    support_email: support@calotracker.com
    retry_delay_minutes: 2
`))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db := &fakeLogDB{}
	mailer := &fakeMail{}

	uc := NewNotification(Dependency{
		RepoDB:      db,
		RepoMail:    mailer,
		Config:      cfg,
		UID:         stubNumberID{n: 888},
		Clock:       &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Validator:   v10,
		Idempotency: idempotency.New(client),
		Instrument:  instrument.NewNoop(),
	})

	return uc, db, mailer
}

func otpInput(eventID string) ConsumePasswordOtpRequestedInput {
	return ConsumePasswordOtpRequestedInput{
		EventID:          eventID,
		UserID:           42,
		Email:            "user@example.com",
		Otp:              "123456",
		ExpiresInMinutes: 5,
	}
}
