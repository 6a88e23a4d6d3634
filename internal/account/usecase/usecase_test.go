package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/config"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/hash"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/instrument"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/otp"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/ratelimit"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  account:
    otp_ttl_minutes: 5
    otp_max_attempts: 5
    reset_token_ttl_minutes: 10
    rate_limit:
      request_otp_max: 3
      request_otp_window_minutes: 15
      verify_otp_max: 10
      verify_otp_window_minutes: 15
`

type fakeDB struct {
	getUserByEmail             func(ctx context.Context, email string) (*entity.User, error)
	getActiveOtp               func(ctx context.Context, email string, purpose entity.OtpPurpose) (*entity.OtpToken, error)
	getActiveResetToken        func(ctx context.Context, token string) (*entity.ResetToken, error)
	replaceOtp                 func(ctx context.Context, in entity.CreateOtpToken) error
	createResetTokenConsumeOtp func(ctx context.Context, rt entity.CreateResetToken, otpID int64) error
	completePasswordReset      func(ctx context.Context, in entity.CompletePasswordReset) error
	recordFailedOtpAttempt     func(ctx context.Context, id int64) (int32, error)
	deleteOtp                  func(ctx context.Context, id int64) error
	deleteResetToken           func(ctx context.Context, id int64) error
	deleteExpiredTokens        func(ctx context.Context, now time.Time) (int64, error)
}

func (f *fakeDB) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.getUserByEmail(ctx, email)
}

func (f *fakeDB) GetActiveOtp(ctx context.Context, email string, purpose entity.OtpPurpose) (*entity.OtpToken, error) {
	return f.getActiveOtp(ctx, email, purpose)
}

func (f *fakeDB) GetActiveResetToken(ctx context.Context, token string) (*entity.ResetToken, error) {
	return f.getActiveResetToken(ctx, token)
}

func (f *fakeDB) ReplaceOtp(ctx context.Context, in entity.CreateOtpToken) error {
	return f.replaceOtp(ctx, in)
}

func (f *fakeDB) CreateResetTokenConsumeOtp(ctx context.Context, rt entity.CreateResetToken, otpID int64) error {
	return f.createResetTokenConsumeOtp(ctx, rt, otpID)
}

func (f *fakeDB) CompletePasswordReset(ctx context.Context, in entity.CompletePasswordReset) error {
	return f.completePasswordReset(ctx, in)
}

func (f *fakeDB) RecordFailedOtpAttempt(ctx context.Context, id int64) (int32, error) {
	return f.recordFailedOtpAttempt(ctx, id)
}

func (f *fakeDB) DeleteOtp(ctx context.Context, id int64) error {
	return f.deleteOtp(ctx, id)
}

func (f *fakeDB) DeleteResetToken(ctx context.Context, id int64) error {
	return f.deleteResetToken(ctx, id)
}

func (f *fakeDB) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	return f.deleteExpiredTokens(ctx, now)
}

type fakeMessaging struct {
	otpRequested []PasswordOtpRequestedEvent
	changed      []PasswordChangedEvent
	err          error
}

func (f *fakeMessaging) PublishPasswordOtpRequested(_ context.Context, msg PasswordOtpRequestedEvent) error {
	f.otpRequested = append(f.otpRequested, msg)
	return f.err
}

func (f *fakeMessaging) PublishPasswordChanged(_ context.Context, msg PasswordChangedEvent) error {
	f.changed = append(f.changed, msg)
	return f.err
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, _ ratelimit.Policy, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
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

type stubStringID struct {
	v string
}

func (s stubStringID) Generate() string {
	return s.v
}

type testEnv struct {
	db      *fakeDB
	mq      *fakeMessaging
	limiter *fakeLimiter
	clock   *fakeClock
	bcrypt  hash.Hash
}

func newTestUsecase(t *testing.T) (*Usecase, *testEnv) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	env := &testEnv{
		db:      &fakeDB{},
		mq:      &fakeMessaging{},
		limiter: &fakeLimiter{allowed: true},
		clock:   &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		bcrypt:  hash.NewBcrypt(4, ""),
	}

	uc := New(Dependency{
		RepoDB:        env.db,
		RepoMessaging: env.mq,
		Limiter:       env.limiter,
		Validator:     v10,
		Config:        cfg,
		Bcrypt:        env.bcrypt,
		UID:           stubNumberID{n: 777},
		UUID:          stubStringID{v: "11111111-2222-3333-4444-555555555555"},
		Otp:           otp.NewNumeric(6),
		Clock:         env.clock,
		Instrument:    instrument.NewNoop(),
	})

	return uc, env
}
