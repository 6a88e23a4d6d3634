package usecase

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/clock"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/config"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/hash"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/instrument"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/otp"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/ratelimit"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/uid"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/validator"
)

type PasswordOtpRequestedEvent struct {
	EventID          string
	UserID           int64
	Email            string
	Otp              string
	ExpiresInMinutes int
}

type PasswordChangedEvent struct {
	EventID string
	UserID  int64
	Email   string
}

type repoMessaging interface {
	PublishPasswordOtpRequested(ctx context.Context, msg PasswordOtpRequestedEvent) error
	PublishPasswordChanged(ctx context.Context, msg PasswordChangedEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetActiveOtp(ctx context.Context, email string, purpose entity.OtpPurpose) (*entity.OtpToken, error)
	GetActiveResetToken(ctx context.Context, token string) (*entity.ResetToken, error)

	ReplaceOtp(ctx context.Context, in entity.CreateOtpToken) error
	CreateResetTokenConsumeOtp(ctx context.Context, rt entity.CreateResetToken, otpID int64) error
	CompletePasswordReset(ctx context.Context, in entity.CompletePasswordReset) error

	RecordFailedOtpAttempt(ctx context.Context, id int64) (int32, error)
	DeleteOtp(ctx context.Context, id int64) error
	DeleteResetToken(ctx context.Context, id int64) error
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	limiter       ratelimit.Limiter
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	uid           uid.NumberID
	uuid          uid.StringID
	otp           otp.Generator
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Limiter       ratelimit.Limiter
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	UID           uid.NumberID
	UUID          uid.StringID
	Otp           otp.Generator
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		limiter:       dep.Limiter,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		uuid:          dep.UUID,
		otp:           dep.Otp,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func normalizeOtp(code string) string {
	return strings.TrimSpace(code)
}

func (s *Usecase) requestOtpPolicy() ratelimit.Policy {
	return ratelimit.Policy{
		Name:   "request_otp",
		Limit:  s.cfg.GetInt64("modules.account.rate_limit.request_otp_max"),
		Window: s.cfg.GetMinute("modules.account.rate_limit.request_otp_window_minutes"),
	}
}

func (s *Usecase) verifyOtpPolicy() ratelimit.Policy {
	return ratelimit.Policy{
		Name:   "verify_otp",
		Limit:  s.cfg.GetInt64("modules.account.rate_limit.verify_otp_max"),
		Window: s.cfg.GetMinute("modules.account.rate_limit.verify_otp_window_minutes"),
	}
}
