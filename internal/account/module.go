package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/inbound"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/outbound/db"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/outbound/mq"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/usecase"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/clock"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/config"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goroutine"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/hash"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/instrument"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/messaging"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/otp"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/ratelimit"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/router"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/uid"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Otp        otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAccount := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	limiter := ratelimit.NewSlidingWindow(dep.CacheConn, dep.Clock)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAccount,
		RepoMessaging: repoMsg,
		Limiter:       limiter,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Otp:           dep.Otp,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if dep.Ctx != nil {
		registerExpirySweeper(dep.Ctx, dep.Config, dep.Goroutine, uc)
	}

	return nil
}

func registerExpirySweeper(ctx context.Context, cfg config.Config, routine *goroutine.Manager, uc *usecase.Usecase) {
	interval := cfg.GetMinute("modules.account.sweep_interval_minutes")
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	routine.Go(ctx, func(pCtx context.Context) error {
		slog.InfoContext(pCtx, "Running job for pruning expired tokens", "interval", interval.String())

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-pCtx.Done():
				return nil
			case <-ticker.C:
				if err := uc.SweepExpiredTokens(pCtx); err != nil {
					slog.ErrorContext(pCtx, "failed to sweep expired tokens", "error", err)
				}
			}
		}
	})
}
