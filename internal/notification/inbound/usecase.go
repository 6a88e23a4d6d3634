package inbound

import (
	"context"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/notification/usecase"
)

type uc interface {
	ConsumePasswordOtpRequested(ctx context.Context, in usecase.ConsumePasswordOtpRequestedInput) error
	ConsumePasswordChanged(ctx context.Context, in usecase.ConsumePasswordChangedInput) error
}
