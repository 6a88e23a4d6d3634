package entity

import (
	"time"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/valueobject"
)

// CreateEmailLog records one outbound email delivery attempt.
type CreateEmailLog struct {
	ID         int64
	UserID     int64
	Email      string
	TriggerKey TriggerKey
	Subject    string
	Status     DeliveryStatus
}

type UpdateEmailLog struct {
	ID               int64
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	NextRetryAt      *time.Time
}
