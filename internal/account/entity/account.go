package entity

import "time"

type User struct {
	ID            int64
	Email         string
	EmailVerified bool
}

type OtpToken struct {
	ID          int64
	UserID      int64
	Email       string
	OtpHash     string
	Purpose     OtpPurpose
	Attempts    int32
	MaxAttempts int32
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

type CreateOtpToken struct {
	ID          int64
	UserID      int64
	Email       string
	OtpHash     string
	Purpose     OtpPurpose
	MaxAttempts int32
	ExpiresAt   time.Time
}

type ResetToken struct {
	ID        int64
	UserID    int64
	Email     string
	Token     string
	ExpiresAt time.Time
}

type CreateResetToken struct {
	ID        int64
	UserID    int64
	Email     string
	Token     string
	ExpiresAt time.Time
}

type CompletePasswordReset struct {
	UserID       int64
	TokenID      int64
	Email        string
	PasswordHash string
}
