package db

import (
	"context"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
)

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, email, email_verified
		FROM account_users
		WHERE email = $1`

	var user entity.User
	err = s.conn.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.EmailVerified)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

// GetActiveOtp returns the newest unconsumed OTP for the email and purpose.
// Older rows may still exist after a replace raced with this read; taking the
// newest one keeps "last issued code wins".
func (s *DB) GetActiveOtp(ctx context.Context, email string, purpose entity.OtpPurpose) (_ *entity.OtpToken, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveOtp")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, email, otp_hash, purpose, attempts, max_attempts, expires_at, created_at
		FROM account_otp_tokens
		WHERE email = $1 AND purpose = $2 AND used = FALSE
		ORDER BY created_at DESC
		LIMIT 1`

	var otp entity.OtpToken
	err = s.conn.QueryRow(ctx, query, email, purpose.String()).Scan(
		&otp.ID,
		&otp.UserID,
		&otp.Email,
		&otp.OtpHash,
		&otp.Purpose,
		&otp.Attempts,
		&otp.MaxAttempts,
		&otp.ExpiresAt,
		&otp.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &otp, nil
}

func (s *DB) GetActiveResetToken(ctx context.Context, token string) (_ *entity.ResetToken, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveResetToken")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, email, token, expires_at
		FROM account_reset_tokens
		WHERE token = $1 AND used = FALSE
		LIMIT 1`

	var rt entity.ResetToken
	err = s.conn.QueryRow(ctx, query, token).Scan(&rt.ID, &rt.UserID, &rt.Email, &rt.Token, &rt.ExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rt, nil
}
