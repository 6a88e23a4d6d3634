package db

import (
	"context"
	"time"
)

func (s *DB) DeleteOtp(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteOtp")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM account_otp_tokens WHERE id = $1`, id)
	return s.mapError(err)
}

func (s *DB) DeleteResetToken(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteResetToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM account_reset_tokens WHERE id = $1`, id)
	return s.mapError(err)
}

// DeleteExpiredTokens prunes OTP and reset token rows whose expiry has passed.
// Reads already treat expired rows as absent; this keeps the tables small.
func (s *DB) DeleteExpiredTokens(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredTokens")
	defer func() { s.endSpan(span, err) }()

	var total int64

	tag, err := s.conn.Exec(ctx, `DELETE FROM account_otp_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, s.mapError(err)
	}
	total += tag.RowsAffected()

	tag, err = s.conn.Exec(ctx, `DELETE FROM account_reset_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return total, s.mapError(err)
	}
	total += tag.RowsAffected()

	return total, nil
}
