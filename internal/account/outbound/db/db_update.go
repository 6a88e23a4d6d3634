package db

import (
	"context"
)

// RecordFailedOtpAttempt bumps the attempt counter atomically and returns the
// new value, so concurrent wrong guesses each consume exactly one attempt.
func (s *DB) RecordFailedOtpAttempt(ctx context.Context, id int64) (_ int32, err error) {
	ctx, span := s.startSpan(ctx, "RecordFailedOtpAttempt")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE account_otp_tokens
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts`

	var attempts int32
	if err = s.conn.QueryRow(ctx, query, id).Scan(&attempts); err != nil {
		return 0, s.mapError(err)
	}

	return attempts, nil
}
