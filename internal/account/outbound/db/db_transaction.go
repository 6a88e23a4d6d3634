package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
)

// ReplaceOtp retires every live OTP for the email and purpose, then stores the
// new one. Both happen in one transaction so there is never more than one
// redeemable code per email.
func (s *DB) ReplaceOtp(ctx context.Context, in entity.CreateOtpToken) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceOtp")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	const invalidate = `
		UPDATE account_otp_tokens
		SET used = TRUE
		WHERE email = $1 AND purpose = $2 AND used = FALSE`

	if _, err := tx.Exec(ctx, invalidate, in.Email, in.Purpose.String()); err != nil {
		return s.mapError(err)
	}

	const insert = `
		INSERT INTO account_otp_tokens (id, user_id, email, otp_hash, purpose, attempts, max_attempts, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, FALSE, $7, now())`

	if _, err := tx.Exec(ctx, insert,
		in.ID,
		in.UserID,
		in.Email,
		in.OtpHash,
		in.Purpose.String(),
		in.MaxAttempts,
		in.ExpiresAt,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// CreateResetTokenConsumeOtp stores the reset token and marks the verified OTP
// used. The token insert runs first so a fault can never leave a consumed OTP
// without its reset token.
func (s *DB) CreateResetTokenConsumeOtp(ctx context.Context, rt entity.CreateResetToken, otpID int64) (err error) {
	ctx, span := s.startSpan(ctx, "CreateResetTokenConsumeOtp")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	const insert = `
		INSERT INTO account_reset_tokens (id, user_id, email, token, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, now())`

	if _, err := tx.Exec(ctx, insert, rt.ID, rt.UserID, rt.Email, rt.Token, rt.ExpiresAt); err != nil {
		return s.mapError(err)
	}

	const consume = `
		UPDATE account_otp_tokens
		SET used = TRUE
		WHERE id = $1 AND used = FALSE`

	tag, err := tx.Exec(ctx, consume, otpID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// CompletePasswordReset updates the credential, confirms the email, consumes
// the redeemed token, and drops the user's remaining reset tokens atomically.
func (s *DB) CompletePasswordReset(ctx context.Context, in entity.CompletePasswordReset) (err error) {
	ctx, span := s.startSpan(ctx, "CompletePasswordReset")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	const updateUser = `
		UPDATE account_users
		SET password = $2, email_verified = TRUE, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, updateUser, in.UserID, in.PasswordHash)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	const consumeToken = `
		UPDATE account_reset_tokens
		SET used = TRUE
		WHERE id = $1 AND used = FALSE`

	tag, err = tx.Exec(ctx, consumeToken, in.TokenID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	const dropSiblings = `
		DELETE FROM account_reset_tokens
		WHERE email = $1 AND id <> $2`

	if _, err := tx.Exec(ctx, dropSiblings, in.Email, in.TokenID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
