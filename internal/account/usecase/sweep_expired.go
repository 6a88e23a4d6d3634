package usecase

import (
	"context"
	"log/slog"
)

// SweepExpiredTokens prunes expired OTP and reset token rows. Reads never
// return expired rows, so this only reclaims storage.
func (s *Usecase) SweepExpiredTokens(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SweepExpiredTokens")
	defer span.End()

	removed, err := s.repoDB.DeleteExpiredTokens(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired tokens", "error", err)
		return err
	}

	if removed > 0 {
		slog.InfoContext(ctx, "pruned expired tokens", "count", removed)
	}

	return nil
}
