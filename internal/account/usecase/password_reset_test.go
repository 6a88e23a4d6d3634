package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/account/entity"
	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/goerror"
)

func (e *testEnv) activeResetToken() *entity.ResetToken {
	return &entity.ResetToken{
		ID:        555,
		UserID:    42,
		Email:     "user@example.com",
		Token:     "11111111-2222-3333-4444-555555555555",
		ExpiresAt: e.clock.Now().Add(10 * time.Minute),
	}
}

func TestPasswordReset_PasswordPolicyBeforeTokenLookup(t *testing.T) {
	uc, env := newTestUsecase(t)
	env.db.getActiveResetToken = func(context.Context, string) (*entity.ResetToken, error) {
		t.Fatal("token lookup must not happen when the password is rejected")
		return nil, nil
	}

	err := uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: "whatever", NewPassword: "Ab1"})
	mustReason(t, err, "PASSWORD_TOO_SHORT")

	err = uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: "whatever", NewPassword: "alllowercase1"})
	mustReason(t, err, "PASSWORD_TOO_WEAK")

	err = uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: "whatever", NewPassword: "NoDigitsHere"})
	mustReason(t, err, "PASSWORD_TOO_WEAK")
}

func TestPasswordReset_UnknownToken(t *testing.T) {
	uc, env := newTestUsecase(t)
	env.db.getActiveResetToken = func(context.Context, string) (*entity.ResetToken, error) {
		return nil, goerror.ErrNotFound
	}

	err := uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: "missing", NewPassword: "Sup3rSecret"})
	mustReason(t, err, "TOKEN_INVALID")
}

func TestPasswordReset_ExpiredTokenIsDeleted(t *testing.T) {
	uc, env := newTestUsecase(t)

	record := env.activeResetToken()
	record.ExpiresAt = env.clock.Now().Add(-time.Second)
	env.db.getActiveResetToken = func(context.Context, string) (*entity.ResetToken, error) {
		return record, nil
	}

	var deleted int64
	env.db.deleteResetToken = func(_ context.Context, id int64) error {
		deleted = id
		return nil
	}

	err := uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: record.Token, NewPassword: "Sup3rSecret"})
	mustReason(t, err, "TOKEN_EXPIRED")
	if deleted != record.ID {
		t.Fatalf("expected token %d deleted, got %d", record.ID, deleted)
	}
}

func TestPasswordReset_MissingUser(t *testing.T) {
	uc, env := newTestUsecase(t)

	env.db.getActiveResetToken = func(context.Context, string) (*entity.ResetToken, error) {
		return env.activeResetToken(), nil
	}
	env.db.getUserByEmail = func(context.Context, string) (*entity.User, error) {
		return nil, goerror.ErrNotFound
	}

	err := uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: "11111111-2222-3333-4444-555555555555", NewPassword: "Sup3rSecret"})
	gerr := mustReason(t, err, "USER_NOT_FOUND")
	if gerr.StatusCode() != 404 {
		t.Fatalf("expected status 404, got %d", gerr.StatusCode())
	}
}

func TestPasswordReset_Success(t *testing.T) {
	uc, env := newTestUsecase(t)

	record := env.activeResetToken()
	env.db.getActiveResetToken = func(_ context.Context, token string) (*entity.ResetToken, error) {
		if token != record.Token {
			t.Fatalf("unexpected token lookup %q", token)
		}
		return record, nil
	}
	env.db.getUserByEmail = func(context.Context, string) (*entity.User, error) {
		return &entity.User{ID: 42, Email: "user@example.com"}, nil
	}

	var completed entity.CompletePasswordReset
	env.db.completePasswordReset = func(_ context.Context, in entity.CompletePasswordReset) error {
		completed = in
		return nil
	}

	err := uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: record.Token, NewPassword: "Sup3rSecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if completed.UserID != 42 || completed.TokenID != record.ID {
		t.Fatalf("unexpected completion row: %+v", completed)
	}
	if !env.bcrypt.Verify(completed.PasswordHash, "Sup3rSecret") {
		t.Fatal("stored hash does not match the new password")
	}
	if len(env.mq.changed) != 1 || env.mq.changed[0].UserID != 42 {
		t.Fatalf("expected one password changed event, got %+v", env.mq.changed)
	}
}
