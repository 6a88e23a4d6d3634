package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTracker(t *testing.T) (*StateTracker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client), mr
}

func TestExecRunsOnce(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	if err := tracker.Exec(ctx, "op-1", fn); err != nil {
		t.Fatalf("first exec failed: %v", err)
	}

	err := tracker.Exec(ctx, "op-1", fn)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one execution, got %d", calls)
	}
}

func TestExecRecordsFailure(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tracker.Exec(ctx, "op-2", func(context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the fn error, got %v", err)
	}

	err = tracker.Exec(ctx, "op-2", func(context.Context) error {
		t.Fatal("fn must not run again while the failed state is held")
		return nil
	})
	if !errors.Is(err, ErrAlreadyFailed) {
		t.Fatalf("expected ErrAlreadyFailed, got %v", err)
	}
}

func TestExecStateExpires(t *testing.T) {
	tracker, mr := newTracker(t)
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	if err := tracker.Exec(ctx, "op-3", fn, WithStateTTL(time.Second)); err != nil {
		t.Fatalf("first exec failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if err := tracker.Exec(ctx, "op-3", fn, WithStateTTL(time.Second)); err != nil {
		t.Fatalf("exec after expiry failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected the op to run again after the state expired, got %d calls", calls)
	}
}

func TestAcquireReportsInProgress(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "op-4", time.Minute)
	if err != nil || state != StateNone {
		t.Fatalf("expected a fresh acquire, got %v %v", state, err)
	}

	state, err = tracker.Acquire(ctx, "op-4", time.Minute)
	if err != nil || state != StateInProgress {
		t.Fatalf("expected in-progress, got %v %v", state, err)
	}
}
