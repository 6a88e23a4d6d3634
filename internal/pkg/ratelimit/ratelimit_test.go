package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestLimiter(t *testing.T) (*SlidingWindow, *fakeClock) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clk := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	return NewSlidingWindow(client, clk), clk
}

func TestSlidingWindowAllowWithinLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	policy := Policy{Name: "request_otp", Limit: 3, Window: 15 * time.Minute}

	for i := range 3 {
		ok, err := limiter.Allow(context.Background(), policy, "user@example.com")
		if err != nil {
			t.Fatalf("Allow() #%d error = %v", i+1, err)
		}
		if !ok {
			t.Fatalf("Allow() #%d = false, want true", i+1)
		}
	}

	ok, err := limiter.Allow(context.Background(), policy, "user@example.com")
	if err != nil {
		t.Fatalf("Allow() #4 error = %v", err)
	}
	if ok {
		t.Fatal("Allow() #4 = true, want false")
	}
}

func TestSlidingWindowResetsAfterWindow(t *testing.T) {
	limiter, clk := newTestLimiter(t)
	policy := Policy{Name: "request_otp", Limit: 3, Window: 15 * time.Minute}

	for range 3 {
		if _, err := limiter.Allow(context.Background(), policy, "user@example.com"); err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
	}

	clk.now = clk.now.Add(15*time.Minute + time.Second)

	ok, err := limiter.Allow(context.Background(), policy, "user@example.com")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !ok {
		t.Fatal("Allow() after window = false, want true")
	}
}

func TestSlidingWindowSlides(t *testing.T) {
	limiter, clk := newTestLimiter(t)
	policy := Policy{Name: "verify_otp", Limit: 2, Window: 10 * time.Minute}

	if _, err := limiter.Allow(context.Background(), policy, "k"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}

	clk.now = clk.now.Add(6 * time.Minute)
	if _, err := limiter.Allow(context.Background(), policy, "k"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}

	// First event is 6 minutes old, second is fresh. Moving 5 more minutes
	// ages only the first one out.
	clk.now = clk.now.Add(5 * time.Minute)

	ok, err := limiter.Allow(context.Background(), policy, "k")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !ok {
		t.Fatal("Allow() = false, want true after oldest event expired")
	}

	ok, err = limiter.Allow(context.Background(), policy, "k")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if ok {
		t.Fatal("Allow() = true, want false with two fresh events")
	}
}

func TestSlidingWindowKeyIsolation(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	policy := Policy{Name: "request_otp", Limit: 1, Window: time.Minute}

	if _, err := limiter.Allow(context.Background(), policy, "a@example.com"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}

	ok, err := limiter.Allow(context.Background(), policy, "b@example.com")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !ok {
		t.Fatal("Allow() for different key = false, want true")
	}
}

func TestSlidingWindowPolicyIsolation(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	request := Policy{Name: "request_otp", Limit: 1, Window: time.Minute}
	verify := Policy{Name: "verify_otp", Limit: 1, Window: time.Minute}

	if _, err := limiter.Allow(context.Background(), request, "user@example.com"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}

	ok, err := limiter.Allow(context.Background(), verify, "user@example.com")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !ok {
		t.Fatal("Allow() under different policy = false, want true")
	}
}

func TestSlidingWindowStorageError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewSlidingWindow(client, &fakeClock{now: time.Now()})

	mr.Close()

	ok, err := limiter.Allow(context.Background(), Policy{Name: "p", Limit: 1, Window: time.Minute}, "k")
	if err == nil {
		t.Fatal("Allow() error = nil, want storage error")
	}
	if ok {
		t.Fatal("Allow() = true on storage error, want false")
	}
}
