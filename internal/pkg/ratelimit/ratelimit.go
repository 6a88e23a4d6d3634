package ratelimit

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/in4SECxMinDandy/Calo-Tracker/internal/pkg/clock"
)

// Policy describes a request budget over a sliding time window.
type Policy struct {
	// Name namespaces the budget so different operations never share counters.
	Name string
	// Limit is the maximum number of allowed events per window.
	Limit int64
	// Window is the sliding window size.
	Window time.Duration
}

// Limiter decides whether an event identified by key may proceed under a policy.
type Limiter interface {
	// Allow records the event and reports whether it fits the budget. A storage
	// error means the decision could not be made; callers must treat that as a
	// denial for abuse-sensitive flows.
	Allow(ctx context.Context, p Policy, key string) (bool, error)
}

// SlidingWindow implements Limiter on redis using a sorted set per key.
//
// The whole check-and-record runs as one Lua script so concurrent requests
// against the same key cannot both slip under the limit.
type SlidingWindow struct {
	client *redis.Client
	clock  clock.Clocker
	prefix string
	seq    uint64
}

// NewSlidingWindow returns a redis-backed sliding window limiter.
func NewSlidingWindow(client *redis.Client, clk clock.Clocker) *SlidingWindow {
	return &SlidingWindow{
		client: client,
		clock:  clk,
		prefix: "ratelimit:",
	}
}

var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
if redis.call("ZCARD", key) >= limit then
	return 0
end
redis.call("ZADD", key, now, member)
redis.call("PEXPIRE", key, window)
return 1
`)

// Allow records an event for key under policy p and reports whether it fits.
func (l *SlidingWindow) Allow(ctx context.Context, p Policy, key string) (bool, error) {
	now := l.clock.Now().UnixMilli()

	// Members need to be unique even when the clock stands still in tests.
	member := strconv.FormatInt(now, 10) + "-" + strconv.FormatUint(atomic.AddUint64(&l.seq, 1), 10)

	fk := l.prefix + p.Name + ":" + key
	res, err := slidingWindowScript.Run(ctx, l.client,
		[]string{fk},
		now,
		p.Window.Milliseconds(),
		p.Limit,
		member,
	).Int()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}
