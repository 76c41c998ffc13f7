package budget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrBudgetExceeded is returned when today's reasoning-service spend has
// reached the daily ceiling.
var ErrBudgetExceeded = errors.New("daily reasoning budget exceeded")

// Governor caps reasoning-service spend per calendar day. The counter
// lives in Redis so every replica shares one ceiling; the increment is a
// single INCRBYFLOAT, so concurrent runs never lose updates.
type Governor struct {
	client   redis.Cmdable
	ceiling  float64
	callCost float64
	logger   *log.Logger
	now      func() time.Time
}

// Stats is a point-in-time view of today's counter.
type Stats struct {
	Date          string  `json:"date"`
	Spent         float64 `json:"spent"`
	Ceiling       float64 `json:"ceiling"`
	Remaining     float64 `json:"remaining"`
	Runs          int64   `json:"runs"`
	RemainingRuns int64   `json:"remaining_runs"`
}

func NewGovernor(client redis.Cmdable, ceiling, callCost float64, logger *log.Logger) *Governor {
	return &Governor{
		client:   client,
		ceiling:  ceiling,
		callCost: callCost,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the governor's clock. Only tests use this.
func (g *Governor) WithClock(now func() time.Time) *Governor {
	g.now = now
	return g
}

func (g *Governor) key() string {
	return "recommend:spend:" + g.now().Format("2006-01-02")
}

// Check reads today's spend without touching it and reports whether a new
// pipeline run may start. A missing key means zero spend.
func (g *Governor) Check(ctx context.Context) error {
	spent, err := g.client.Get(ctx, g.key()).Float64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("budget check: %w", err)
	}
	if spent >= g.ceiling {
		g.logger.Printf("[BUDGET] ceiling reached: %.4f of %.4f", spent, g.ceiling)
		return ErrBudgetExceeded
	}
	return nil
}

// RecordRun atomically adds one pipeline run's estimated cost and returns
// the new total. The key expires shortly after midnight so a stuck counter
// can never starve the following day.
func (g *Governor) RecordRun(ctx context.Context) (float64, error) {
	key := g.key()
	total, err := g.client.IncrByFloat(ctx, key, g.callCost).Result()
	if err != nil {
		return 0, fmt.Errorf("budget increment: %w", err)
	}

	// Expiry follows the key's calendar day, in the clock's own location
	n := g.now()
	midnight := time.Date(n.Year(), n.Month(), n.Day(), 0, 5, 0, 0, n.Location()).AddDate(0, 0, 1)
	if err := g.client.ExpireNX(ctx, key, midnight.Sub(n)).Err(); err != nil {
		// The counter still works without an expiry; tomorrow uses a new key
		g.logger.Printf("[BUDGET] could not set expiry on %s: %v", key, err)
	}
	return total, nil
}

// TodayStats derives everything from the single daily counter.
func (g *Governor) TodayStats(ctx context.Context) (*Stats, error) {
	spent, err := g.client.Get(ctx, g.key()).Float64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("budget stats: %w", err)
	}

	remaining := g.ceiling - spent
	if remaining < 0 {
		remaining = 0
	}
	var runs, remainingRuns int64
	if g.callCost > 0 {
		runs = int64(spent/g.callCost + 0.5)
		remainingRuns = int64(remaining/g.callCost + 0.5)
	}
	return &Stats{
		Date:          g.now().Format("2006-01-02"),
		Spent:         spent,
		Ceiling:       g.ceiling,
		Remaining:     remaining,
		Runs:          runs,
		RemainingRuns: remainingRuns,
	}, nil
}
