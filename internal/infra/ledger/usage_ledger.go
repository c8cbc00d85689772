package ledger

import (
	"context"
	"errors"
	"fmt"

	"palmgrove-bookings/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// RedisUsageLedger counts coupon redemptions per contact. Counters never
// expire; usage limits are lifetime limits, not per-window.
type RedisUsageLedger struct {
	client *redis.Client
}

func NewRedisUsageLedger(client *redis.Client) *RedisUsageLedger {
	return &RedisUsageLedger{client: client}
}

func usageKey(code, contactID string) string {
	return fmt.Sprintf("coupon_usage:%s:%s", code, contactID)
}

func (l *RedisUsageLedger) UsageCount(ctx context.Context, code, contactID string) (int, error) {
	count, err := l.client.Get(ctx, usageKey(code, contactID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, errs.Wrap(err, "failed to read coupon usage counter")
	}
	return count, nil
}

func (l *RedisUsageLedger) RecordUse(ctx context.Context, code, contactID string) error {
	if err := l.client.Incr(ctx, usageKey(code, contactID)).Err(); err != nil {
		return errs.Wrap(err, "failed to increment coupon usage counter")
	}
	return nil
}
