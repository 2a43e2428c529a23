package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastLoginTTL = 90 * 24 * time.Hour

// LastLoginTracker stores the most recent successful login per account.
// Key format: lastlogin:<username>
type LastLoginTracker struct {
	client *redis.Client
}

// NewLastLoginTracker creates a LastLoginTracker wrapping the given Redis client.
func NewLastLoginTracker(client *redis.Client) *LastLoginTracker {
	return &LastLoginTracker{client: client}
}

// Record stores ts as the account's last login (expires after lastLoginTTL).
func (t *LastLoginTracker) Record(ctx context.Context, username string, ts time.Time) error {
	return t.client.Set(ctx, t.key(username), ts.Unix(), lastLoginTTL).Err()
}

// Last returns the account's last recorded login, or the zero time when none
// is known.
func (t *LastLoginTracker) Last(ctx context.Context, username string) (time.Time, error) {
	val, err := t.client.Get(ctx, t.key(username)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read last login: %w", err)
	}

	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last login: %w", err)
	}
	return time.Unix(unix, 0).UTC(), nil
}

func (t *LastLoginTracker) key(username string) string {
	return fmt.Sprintf("lastlogin:%s", username)
}
