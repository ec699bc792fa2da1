package lockbackend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var _ Backend = (*Redis)(nil)

// Redis is a Backend backed by a networked redis instance reachable by
// all worker processes. CreateIfAbsent maps to the server's atomic
// SETNX, which is what makes Acquire correct across processes.
type Redis struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedis wraps an already-configured client. The caller owns the
// client's lifecycle.
func NewRedis(client *redis.Client, log zerolog.Logger) *Redis {
	return &Redis{
		client: client,
		log:    log,
	}
}

// wrap converts a transport or server failure into ErrUnavailable.
// A redis.Nil miss is not a failure.
func (b *Redis) wrap(op string, err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	b.
		log.
		Error().
		Str("op", op).
		Err(err).
		Msg("redis backend failure")
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// CreateIfAbsent stores value under key via SETNX.
func (b *Redis) CreateIfAbsent(ctx context.Context, key, value string) (bool, error) {
	ok, err := b.client.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		return false, b.wrap("setnx", err)
	}
	return ok, nil
}

// CreateWithExpiry stores value under key via SETNX with a ttl.
func (b *Redis) CreateWithExpiry(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := b.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, b.wrap("setnx", err)
	}
	return ok, nil
}

// Read returns the value under key.
func (b *Redis) Read(ctx context.Context, key string) (string, bool, error) {
	v, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, b.wrap("get", err)
	}
	return v, true, nil
}

// Delete removes the entry under key.
func (b *Redis) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return b.wrap("del", err)
	}
	return nil
}

// DeleteAll flushes the backend's database.
func (b *Redis) DeleteAll(ctx context.Context) error {
	if err := b.client.FlushDB(ctx).Err(); err != nil {
		return b.wrap("flushdb", err)
	}
	return nil
}

// Increment adds one via INCR, which creates absent keys at 1. A
// non-zero ttl refreshes the expiry after every increment.
func (b *Redis) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := b.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, b.wrap("incr", err)
	}
	if ttl > 0 {
		if err := b.client.PExpire(ctx, key, ttl).Err(); err != nil {
			return 0, b.wrap("pexpire", err)
		}
	}
	return n, nil
}

// Decrement subtracts one via DECR. Redis lets counters go negative
// where the clamp semantics require zero, so any non-positive result
// deletes the key and reads as zero.
func (b *Redis) Decrement(ctx context.Context, key string) (int64, error) {
	n, err := b.client.Decr(ctx, key).Result()
	if err != nil {
		return 0, b.wrap("decr", err)
	}
	if n <= 0 {
		if err := b.client.Del(ctx, key).Err(); err != nil {
			return 0, b.wrap("del", err)
		}
		n = 0
	}
	return n, nil
}

// ReadInt returns the counter under key, or AbsentCount when the key
// is missing.
func (b *Redis) ReadInt(ctx context.Context, key string) (int64, error) {
	v, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return AbsentCount, nil
	}
	if err != nil {
		return 0, b.wrap("get", err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric entry under %q: %w", key, err)
	}
	return n, nil
}
