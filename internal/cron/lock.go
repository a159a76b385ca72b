package cron

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// A crashed worker frees the sweep before the next hourly cycle.
const defaultSweepLockTTL = 55 * time.Minute

// Lock coordinates exclusive cron cycles.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// holderLookup is implemented by locks that can name the current holder.
type holderLookup interface {
	Key() string
	Holder(ctx context.Context) (string, error)
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// SweepLock keeps a single cron worker running the expiry sweep. The stored
// value is "<hostname>/<uuid>".
type SweepLock struct {
	store lockStore
	key   string
	ttl   time.Duration
	host  string
	token string
}

func NewSweepLock(store lockStore, key string, ttl time.Duration) (*SweepLock, error) {
	if store == nil {
		return nil, errors.New("sweep lock: redis client required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("sweep lock: key required")
	}
	if ttl <= 0 {
		ttl = defaultSweepLockTTL
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown-host"
	}
	return &SweepLock{store: store, key: key, ttl: ttl, host: host}, nil
}

func (l *SweepLock) Key() string { return l.key }

// Token is the value this worker wrote, empty when it does not hold the lock.
func (l *SweepLock) Token() string { return l.token }

func (l *SweepLock) Acquire(ctx context.Context) (bool, error) {
	token := l.host + "/" + uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire sweep lock %s: %w", l.key, err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Holder returns the token of whichever worker holds the sweep, or "" when
// the key is free.
func (l *SweepLock) Holder(ctx context.Context) (string, error) {
	value, err := l.store.Get(ctx, l.key)
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read sweep lock %s: %w", l.key, err)
	}
	return value, nil
}

// Release deletes the key only while it still carries our token; a lock that
// expired and was taken by another worker is left alone.
func (l *SweepLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	holder, err := l.Holder(ctx)
	if err != nil {
		return err
	}
	if holder != l.token {
		l.token = ""
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("release sweep lock %s: %w", l.key, err)
	}
	l.token = ""
	return nil
}
