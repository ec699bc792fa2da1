package lock

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"time"

	"github.com/oklog/ulid"
	"github.com/rs/zerolog"

	"github.com/SystemBuilders/CelLock/internal/lockbackend"
	"github.com/SystemBuilders/CelLock/internal/metrics"
)

// Config carries the manager's behavioural knobs. It is supplied by
// the bootstrap layer; the manager holds no process-wide state.
type Config struct {
	// RetryTimes is how many create attempts a single Acquire makes
	// before giving up with ErrContended.
	RetryTimes int
	// RetryInterval is the sleep between attempts.
	RetryInterval time.Duration
	// Metrics instruments the manager when non-nil.
	Metrics *metrics.Lock
}

// Manager is the facade over a lock backend: acquire with retry and
// backoff, unconditional release, and namespace-wide erase. All
// coordination in the platform funnels through one Manager per
// process.
type Manager struct {
	backend       lockbackend.Backend
	retryTimes    int
	retryInterval time.Duration
	metrics       *metrics.Lock
	now           func() time.Time
	log           zerolog.Logger
}

// NewManager creates a Manager over the given backend.
func NewManager(backend lockbackend.Backend, cfg Config, log zerolog.Logger) *Manager {
	retryTimes := cfg.RetryTimes
	if retryTimes < 1 {
		retryTimes = 1
	}
	return &Manager{
		backend:       backend,
		retryTimes:    retryTimes,
		retryInterval: cfg.RetryInterval,
		metrics:       cfg.Metrics,
		now:           time.Now,
		log:           log,
	}
}

// Acquire composes the key for the category and scope, then tries to
// create it until it wins, the backend fails, or the retry budget runs
// out. Exactly one concurrent Acquire on the same key succeeds at a
// time; waiters are not queued, each retry is an independent attempt.
func (m *Manager) Acquire(ctx context.Context, category Category, cellID, boxID, nodeID string) (*Lock, error) {
	key := ComposeKey(category, cellID, boxID, nodeID)
	start := m.now()
	defer func() {
		if m.metrics != nil {
			m.metrics.AcquireWait.Observe(m.now().Sub(start).Seconds())
		}
	}()

	for attempt := 0; attempt < m.retryTimes; attempt++ {
		l := &Lock{
			FullKey:   key,
			ID:        ulid.MustNew(ulid.Timestamp(m.now()), crand.Reader).String(),
			CreatedAt: m.now(),
		}
		value, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		created, err := m.backend.CreateIfAbsent(ctx, key, string(value))
		if err != nil {
			// Backend failures abort immediately, they are not
			// contention.
			if m.metrics != nil {
				m.metrics.BackendErrors.Inc()
			}
			return nil, err
		}
		if created {
			if m.metrics != nil {
				m.metrics.AcquireTotal.WithLabelValues(string(category)).Inc()
			}
			m.
				log.
				Debug().
				Str("key", key).
				Str("id", l.ID).
				Msg("locked")
			return l, nil
		}
		if attempt == m.retryTimes-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.retryInterval):
		}
	}
	if m.metrics != nil {
		m.metrics.ContentionTotal.Inc()
	}
	m.
		log.
		Debug().
		Str("key", key).
		Msg("can't acquire, retry budget exhausted")
	return nil, ErrContended
}

// Release deletes the lock's key. There is no ownership check: any
// caller holding the key string can release.
func (m *Manager) Release(ctx context.Context, l *Lock) error {
	if err := m.backend.Delete(ctx, l.FullKey); err != nil {
		if m.metrics != nil {
			m.metrics.BackendErrors.Inc()
		}
		return err
	}
	m.
		log.
		Debug().
		Str("key", l.FullKey).
		Str("id", l.ID).
		Msg("released")
	return nil
}

// EraseAll clears the entire backend namespace. Maintenance and test
// use only.
func (m *Manager) EraseAll(ctx context.Context) error {
	m.
		log.
		Info().
		Msg("erasing all locks")
	return m.backend.DeleteAll(ctx)
}

// Held reports whether the composed key currently exists on the
// backend. An expired entry reads as not held.
func (m *Manager) Held(ctx context.Context, category Category, cellID, boxID, nodeID string) (bool, error) {
	_, ok, err := m.backend.Read(ctx, ComposeKey(category, cellID, boxID, nodeID))
	return ok, err
}
