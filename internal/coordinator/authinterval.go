package coordinator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/SystemBuilders/CelLock/internal/lockbackend"
)

const authIntervalPrefix = "AccountValidAuthnInterval_"

// AuthInterval enforces a minimum interval between authentication
// attempts on the same account. It slows brute-force attempts even
// while the account is not yet locked out: a presence entry with its
// own TTL marks the window in which further attempts are refused.
type AuthInterval struct {
	backend lockbackend.Backend
	ttl     time.Duration
	log     zerolog.Logger
}

// NewAuthInterval creates the coordinator with the configured minimum
// interval.
func NewAuthInterval(backend lockbackend.Backend, ttl time.Duration, log zerolog.Logger) *AuthInterval {
	return &AuthInterval{
		backend: backend,
		ttl:     ttl,
		log:     log,
	}
}

// RecordAttempt opens (or keeps open) the interval window for the
// account. Fire-and-forget advisory write, not retried.
func (a *AuthInterval) RecordAttempt(ctx context.Context, accountID string) error {
	_, err := a.backend.CreateWithExpiry(ctx, authIntervalPrefix+accountID, "1", a.ttl)
	return err
}

// InInterval reports whether an attempt on the account falls inside a
// still-open window.
func (a *AuthInterval) InInterval(ctx context.Context, accountID string) (bool, error) {
	_, ok, err := a.backend.Read(ctx, authIntervalPrefix+accountID)
	return ok, err
}
