// Package coordinator holds the thin policy layers built over the lock
// backend: authentication throttling, cell status and reference
// counting, the per-tenant maintenance lock and the process-wide
// read/delete-only flag. Each coordinator owns a category prefix of
// the shared key space and never touches another's keys.
package coordinator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/SystemBuilders/CelLock/internal/lockbackend"
)

const accountLockPrefix = "AccountLock_"

// AccountLockout throttles repeated authentication failures per
// account. Failures accumulate in a TTL'd counter; once the counter
// reaches the configured threshold the account reads as locked until
// the entry self-expires.
type AccountLockout struct {
	backend   lockbackend.Backend
	threshold int64
	ttl       time.Duration
	log       zerolog.Logger
}

// NewAccountLockout creates the coordinator. threshold is the number
// of failures that locks the account, ttl how long the lock (and the
// counter) lives.
func NewAccountLockout(backend lockbackend.Backend, threshold int, ttl time.Duration, log zerolog.Logger) *AccountLockout {
	return &AccountLockout{
		backend:   backend,
		threshold: int64(threshold),
		ttl:       ttl,
		log:       log,
	}
}

// RecordFailedAuth counts one authentication failure against the
// account and refreshes the entry's TTL. This is a fire-and-forget
// advisory write: backend failures surface immediately, nothing is
// retried here.
func (a *AccountLockout) RecordFailedAuth(ctx context.Context, accountID string) error {
	n, err := a.backend.Increment(ctx, accountLockPrefix+accountID, a.ttl)
	if err != nil {
		return err
	}
	a.
		log.
		Debug().
		Str("account", accountID).
		Int64("failures", n).
		Msg("recorded failed authentication")
	return nil
}

// IsLocked reports whether the account has reached the failure
// threshold within the TTL window.
func (a *AccountLockout) IsLocked(ctx context.Context, accountID string) (bool, error) {
	n, err := a.backend.ReadInt(ctx, accountLockPrefix+accountID)
	if err != nil {
		return false, err
	}
	return n >= a.threshold, nil
}

// Clear drops the failure counter, typically after a successful
// authentication.
func (a *AccountLockout) Clear(ctx context.Context, accountID string) error {
	return a.backend.Delete(ctx, accountLockPrefix+accountID)
}
