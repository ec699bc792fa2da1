package coordinator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/SystemBuilders/CelLock/internal/lock"
)

// UnitUser acquires the long-lived exclusive maintenance lock for a
// tenant. The entry never expires: it is written once, checked for
// presence, and must be explicitly released by the operator that took
// it.
type UnitUser struct {
	locks *lock.Manager
	log   zerolog.Logger
}

// NewUnitUser creates the coordinator over the shared lock manager.
func NewUnitUser(locks *lock.Manager, log zerolog.Logger) *UnitUser {
	return &UnitUser{
		locks: locks,
		log:   log,
	}
}

// Acquire takes the maintenance lock for the tenant, retrying per the
// manager's budget. ErrContended means another maintenance run holds
// it.
func (u *UnitUser) Acquire(ctx context.Context, unitUserName string) (*lock.Lock, error) {
	l, err := u.locks.Acquire(ctx, lock.UnitUser, unitUserName, "", "")
	if err != nil {
		return nil, err
	}
	u.
		log.
		Info().
		Str("unitUser", unitUserName).
		Msg("unit user maintenance lock acquired")
	return l, nil
}

// Release returns the maintenance lock.
func (u *UnitUser) Release(ctx context.Context, l *lock.Lock) error {
	return u.locks.Release(ctx, l)
}

// Held reports whether a maintenance lock is currently in place for
// the tenant.
func (u *UnitUser) Held(ctx context.Context, unitUserName string) (bool, error) {
	return u.locks.Held(ctx, lock.UnitUser, unitUserName, "", "")
}
