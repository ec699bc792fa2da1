package lockbackend

import (
	"context"
	"time"
)

// AbsentCount is returned by ReadInt when no numeric entry exists for
// the key.
const AbsentCount int64 = -1

// Backend describes the shared key-value store every worker process
// coordinates through. All operations are scoped to a single key and
// each one is atomic with respect to concurrent callers, which is what
// the lock subsystem builds its mutual-exclusion guarantees on.
//
// A Backend may be in-process (single-node deployments only) or a
// networked cache reachable by all workers.
type Backend interface {
	// CreateIfAbsent stores value under key only if the key does not
	// exist. It reports whether the entry was created. This is the
	// primitive Acquire relies on and must be the store's native
	// atomic "add" on distributed implementations.
	CreateIfAbsent(ctx context.Context, key, value string) (bool, error)
	// CreateWithExpiry behaves like CreateIfAbsent but the entry
	// self-expires after ttl.
	CreateWithExpiry(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Read returns the value stored under key and whether it exists.
	// An expired entry reads as absent.
	Read(ctx context.Context, key string) (string, bool, error)
	// Delete removes the entry under key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
	// DeleteAll clears the entire namespace. Maintenance use only.
	DeleteAll(ctx context.Context) error
	// Increment adds one to the numeric entry under key, creating it
	// at 1 when absent. A non-zero ttl refreshes the entry's expiry.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Decrement subtracts one from the numeric entry under key. The
	// value is clamped at zero and the entry is removed once it
	// reaches zero.
	Decrement(ctx context.Context, key string) (int64, error)
	// ReadInt returns the numeric entry under key, or AbsentCount
	// when no entry exists.
	ReadInt(ctx context.Context, key string) (int64, error)
}
