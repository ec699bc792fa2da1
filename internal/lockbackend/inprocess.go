package lockbackend

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var _ Backend = (*InProcess)(nil)

// entry is a single stored value. Numeric entries keep their counter
// in count; count and value never carry meaning at the same time.
type entry struct {
	value     string
	count     int64
	numeric   bool
	expiresAt time.Time // zero means no expiry
}

// InProcess is a Backend backed by a mutex-guarded map. It is correct
// only when the entire deployment runs as a single process: the
// critical section makes CreateIfAbsent atomic across goroutines, but
// nothing is shared with other processes.
type InProcess struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	log     zerolog.Logger
}

// NewInProcess creates an in-process backend ready to use.
func NewInProcess(log zerolog.Logger) *InProcess {
	return &InProcess{
		entries: make(map[string]*entry),
		now:     time.Now,
		log:     log,
	}
}

// live returns the entry under key, evicting it first if it has
// expired. Callers must hold the mutex.
func (b *InProcess) live(key string) *entry {
	e, ok := b.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !b.now().Before(e.expiresAt) {
		delete(b.entries, key)
		return nil
	}
	return e
}

// CreateIfAbsent stores value under key in a single critical section.
func (b *InProcess) CreateIfAbsent(ctx context.Context, key, value string) (bool, error) {
	return b.CreateWithExpiry(ctx, key, value, 0)
}

// CreateWithExpiry stores value under key with a ttl, in a single
// critical section.
func (b *InProcess) CreateWithExpiry(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.live(key) != nil {
		b.
			log.
			Debug().
			Str("key", key).
			Msg("can't create, already exists")
		return false, nil
	}
	e := &entry{value: value}
	if ttl > 0 {
		e.expiresAt = b.now().Add(ttl)
	}
	b.entries[key] = e
	return true, nil
}

// Read returns the value under key.
func (b *InProcess) Read(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.live(key)
	if e == nil {
		return "", false, nil
	}
	return e.value, true, nil
}

// Delete removes the entry under key.
func (b *InProcess) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}

// DeleteAll clears the whole map.
func (b *InProcess) DeleteAll(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make(map[string]*entry)
	return nil
}

// Increment adds one to the counter under key, creating it at 1 when
// absent. A non-zero ttl refreshes the expiry on every call.
func (b *InProcess) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.live(key)
	if e == nil || !e.numeric {
		e = &entry{numeric: true}
		b.entries[key] = e
	}
	e.count++
	if ttl > 0 {
		e.expiresAt = b.now().Add(ttl)
	}
	return e.count, nil
}

// Decrement subtracts one from the counter under key, clamping at zero
// and removing the entry once it reaches zero.
func (b *InProcess) Decrement(_ context.Context, key string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.live(key)
	if e == nil || !e.numeric {
		return 0, nil
	}
	if e.count > 0 {
		e.count--
	}
	if e.count == 0 {
		delete(b.entries, key)
	}
	return e.count, nil
}

// ReadInt returns the counter under key, or AbsentCount when no
// numeric entry exists.
func (b *InProcess) ReadInt(_ context.Context, key string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.live(key)
	if e == nil || !e.numeric {
		return AbsentCount, nil
	}
	return e.count, nil
}
