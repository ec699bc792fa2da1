package lock

import "time"

// Lock is a held lease on a composed key. It is created by a
// successful Acquire and owned by the caller until released or until
// the backend independently expires the entry.
//
// ID identifies this particular acquisition in logs. The backend never
// verifies it: Release deletes the key for whoever asks, matching the
// permissive ownership model of the rest of the platform.
type Lock struct {
	FullKey   string    `json:"key"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
