package coordinator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/SystemBuilders/CelLock/internal/lockbackend"
)

// readDeleteModeKey is the fixed, unit-wide key for the operational
// mode flag. No scope beyond the name.
const readDeleteModeKey = "PcsReadDeleteMode"

// ReadDeleteMode exposes the single process-wide operational-mode
// flag. While set, the platform accepts only read and delete
// operations; the flag is a bare presence entry with no value
// semantics.
type ReadDeleteMode struct {
	backend lockbackend.Backend
	log     zerolog.Logger
}

// NewReadDeleteMode creates the coordinator.
func NewReadDeleteMode(backend lockbackend.Backend, log zerolog.Logger) *ReadDeleteMode {
	return &ReadDeleteMode{
		backend: backend,
		log:     log,
	}
}

// Enabled reports whether read/delete-only mode is in force.
func (r *ReadDeleteMode) Enabled(ctx context.Context) (bool, error) {
	_, ok, err := r.backend.Read(ctx, readDeleteModeKey)
	return ok, err
}

// Set turns the mode on. Setting an already-set flag is a no-op.
func (r *ReadDeleteMode) Set(ctx context.Context) error {
	if _, err := r.backend.CreateIfAbsent(ctx, readDeleteModeKey, "1"); err != nil {
		return err
	}
	r.
		log.
		Info().
		Msg("read/delete-only mode set")
	return nil
}

// Clear turns the mode off.
func (r *ReadDeleteMode) Clear(ctx context.Context) error {
	if err := r.backend.Delete(ctx, readDeleteModeKey); err != nil {
		return err
	}
	r.
		log.
		Info().
		Msg("read/delete-only mode cleared")
	return nil
}
