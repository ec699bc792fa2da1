package lock

// Error provides constant error strings to the lock manager.
type Error string

func (e Error) Error() string { return string(e) }

// Constant errors.
// Rule of thumb, all errors start with a small letter and end with no full stop.
const (
	// ErrContended is returned once an acquire has exhausted its
	// retry budget. It is the system's backpressure signal: callers
	// must treat it as retryable and surface it as such.
	ErrContended = Error("too many concurrent requests")
)
