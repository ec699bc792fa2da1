package lockbackend

// Error provides constant error strings to the backend implementations.
type Error string

func (e Error) Error() string { return string(e) }

// Constant errors.
// Rule of thumb, all errors start with a small letter and end with no full stop.
const (
	// ErrUnavailable reports a connection or store-side failure. It is
	// never retried by this layer and is distinct from "key absent".
	// The in-process backend cannot return it.
	ErrUnavailable = Error("lock backend unavailable")
)
