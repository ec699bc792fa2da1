package entitystore

// Error provides constant error strings to the store implementations.
type Error string

func (e Error) Error() string { return string(e) }

// Constant errors.
// Rule of thumb, all errors start with a small letter and end with no full stop.
const (
	// ErrNotFound reports an absent document. Wrappers parameterise
	// it with the missing entity's type and key.
	ErrNotFound = Error("no such entity")
	// ErrAlreadyExists reports a duplicate create.
	ErrAlreadyExists = Error("entity already exists")
	// ErrLinkExists reports a duplicate link create.
	ErrLinkExists = Error("link already exists")
	// ErrVersionConflict reports an optimistic-concurrency mismatch
	// on update. The caller must re-read and re-issue.
	ErrVersionConflict = Error("document version conflict")
)
