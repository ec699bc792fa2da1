package message

// Error provides constant error strings to the state machine.
type Error string

func (e Error) Error() string { return string(e) }

// Constant errors.
// Rule of thumb, all errors start with a small letter and end with no full stop.
const (
	// ErrInvalidTransition reports a status change the message's type
	// or current status does not allow. Wrappers name the offending
	// field.
	ErrInvalidTransition = Error("invalid status transition")
	// ErrMalformedReference reports a requestRelation value that
	// looks like a class URL but does not parse as one.
	ErrMalformedReference = Error("malformed relation class URL")
	// ErrNoBoxForClassURL reports that no box on the cell registers
	// the schema a class URL names.
	ErrNoBoxForClassURL = Error("no box matches relation class URL")
	// ErrRelationExists reports that the requested link is already in
	// place.
	ErrRelationExists = Error("relation already exists")
	// ErrLinkNotFound reports that the entities exist but no link
	// joins them.
	ErrLinkNotFound = Error("relation link does not exist")
)
