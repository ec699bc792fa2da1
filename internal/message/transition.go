package message

import "fmt"

// validTargets is the exhaustive transition policy: which target
// statuses each message type accepts. Plain messages toggle between
// read and unread; every request type resolves to approved or
// rejected, and does so exactly once.
var validTargets = map[Type]map[Status]struct{}{
	TypeMessage: {
		StatusRead:   {},
		StatusUnread: {},
	},
	TypeRequestRelationBuild: {
		StatusApproved: {},
		StatusRejected: {},
	},
	TypeRequestRelationBreak: {
		StatusApproved: {},
		StatusRejected: {},
	},
	TypeRequestRoleGrant: {
		StatusApproved: {},
		StatusRejected: {},
	},
	TypeRequestRoleRevoke: {
		StatusApproved: {},
		StatusRejected: {},
	},
}

// ValidateTransition checks that target is a legal status for the
// message type and that the message's current status permits leaving.
// Request types may only transition out of none; resolving a request
// twice is therefore rejected here.
func ValidateTransition(t Type, current, target Status) error {
	targets, ok := validTargets[t]
	if !ok {
		return fmt.Errorf("%w: unknown message type %q", ErrInvalidTransition, t)
	}
	if _, ok := targets[target]; !ok {
		return fmt.Errorf("%w: type %q does not accept status %q", ErrInvalidTransition, t, target)
	}
	if t.IsRequest() && current != StatusNone {
		return fmt.Errorf("%w: request already resolved, current status %q", ErrInvalidTransition, current)
	}
	return nil
}
