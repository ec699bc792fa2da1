// Package message implements the relation/message state machine: it
// validates and atomically applies status transitions on received
// messages that request building or breaking a relation, or granting
// or revoking a role, between the local cell and an external cell.
// Read-modify-write cycles serialise on a per-message lock; lost
// updates that slip past the lock are caught by the document store's
// optimistic versioning.
package message

// Type is the kind of a received message.
type Type string

// Message types.
const (
	TypeMessage              Type = "message"
	TypeRequestRelationBuild Type = "req.relation.build"
	TypeRequestRelationBreak Type = "req.relation.break"
	TypeRequestRoleGrant     Type = "req.role.grant"
	TypeRequestRoleRevoke    Type = "req.role.revoke"
)

// IsRequest reports whether the type carries a relation or role
// request.
func (t Type) IsRequest() bool {
	switch t {
	case TypeRequestRelationBuild, TypeRequestRelationBreak, TypeRequestRoleGrant, TypeRequestRoleRevoke:
		return true
	}
	return false
}

// isRole reports whether the request targets a Role rather than a
// Relation.
func (t Type) isRole() bool {
	return t == TypeRequestRoleGrant || t == TypeRequestRoleRevoke
}

// isBuild reports whether the request creates the link (build/grant)
// as opposed to removing it (break/revoke).
func (t Type) isBuild() bool {
	return t == TypeRequestRelationBuild || t == TypeRequestRoleGrant
}

// Status is the resolution state of a received message.
type Status string

// Message statuses.
const (
	StatusNone     Status = "none"
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Document field names on a received message.
const (
	FieldType                  = "type"
	FieldStatus                = "status"
	FieldRequestRelation       = "requestRelation"
	FieldRequestRelationTarget = "requestRelationTarget"
	FieldBoxName               = "boxName"
	FieldName                  = "name"
	FieldURL                   = "url"
)

// Entity type names in the document store.
const (
	EntityReceivedMessage = "ReceivedMessage"
	EntityRelation        = "Relation"
	EntityRole            = "Role"
	EntityExtCell         = "ExtCell"
)
