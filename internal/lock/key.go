package lock

// Category is a namespace prefix partitioning the shared key space by
// subsystem. Unrelated coordinators never collide on keys because
// every key starts with its category.
type Category string

// Fixed lock categories.
const (
	// OData serialises OData entity mutations, the message state
	// machine included.
	OData Category = "odata"
	// Dav serialises WebDAV subtree mutations.
	Dav Category = "dav"
	// Cell serialises cell-level lifecycle operations.
	Cell Category = "Cell"
	// ReferenceOnly guards reference-only mutation windows.
	ReferenceOnly Category = "referenceOnly"
	// AuthHistory guards authentication-history writes.
	AuthHistory Category = "authHistory"
	// UnitUser is the long-lived per-tenant maintenance lock.
	UnitUser Category = "UnitUserLock"
)

const (
	separator = "-"

	// unitWideScope is the fallback scope when no cell, box or node
	// identifier is supplied.
	unitWideScope = "unit"
)

// ComposeKey builds the full backend key for a category and a scope.
// The most specific non-empty identifier wins, in the order
// node > box > cell, falling back to the unit-wide scope. The function
// is pure: two categories compose to different keys even with an
// identical scope.
func ComposeKey(category Category, cellID, boxID, nodeID string) string {
	scope := unitWideScope
	switch {
	case nodeID != "":
		scope = nodeID
	case boxID != "":
		scope = boxID
	case cellID != "":
		scope = cellID
	}
	return string(category) + separator + scope
}
