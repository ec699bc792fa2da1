// Package entitystore defines the boundary to the document store that
// persists entity bodies. The coordination layer only needs get,
// create, optimistically-versioned update, delete and link management;
// everything else about the physical document schema lives behind this
// interface.
package entitystore

import (
	"context"
	"time"
)

// Document is an entity body as the coordination layer sees it: a
// type, a caller-meaningful key, a store-assigned id and version, and
// a flat field map.
type Document struct {
	Type      string
	Key       string
	ID        string
	Fields    map[string]string
	Version   int64
	Published time.Time
	Updated   time.Time
}

// Ref identifies an entity for link operations.
type Ref struct {
	Type string
	Key  string
}

// Store is the document-store accessor.
type Store interface {
	// Get returns the document under (typ, key), or ErrNotFound.
	Get(ctx context.Context, typ, key string) (*Document, error)
	// Create persists a new document and returns it with the
	// store-assigned id and version filled in. A duplicate (typ, key)
	// is ErrAlreadyExists.
	Create(ctx context.Context, doc *Document) (*Document, error)
	// Update writes the document back if its stored version still
	// equals expectedVersion, returning the new version. A mismatch
	// is ErrVersionConflict and is never retried here.
	Update(ctx context.Context, doc *Document, expectedVersion int64) (int64, error)
	// Delete removes the document under (typ, key), or ErrNotFound.
	Delete(ctx context.Context, typ, key string) error
	// CreateLink records a link between two entities. A link that
	// already exists is ErrLinkExists, not a silent no-op.
	CreateLink(ctx context.Context, a, b Ref) error
	// DeleteLink removes the link between two entities, reporting
	// whether a link existed.
	DeleteLink(ctx context.Context, a, b Ref) (bool, error)
}

// Resolver is the cell-registry lookup the message state machine needs
// to map a schema URL back to a box.
type Resolver interface {
	// ResolveBoxBySchemaURL returns the name of the box whose
	// registered schema URL matches, or "" when no box matches.
	ResolveBoxBySchemaURL(ctx context.Context, cellID, schemaURL string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, cellID, schemaURL string) (string, error)

// ResolveBoxBySchemaURL calls f.
func (f ResolverFunc) ResolveBoxBySchemaURL(ctx context.Context, cellID, schemaURL string) (string, error) {
	return f(ctx, cellID, schemaURL)
}
