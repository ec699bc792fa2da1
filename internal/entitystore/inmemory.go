package entitystore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Store = (*InMemory)(nil)

// InMemory is a Store held entirely in process memory. It backs tests
// and single-node demo deployments; the semantics (store-assigned ids,
// monotonic per-document versions, strict link existence checks) match
// what the production document store provides.
type InMemory struct {
	mu    sync.Mutex
	docs  map[string]*Document
	links map[string]struct{}
	now   func() time.Time
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		docs:  make(map[string]*Document),
		links: make(map[string]struct{}),
		now:   time.Now,
	}
}

func docKey(typ, key string) string {
	return typ + "\x00" + key
}

func linkKey(a, b Ref) string {
	return docKey(a.Type, a.Key) + "\x01" + docKey(b.Type, b.Key)
}

func clone(d *Document) *Document {
	c := *d
	c.Fields = make(map[string]string, len(d.Fields))
	for k, v := range d.Fields {
		c.Fields[k] = v
	}
	return &c
}

// Get returns a copy of the stored document.
func (s *InMemory) Get(_ context.Context, typ, key string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[docKey(typ, key)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, typ, key)
	}
	return clone(d), nil
}

// Create persists the document, assigning id, version and timestamps.
func (s *InMemory) Create(_ context.Context, doc *Document) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := docKey(doc.Type, doc.Key)
	if _, ok := s.docs[k]; ok {
		return nil, fmt.Errorf("%w: %s %q", ErrAlreadyExists, doc.Type, doc.Key)
	}
	stored := clone(doc)
	stored.ID = uuid.NewString()
	stored.Version = 1
	stored.Published = s.now()
	stored.Updated = stored.Published
	s.docs[k] = stored
	return clone(stored), nil
}

// Update writes the document back under optimistic concurrency.
func (s *InMemory) Update(_ context.Context, doc *Document, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := docKey(doc.Type, doc.Key)
	current, ok := s.docs[k]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrNotFound, doc.Type, doc.Key)
	}
	if current.Version != expectedVersion {
		return 0, fmt.Errorf("%w: %s %q: have %d, expected %d",
			ErrVersionConflict, doc.Type, doc.Key, current.Version, expectedVersion)
	}
	stored := clone(doc)
	stored.ID = current.ID
	stored.Published = current.Published
	stored.Version = current.Version + 1
	if stored.Updated.IsZero() {
		stored.Updated = s.now()
	}
	s.docs[k] = stored
	return stored.Version, nil
}

// Delete removes the document.
func (s *InMemory) Delete(_ context.Context, typ, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := docKey(typ, key)
	if _, ok := s.docs[k]; !ok {
		return fmt.Errorf("%w: %s %q", ErrNotFound, typ, key)
	}
	delete(s.docs, k)
	return nil
}

// CreateLink records the link, failing on duplicates.
func (s *InMemory) CreateLink(_ context.Context, a, b Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := linkKey(a, b)
	if _, ok := s.links[k]; ok {
		return fmt.Errorf("%w: %s %q - %s %q", ErrLinkExists, a.Type, a.Key, b.Type, b.Key)
	}
	s.links[k] = struct{}{}
	return nil
}

// DeleteLink removes the link, reporting whether one existed.
func (s *InMemory) DeleteLink(_ context.Context, a, b Ref) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := linkKey(a, b)
	if _, ok := s.links[k]; !ok {
		return false, nil
	}
	delete(s.links, k)
	return true, nil
}

// HasLink reports whether the link exists. Test helper.
func (s *InMemory) HasLink(a, b Ref) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[linkKey(a, b)]
	return ok
}
