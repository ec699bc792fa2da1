package entitystore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InMemory_CreateGet(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	_, err := s.Get(ctx, "Relation", "friend")
	assert.True(t, errors.Is(err, ErrNotFound))

	created, err := s.Create(ctx, &Document{
		Type:   "Relation",
		Key:    "friend",
		Fields: map[string]string{"name": "friend"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), created.Version)

	got, err := s.Get(ctx, "Relation", "friend")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "friend", got.Fields["name"])

	_, err = s.Create(ctx, &Document{Type: "Relation", Key: "friend"})
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func Test_InMemory_UpdateVersioning(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	doc, err := s.Create(ctx, &Document{
		Type:   "ReceivedMessage",
		Key:    "m1",
		Fields: map[string]string{"status": "none"},
	})
	require.NoError(t, err)

	doc.Fields["status"] = "approved"
	v, err := s.Update(ctx, doc, doc.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	// Stale version is a conflict, not retried.
	doc.Fields["status"] = "rejected"
	_, err = s.Update(ctx, doc, 1)
	assert.True(t, errors.Is(err, ErrVersionConflict))

	got, err := s.Get(ctx, "ReceivedMessage", "m1")
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Fields["status"])
	assert.Equal(t, int64(2), got.Version)
}

// Mutating a document obtained from Get must not leak back into the
// store without an Update.
func Test_InMemory_GetReturnsCopy(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	_, err := s.Create(ctx, &Document{
		Type:   "ExtCell",
		Key:    "https://x.example/",
		Fields: map[string]string{"url": "https://x.example/"},
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "ExtCell", "https://x.example/")
	require.NoError(t, err)
	got.Fields["url"] = "mutated"

	again, err := s.Get(ctx, "ExtCell", "https://x.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/", again.Fields["url"])
}

func Test_InMemory_Links(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	a := Ref{Type: "Relation", Key: "friend"}
	b := Ref{Type: "ExtCell", Key: "https://x.example/"}

	require.NoError(t, s.CreateLink(ctx, a, b))
	assert.True(t, s.HasLink(a, b))

	// Duplicate link create is an error, not a no-op.
	err := s.CreateLink(ctx, a, b)
	assert.True(t, errors.Is(err, ErrLinkExists))

	ok, err := s.DeleteLink(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, s.HasLink(a, b))

	ok, err = s.DeleteLink(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_InMemory_Delete(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	_, err := s.Create(ctx, &Document{Type: "Role", Key: "admin"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "Role", "admin"))

	err = s.Delete(ctx, "Role", "admin")
	assert.True(t, errors.Is(err, ErrNotFound))
}
