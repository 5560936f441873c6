package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, store.Set(ctx, "tok", &Session{Role: RoleStudent, SHID: "ABC1ID001", Name: "Ada"}))
	sess, err = store.Get(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, RoleStudent, sess.Role)
	assert.Equal(t, "ABC1ID001", sess.SHID)

	require.NoError(t, store.Clear(ctx, "tok"))
	sess, err = store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	current := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tok", &Session{Role: RoleAdmin, AID: 1}))

	current = current.Add(59 * time.Second)
	sess, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, sess)

	current = current.Add(2 * time.Second)
	sess, err = store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStoreCopiesSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	original := &Session{Role: RoleWarden, WID: 4, Name: "Ramesh"}
	require.NoError(t, store.Set(ctx, "tok", original))
	original.Name = "mutated"

	sess, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh", sess.Name)
}
