package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users", "u1", Document{"email": "a@b.c", "isActive": true}))

	doc, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", doc["email"])
	assert.Equal(t, true, doc["isActive"])
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "users", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdateMergesFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users", "u1", Document{"email": "a@b.c", "role": "user"}))
	require.NoError(t, s.Update(ctx, "users", "u1", Document{"role": "admin"}))

	doc, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", doc["role"])
	assert.Equal(t, "a@b.c", doc["email"])
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	s := NewMemoryStore()

	err := s.Update(context.Background(), "users", "nope", Document{"role": "admin"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFindOne(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users", "u1", Document{"email": "a@b.c"}))
	require.NoError(t, s.Set(ctx, "users", "u2", Document{"email": "d@e.f"}))

	id, doc, err := s.FindOne(ctx, "users", "email", "d@e.f")
	require.NoError(t, err)
	assert.Equal(t, "u2", id)
	assert.Equal(t, "d@e.f", doc["email"])

	_, _, err = s.FindOne(ctx, "users", "email", "missing@x.y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	original := Document{"nested": Document{"count": 1}}
	require.NoError(t, s.Set(ctx, "users", "u1", original))

	// Mutating what the caller handed in or got back must not leak
	// into the stored copy.
	original["nested"].(Document)["count"] = 99

	got, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	got["nested"].(Document)["count"] = 42

	again, err := s.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, again["nested"].(Document)["count"])
}

func TestUsersCreateAndLookup(t *testing.T) {
	users := NewUsers(NewMemoryStore())
	ctx := context.Background()

	profile := &UserProfile{Email: "Alice@Example.com", DisplayName: "Alice", Role: "user", Active: true}
	require.NoError(t, users.Create(ctx, profile))
	require.NotEmpty(t, profile.ID)

	byEmail, err := users.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, byEmail.ID)
	assert.Equal(t, "alice@example.com", byEmail.Email)

	byID, err := users.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.DisplayName)
}

func TestUsersCreateDuplicateEmail(t *testing.T) {
	users := NewUsers(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &UserProfile{Email: "alice@example.com"}))

	err := users.Create(ctx, &UserProfile{Email: "alice@example.com"})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestUsersSaveRewritesProfile(t *testing.T) {
	users := NewUsers(NewMemoryStore())
	ctx := context.Background()

	profile := &UserProfile{Email: "alice@example.com", Role: "user"}
	require.NoError(t, users.Create(ctx, profile))

	profile.Security.LoginAttempts = 3
	require.NoError(t, users.Save(ctx, profile))

	got, err := users.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Security.LoginAttempts)
}
