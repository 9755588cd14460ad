package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebbyk/airwaves/internal/idp"
	"github.com/sebbyk/airwaves/internal/models"
	"github.com/sebbyk/airwaves/internal/store"
)

// userStore records writes and serves an in-memory user table.
type userStore struct {
	store.Store

	users   map[string]*models.User
	creates int
}

func newUserStore() *userStore {
	return &userStore{users: map[string]*models.User{}}
}

func (s *userStore) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) CreateUser(_ context.Context, u *models.User) error {
	s.creates++
	if _, exists := s.users[u.ID]; exists {
		return nil // ON CONFLICT DO NOTHING
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func TestResolveOrCreateFirstSight(t *testing.T) {
	s := newUserStore()
	d := NewDirectory(s)

	claims := &idp.Claims{
		Subject:    "auth0|new",
		Email:      "new@example.net",
		GivenName:  "New",
		FamilyName: "User",
	}
	user, err := d.ResolveOrCreate(context.Background(), claims)
	require.NoError(t, err)

	assert.Equal(t, "auth0|new", user.ID)
	assert.Equal(t, "new@example.net", user.Email)
	require.NotNil(t, user.GivenName)
	assert.Equal(t, "New", *user.GivenName)
	assert.False(t, user.IsAdmin, "new users are never admins")
	assert.Equal(t, 1, s.creates)
}

func TestResolveOrCreateEmptyNamesStoredNull(t *testing.T) {
	s := newUserStore()
	d := NewDirectory(s)

	user, err := d.ResolveOrCreate(context.Background(), &idp.Claims{Subject: "auth0|bare", Email: "bare@example.net"})
	require.NoError(t, err)
	assert.Nil(t, user.GivenName)
	assert.Nil(t, user.FamilyName)
}

func TestResolveOrCreateExistingUnmodified(t *testing.T) {
	s := newUserStore()
	s.users["auth0|old"] = &models.User{
		ID:      "auth0|old",
		Email:   "original@example.net",
		IsAdmin: true,
	}
	d := NewDirectory(s)

	// The provider now reports a different email; the local row must win.
	claims := &idp.Claims{Subject: "auth0|old", Email: "changed@example.net"}
	user, err := d.ResolveOrCreate(context.Background(), claims)
	require.NoError(t, err)

	assert.Equal(t, "original@example.net", user.Email, "claims are not re-synced")
	assert.True(t, user.IsAdmin, "admin flag survives later logins")
	assert.Equal(t, 0, s.creates)
}
