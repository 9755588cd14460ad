package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebbyk/airwaves/internal/idp"
	"github.com/sebbyk/airwaves/internal/models"
	"github.com/sebbyk/airwaves/internal/store"
)

// Directory maps identity subjects to local user records.
type Directory struct {
	store store.Store
}

// NewDirectory creates a Directory over the given store.
func NewDirectory(s store.Store) *Directory {
	return &Directory{store: s}
}

// ResolveOrCreate returns the local user for the claims' subject, inserting a
// non-admin row on first sight. An existing row is returned unmodified:
// claims are not re-synced on later logins, so a profile change at the
// provider is not reflected locally after first authentication.
func (d *Directory) ResolveOrCreate(ctx context.Context, claims *idp.Claims) (*models.User, error) {
	user, err := d.store.GetUser(ctx, claims.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	u := &models.User{
		ID:         claims.Subject,
		Email:      claims.Email,
		GivenName:  nilIfEmpty(claims.GivenName),
		FamilyName: nilIfEmpty(claims.FamilyName),
		IsAdmin:    false,
	}
	if err := d.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	// Re-read so timestamps come from the store (and so a concurrent insert
	// of the same subject resolves to the winning row).
	user, err = d.store.GetUser(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("reread user: %w", err)
	}
	return user, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
