package models

import "time"

// User is a local record keyed by the identity provider's stable subject.
// Created lazily on first successful authentication, never by any other path.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	GivenName  *string    `json:"given_name,omitempty"`
	FamilyName *string    `json:"family_name,omitempty"`
	IsAdmin    bool       `json:"is_admin"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
