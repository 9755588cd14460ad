package models

import "time"

// Feedback is a user-submitted request for a new market.
type Feedback struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	TMAName     string     `json:"tma_name"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// FeedbackWithUser is a feedback row with joined submitter columns for the
// admin moderation list.
type FeedbackWithUser struct {
	Feedback
	UserEmail      string  `json:"user_email"`
	UserGivenName  *string `json:"user_given_name,omitempty"`
	UserFamilyName *string `json:"user_family_name,omitempty"`
}
