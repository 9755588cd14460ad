package models

// TMA rollout status values.
const (
	TMAStatusNotImplemented = "not_implemented"
	TMAStatusInProgress     = "in_progress"
	TMAStatusComplete       = "complete"
)

// Feedback moderation status values.
const (
	FeedbackStatusPending  = "pending"
	FeedbackStatusApproved = "approved"
	FeedbackStatusRejected = "rejected"
)

// ValidTMAStatus reports whether s is one of the known TMA statuses.
func ValidTMAStatus(s string) bool {
	switch s {
	case TMAStatusNotImplemented, TMAStatusInProgress, TMAStatusComplete:
		return true
	}
	return false
}

// ValidFeedbackStatus reports whether s is one of the known feedback statuses.
func ValidFeedbackStatus(s string) bool {
	switch s {
	case FeedbackStatusPending, FeedbackStatusApproved, FeedbackStatusRejected:
		return true
	}
	return false
}
