package models

import "time"

// NotificationType classifies notifications
type NotificationType string

const (
	NotifySessionRequested  NotificationType = "session_requested"
	NotifySessionAccepted   NotificationType = "session_accepted"
	NotifySessionCancelled  NotificationType = "session_cancelled"
	NotifySessionCompleted  NotificationType = "session_completed"
	NotifySessionFeedback   NotificationType = "session_feedback"
	NotifyWebinarCancelled  NotificationType = "webinar_cancelled"
	NotifyReferralRequested NotificationType = "referral_requested"
	NotifyReferralUpdated   NotificationType = "referral_updated"
	NotifyForumReply        NotificationType = "forum_reply"
	NotifyDocumentReviewed  NotificationType = "document_reviewed"
	NotifyVerification      NotificationType = "verification_changed"
)

// Notification is an in-app notification for a single user
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Link      string           `json:"link" db:"link"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	ReadAt    *time.Time       `json:"readAt,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
