package dto

import (
	"time"

	"github.com/yigit/alumniconnect/internal/app/models"
)

// CreateSessionRequest books a mentorship session with an alumni
type CreateSessionRequest struct {
	AlumniID        int64     `json:"alumniId" binding:"required,gt=0"`
	Topic           string    `json:"topic" binding:"required,min=3,max=200"`
	Message         string    `json:"message" binding:"max=2000"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"omitempty,min=15,max=180"`
}

// AcceptSessionRequest confirms a pending session
type AcceptSessionRequest struct {
	MeetingLink string `json:"meetingLink" binding:"omitempty,url,max=500"`
}

// CancelSessionRequest rejects or withdraws a session
type CancelSessionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SessionFeedbackRequest rates a completed session
type SessionFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback" binding:"max=2000"`
}

// SessionFilterRequest holds session listing query parameters
type SessionFilterRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending accepted completed cancelled"`
	PageRequest
}

// SessionResponse is a session with both participants resolved
type SessionResponse struct {
	models.MentorshipSession
	Alumni  *UserSummary `json:"alumni,omitempty"`
	Student *UserSummary `json:"student,omitempty"`
}
