package dto

import (
	"time"

	"github.com/yigit/alumniconnect/internal/app/models"
)

// CreateWebinarRequest schedules a webinar
type CreateWebinarRequest struct {
	Title           string    `json:"title" binding:"required,min=3,max=200"`
	Description     string    `json:"description" binding:"max=5000"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"omitempty,min=15,max=480"`
	Capacity        int       `json:"capacity" binding:"min=0,max=10000"`
	MeetingLink     string    `json:"meetingLink" binding:"omitempty,url,max=500"`
}

// UpdateWebinarRequest changes the provided fields of a webinar
type UpdateWebinarRequest struct {
	Title           *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description     *string    `json:"description" binding:"omitempty,max=5000"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	DurationMinutes *int       `json:"durationMinutes" binding:"omitempty,min=15,max=480"`
	Capacity        *int       `json:"capacity" binding:"omitempty,min=0,max=10000"`
	MeetingLink     *string    `json:"meetingLink" binding:"omitempty,url,max=500"`
}

// WebinarFilterRequest holds webinar listing query parameters
type WebinarFilterRequest struct {
	Upcoming bool   `form:"upcoming"`
	HostID   *int64 `form:"hostId"`
	Status   string `form:"status" binding:"omitempty,oneof=scheduled cancelled completed"`
	PageRequest
}

// WebinarResponse is a webinar with host and the caller's registration state
type WebinarResponse struct {
	models.Webinar
	Host         *UserSummary `json:"host,omitempty"`
	IsRegistered bool         `json:"isRegistered"`
}
