package dto

import (
	"time"

	"github.com/yigit/alumniconnect/internal/app/models"
)

// --- Documents ---

// UploadDocumentRequest holds the multipart form fields of an upload
type UploadDocumentRequest struct {
	Title   string `form:"title" binding:"required,max=200"`
	DocType string `form:"docType" binding:"required,oneof=resume transcript degree_certificate id_proof other"`
}

// DocumentFilterRequest holds document listing query parameters
type DocumentFilterRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	PageRequest
}

// ReviewDocumentRequest approves or rejects a document
type ReviewDocumentRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Note   string `json:"note" binding:"max=1000"`
}

// --- Events ---

// CreateEventRequest creates a platform event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Location    string    `json:"location" binding:"max=200"`
	Category    string    `json:"category" binding:"max=50"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required"`
}

// UpdateEventRequest changes the provided fields of an event
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	Category    *string    `json:"category" binding:"omitempty,max=50"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

// EventFilterRequest holds event listing query parameters
type EventFilterRequest struct {
	Upcoming bool   `form:"upcoming"`
	Category string `form:"category"`
	PageRequest
}

// EventResponse is an event with the caller's RSVP state
type EventResponse struct {
	models.Event
	Attending bool `json:"attending"`
}

// --- Notifications ---

// NotificationFilterRequest holds notification listing query parameters
type NotificationFilterRequest struct {
	Unread bool `form:"unread"`
	PageRequest
}

// UnreadCountResponse reports the number of unread notifications
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// --- Admin ---

// AdminUserFilterRequest holds admin user listing query parameters
type AdminUserFilterRequest struct {
	Role   string `form:"role" binding:"omitempty,anyrole"`
	Search string `form:"search"`
	Active *bool  `form:"active"`
	PageRequest
}

// SetUserStatusRequest activates or deactivates an account
type SetUserStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}
