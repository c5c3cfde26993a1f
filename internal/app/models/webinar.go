package models

import "time"

// WebinarStatus is the lifecycle state of a webinar
type WebinarStatus string

const (
	WebinarScheduled WebinarStatus = "scheduled"
	WebinarCancelled WebinarStatus = "cancelled"
	WebinarCompleted WebinarStatus = "completed"
)

// Webinar is a one-to-many talk hosted by an alumni or admin
type Webinar struct {
	ID              int64         `json:"id" db:"id"`
	HostID          int64         `json:"hostId" db:"host_id"`
	Title           string        `json:"title" db:"title"`
	Description     string        `json:"description" db:"description"`
	ScheduledAt     time.Time     `json:"scheduledAt" db:"scheduled_at"`
	DurationMinutes int           `json:"durationMinutes" db:"duration_minutes"`
	Capacity        int           `json:"capacity" db:"capacity"`
	MeetingLink     string        `json:"meetingLink" db:"meeting_link"`
	Status          WebinarStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`

	RegisteredCount int `json:"registeredCount" db:"-"`
}

// Unlimited reports a webinar without a seat limit.
func (w *Webinar) Unlimited() bool {
	return w.Capacity <= 0
}

// WebinarRegistration links a user to a webinar
type WebinarRegistration struct {
	WebinarID    int64     `json:"webinarId" db:"webinar_id"`
	UserID       int64     `json:"userId" db:"user_id"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`
}

// WebinarFilter narrows webinar listings
type WebinarFilter struct {
	HostID   *int64
	Upcoming bool
	Status   *WebinarStatus
	Now      time.Time
}
