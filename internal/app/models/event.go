package models

import "time"

// Event is a platform event such as a reunion or meetup
type Event struct {
	ID          int64     `json:"id" db:"id"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Category    string    `json:"category" db:"category"`
	StartsAt    time.Time `json:"startsAt" db:"starts_at"`
	EndsAt      time.Time `json:"endsAt" db:"ends_at"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	AttendeeCount int `json:"attendeeCount" db:"-"`
}

// EventFilter narrows event listings
type EventFilter struct {
	Upcoming bool
	Category string
	Now      time.Time
}
