package models

import "time"

// SessionStatus is the lifecycle state of a mentorship session
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionAccepted  SessionStatus = "accepted"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionAccepted, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// MentorshipSession is a 1:1 session between exactly one alumni and one student
type MentorshipSession struct {
	ID              int64         `json:"id" db:"id"`
	AlumniID        int64         `json:"alumniId" db:"alumni_id"`
	StudentID       int64         `json:"studentId" db:"student_id"`
	Topic           string        `json:"topic" db:"topic"`
	Message         string        `json:"message" db:"message"`
	ScheduledAt     time.Time     `json:"scheduledAt" db:"scheduled_at"`
	DurationMinutes int           `json:"durationMinutes" db:"duration_minutes"`
	Status          SessionStatus `json:"status" db:"status"`
	MeetingLink     *string       `json:"meetingLink,omitempty" db:"meeting_link"`
	CancelReason    *string       `json:"cancelReason,omitempty" db:"cancel_reason"`
	CancelledBy     *int64        `json:"cancelledBy,omitempty" db:"cancelled_by"`
	Rating          *int          `json:"rating,omitempty" db:"rating"`
	Feedback        *string       `json:"feedback,omitempty" db:"feedback"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// EndsAt returns the end of the session slot.
func (s *MentorshipSession) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the two session slots intersect.
func (s *MentorshipSession) Overlaps(other *MentorshipSession) bool {
	return s.ScheduledAt.Before(other.EndsAt()) && other.ScheduledAt.Before(s.EndsAt())
}

// HasParticipant reports whether userID is the alumni or the student of the session.
func (s *MentorshipSession) HasParticipant(userID int64) bool {
	return s.AlumniID == userID || s.StudentID == userID
}

// Counterpart returns the other participant of the session.
func (s *MentorshipSession) Counterpart(userID int64) int64 {
	if s.AlumniID == userID {
		return s.StudentID
	}
	return s.AlumniID
}

// SessionFilter narrows session listings
type SessionFilter struct {
	AlumniID  *int64
	StudentID *int64
	Status    *SessionStatus
}
