package services

import (
	"context"
	"time"

	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/pkg/email"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID int64
	Role   models.Role
}

// IsAdmin reports whether the caller is an administrator
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// UserStore persists users
type UserStore interface {
	CreateWithProfile(ctx context.Context, user *models.User, student *models.StudentDetails, alumni *models.AlumniDetails) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	List(ctx context.Context, filter models.UserFilter, limit, offset uint64) ([]models.User, int64, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	UpdateName(ctx context.Context, userID int64, name string) error
	UpdateAvatar(ctx context.Context, userID int64, url *string) error
	SetActive(ctx context.Context, userID int64, active bool) error
}

// TokenStore persists refresh tokens
type TokenStore interface {
	Create(ctx context.Context, token models.RefreshToken) error
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

// ProfileStore persists role specific profile details
type ProfileStore interface {
	GetStudent(ctx context.Context, userID int64) (*models.StudentDetails, error)
	GetAlumni(ctx context.Context, userID int64) (*models.AlumniDetails, error)
	UpsertStudent(ctx context.Context, d *models.StudentDetails) error
	UpsertAlumni(ctx context.Context, d *models.AlumniDetails) error
	ToggleVerification(ctx context.Context, userID int64) (bool, error)
	ListAlumniProfiles(ctx context.Context) ([]models.AlumniProfile, error)
	ListStudentProfiles(ctx context.Context) ([]models.StudentProfile, error)
}

// SessionStore persists mentorship sessions
type SessionStore interface {
	Create(ctx context.Context, s *models.MentorshipSession) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.MentorshipSession, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.MentorshipSession, error)
	Transition(ctx context.Context, s *models.MentorshipSession, from models.SessionStatus) error
	SaveFeedback(ctx context.Context, s *models.MentorshipSession) error
	HasAcceptedOverlap(ctx context.Context, alumniID int64, start, end time.Time, excludeID int64) (bool, error)
	CompleteElapsed(ctx context.Context, now time.Time) ([]models.MentorshipSession, error)
}

// WebinarStore persists webinars and registrations
type WebinarStore interface {
	Create(ctx context.Context, w *models.Webinar) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Webinar, error)
	Update(ctx context.Context, w *models.Webinar) error
	List(ctx context.Context, filter models.WebinarFilter, limit, offset uint64) ([]models.Webinar, int64, error)
	Register(ctx context.Context, webinarID, userID int64) error
	Unregister(ctx context.Context, webinarID, userID int64) error
	RegisteredWebinarIDs(ctx context.Context, userID int64, webinarIDs []int64) (map[int64]bool, error)
	RegistrantIDs(ctx context.Context, webinarID int64) ([]int64, error)
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// JobStore persists job postings and referral requests
type JobStore interface {
	Create(ctx context.Context, j *models.JobPosting) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.JobPosting, error)
	Update(ctx context.Context, j *models.JobPosting) error
	List(ctx context.Context, includeClosed bool, postedBy *int64) ([]models.JobPosting, error)
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
	CreateReferral(ctx context.Context, rr *models.ReferralRequest) (int64, error)
	GetReferral(ctx context.Context, id int64) (*models.ReferralRequest, error)
	UpdateReferralStatus(ctx context.Context, id int64, from, to models.ReferralStatus) error
	ListReferralsByJob(ctx context.Context, jobID int64) ([]models.ReferralRequest, error)
	ListReferralsByStudent(ctx context.Context, studentID int64) ([]models.ReferralRequest, error)
}

// ForumStore persists forum threads, replies and likes
type ForumStore interface {
	CreatePost(ctx context.Context, p *models.ForumPost) (int64, error)
	GetPost(ctx context.Context, id int64) (*models.ForumPost, error)
	UpdatePost(ctx context.Context, p *models.ForumPost) error
	DeletePost(ctx context.Context, id int64) error
	SetPinned(ctx context.Context, id int64, pinned bool) error
	ListPosts(ctx context.Context, filter models.ForumFilter, sort string, limit, offset uint64) ([]models.ForumPost, int64, error)
	CreateReply(ctx context.Context, rp *models.ForumReply) (int64, error)
	GetReply(ctx context.Context, id int64) (*models.ForumReply, error)
	ListReplies(ctx context.Context, postID int64) ([]models.ForumReply, error)
	DeleteReply(ctx context.Context, rp *models.ForumReply) error
	ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error)
	LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

// DocumentStore persists document metadata
type DocumentStore interface {
	Create(ctx context.Context, d *models.Document) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter, limit, offset uint64) ([]models.Document, int64, error)
	Delete(ctx context.Context, id int64) error
	Review(ctx context.Context, id int64, status models.DocumentStatus, note *string, reviewerID int64) error
}

// EventStore persists events and RSVPs
type EventStore interface {
	Create(ctx context.Context, e *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.EventFilter, limit, offset uint64) ([]models.Event, int64, error)
	RSVP(ctx context.Context, eventID, userID int64) error
	CancelRSVP(ctx context.Context, eventID, userID int64) error
	AttendingEventIDs(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error)
}

// NotificationStore persists notifications
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) (int64, error)
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset uint64) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// StatsStore aggregates dashboard counters
type StatsStore interface {
	Stats(ctx context.Context, now time.Time) (*models.PlatformStats, error)
}

// Publisher pushes realtime events to connected users
type Publisher interface {
	Publish(userIDs []int64, ev realtime.Event)
}

// Notifier records a notification for a user and pushes it live
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// Mailer sends transactional mail
type Mailer = email.Mailer
