package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/email"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
	"github.com/yigit/alumniconnect/internal/pkg/sanitize"
)

// DefaultSessionMinutes is used when a request omits the duration
const DefaultSessionMinutes = 60

// sessionParty is who drives a status change
type sessionParty int

const (
	partyAlumni sessionParty = iota + 1
	partyStudent
	partyScheduler
)

// sessionTransitions lists, per edge, who may take it
var sessionTransitions = map[models.SessionStatus]map[models.SessionStatus][]sessionParty{
	models.SessionPending: {
		models.SessionAccepted:  {partyAlumni},
		models.SessionCancelled: {partyAlumni, partyStudent},
	},
	models.SessionAccepted: {
		models.SessionCompleted: {partyAlumni, partyScheduler},
		models.SessionCancelled: {partyAlumni, partyStudent},
	},
}

// canTransition reports whether party may move a session from one status to another
func canTransition(from, to models.SessionStatus, party sessionParty) bool {
	return slices.Contains(sessionTransitions[from][to], party)
}

func partyOf(s *models.MentorshipSession, actor Actor) (sessionParty, bool) {
	switch actor.UserID {
	case s.AlumniID:
		return partyAlumni, true
	case s.StudentID:
		return partyStudent, true
	}
	return 0, false
}

// FilterSessionsByStatus keeps sessions with the given status; an empty status keeps all
func FilterSessionsByStatus(list []models.MentorshipSession, status models.SessionStatus) []models.MentorshipSession {
	if status == "" {
		return slices.Clone(list)
	}
	out := make([]models.MentorshipSession, 0, len(list))
	for _, s := range list {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// SortSessions returns a copy ordered by start time, earliest first
func SortSessions(list []models.MentorshipSession) []models.MentorshipSession {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b models.MentorshipSession) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return out
}

// MentorshipService books and drives 1:1 mentorship sessions
type MentorshipService struct {
	sessionRepo SessionStore
	userRepo    UserStore
	profileRepo ProfileStore
	notifier    Notifier
	publisher   Publisher
	mailer      Mailer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewMentorshipService creates a new MentorshipService
func NewMentorshipService(
	sessionRepo SessionStore,
	userRepo UserStore,
	profileRepo ProfileStore,
	notifier Notifier,
	publisher Publisher,
	mailer Mailer,
	logger zerolog.Logger,
) *MentorshipService {
	return &MentorshipService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		publisher:   publisher,
		mailer:      mailer,
		logger:      logger,
		now:         time.Now,
	}
}

// Request books a pending session with a verified, available alumni
func (s *MentorshipService) Request(ctx context.Context, actor Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if actor.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students can request mentorship sessions")
	}
	if req.AlumniID == actor.UserID {
		return nil, apperrors.NewValidationError("alumniId", "cannot book a session with yourself")
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, apperrors.NewValidationError("scheduledAt", "scheduledAt must be in the future")
	}

	mentor, err := s.userRepo.GetByID(ctx, req.AlumniID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrAlumniNotFound
		}
		return nil, err
	}
	if mentor.Role != models.RoleAlumni || !mentor.IsActive {
		return nil, apperrors.ErrAlumniNotFound
	}

	details, err := s.profileRepo.GetAlumni(ctx, mentor.ID)
	if err != nil {
		return nil, err
	}
	if !details.VerificationStatus {
		return nil, apperrors.NewConflictError("alumni is not verified yet")
	}
	if !details.AvailableForMentorship {
		return nil, apperrors.NewConflictError("alumni is not available for mentorship")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = DefaultSessionMinutes
	}

	session := &models.MentorshipSession{
		AlumniID:        mentor.ID,
		StudentID:       actor.UserID,
		Topic:           sanitize.PlainText(req.Topic),
		Message:         sanitize.PlainText(req.Message),
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Status:          models.SessionPending,
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("sessionID", session.ID).Int64("alumniID", mentor.ID).Int64("studentID", actor.UserID).Msg("Mentorship session requested")

	s.notifier.Notify(ctx, models.Notification{
		UserID:  mentor.ID,
		Type:    models.NotifySessionRequested,
		Title:   "New mentorship request",
		Message: fmt.Sprintf("You have a new session request: %s", session.Topic),
		Link:    sessionLink(session.ID),
	})
	s.broadcast(session, realtime.ActionInsert)

	return s.respond(ctx, session)
}

// List returns the caller's sessions, optionally filtered by status, earliest first
func (s *MentorshipService) List(ctx context.Context, actor Actor, req dto.SessionFilterRequest) (*dto.ListResponse[dto.SessionResponse], error) {
	var filter models.SessionFilter
	switch actor.Role {
	case models.RoleAlumni:
		filter.AlumniID = &actor.UserID
	case models.RoleStudent:
		filter.StudentID = &actor.UserID
	}

	all, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page, info := helpers.Paginate(SortSessions(FilterSessionsByStatus(all, models.SessionStatus(req.Status))), req.Page, req.PageSize)

	items, err := s.respondAll(ctx, page)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[dto.SessionResponse]{Items: items, Pagination: info}, nil
}

// Get returns one session to a participant or an admin
func (s *MentorshipService) Get(ctx context.Context, actor Actor, id int64) (*dto.SessionResponse, error) {
	session, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// Accept confirms a pending session. The alumni must not have another accepted session in the slot.
func (s *MentorshipService) Accept(ctx context.Context, actor Actor, id int64, req *dto.AcceptSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.forTransition(ctx, actor, id, models.SessionAccepted)
	if err != nil {
		return nil, err
	}

	overlap, err := s.sessionRepo.HasAcceptedOverlap(ctx, session.AlumniID, session.ScheduledAt, session.EndsAt(), session.ID)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperrors.NewConflictError("you already have an accepted session in this time slot")
	}

	from := session.Status
	session.Status = models.SessionAccepted
	session.MeetingLink = helpers.OptionalString(req.MeetingLink)
	if err := s.sessionRepo.Transition(ctx, session, from); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("sessionID", session.ID).Msg("Mentorship session accepted")
	s.notifier.Notify(ctx, models.Notification{
		UserID:  session.StudentID,
		Type:    models.NotifySessionAccepted,
		Title:   "Session accepted",
		Message: fmt.Sprintf("Your session \"%s\" was accepted", session.Topic),
		Link:    sessionLink(session.ID),
	})
	s.broadcast(session, realtime.ActionUpdate)
	s.mailAccepted(ctx, session)

	return s.respond(ctx, session)
}

// Cancel rejects (alumni) or withdraws (either party) a pending or accepted session
func (s *MentorshipService) Cancel(ctx context.Context, actor Actor, id int64, req *dto.CancelSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.forTransition(ctx, actor, id, models.SessionCancelled)
	if err != nil {
		return nil, err
	}

	from := session.Status
	session.Status = models.SessionCancelled
	session.CancelReason = helpers.OptionalString(sanitize.PlainText(req.Reason))
	session.CancelledBy = &actor.UserID
	if err := s.sessionRepo.Transition(ctx, session, from); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("sessionID", session.ID).Int64("by", actor.UserID).Msg("Mentorship session cancelled")
	s.notifier.Notify(ctx, models.Notification{
		UserID:  session.Counterpart(actor.UserID),
		Type:    models.NotifySessionCancelled,
		Title:   "Session cancelled",
		Message: fmt.Sprintf("The session \"%s\" was cancelled", session.Topic),
		Link:    sessionLink(session.ID),
	})
	s.broadcast(session, realtime.ActionUpdate)

	return s.respond(ctx, session)
}

// Complete marks an accepted session as done
func (s *MentorshipService) Complete(ctx context.Context, actor Actor, id int64) (*dto.SessionResponse, error) {
	session, err := s.forTransition(ctx, actor, id, models.SessionCompleted)
	if err != nil {
		return nil, err
	}

	from := session.Status
	session.Status = models.SessionCompleted
	if err := s.sessionRepo.Transition(ctx, session, from); err != nil {
		return nil, err
	}

	s.notifyCompleted(ctx, session)
	return s.respond(ctx, session)
}

// Feedback lets the student rate a completed session once
func (s *MentorshipService) Feedback(ctx context.Context, actor Actor, id int64, req *dto.SessionFeedbackRequest) (*dto.SessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.StudentID != actor.UserID {
		return nil, apperrors.NewForbiddenError("only the student of the session can leave feedback")
	}
	if session.Status != models.SessionCompleted {
		return nil, apperrors.NewConflictError("feedback is only possible for completed sessions")
	}
	if session.Rating != nil {
		return nil, apperrors.ErrFeedbackExists
	}

	rating := req.Rating
	session.Rating = &rating
	session.Feedback = helpers.OptionalString(sanitize.PlainText(req.Feedback))
	if err := s.sessionRepo.SaveFeedback(ctx, session); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:  session.AlumniID,
		Type:    models.NotifySessionFeedback,
		Title:   "New session feedback",
		Message: fmt.Sprintf("You received a %d/5 rating for \"%s\"", rating, session.Topic),
		Link:    sessionLink(session.ID),
	})
	s.broadcast(session, realtime.ActionUpdate)

	return s.respond(ctx, session)
}

// CompleteElapsed completes every accepted session whose slot has ended
func (s *MentorshipService) CompleteElapsed(ctx context.Context) (int, error) {
	done, err := s.sessionRepo.CompleteElapsed(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for i := range done {
		s.notifyCompleted(ctx, &done[i])
	}
	return len(done), nil
}

func (s *MentorshipService) notifyCompleted(ctx context.Context, session *models.MentorshipSession) {
	s.logger.Info().Int64("sessionID", session.ID).Msg("Mentorship session completed")
	s.notifier.Notify(ctx, models.Notification{
		UserID:  session.StudentID,
		Type:    models.NotifySessionCompleted,
		Title:   "Session completed",
		Message: fmt.Sprintf("\"%s\" is complete. Leave feedback for your mentor.", session.Topic),
		Link:    sessionLink(session.ID),
	})
	s.broadcast(session, realtime.ActionUpdate)
}

// visible loads a session the actor may see
func (s *MentorshipService) visible(ctx context.Context, actor Actor, id int64) (*models.MentorshipSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !session.HasParticipant(actor.UserID) {
		return nil, apperrors.NewForbiddenError("you are not a participant of this session")
	}
	return session, nil
}

// forTransition loads a session and checks the actor may move it to the target status
func (s *MentorshipService) forTransition(ctx context.Context, actor Actor, id int64, to models.SessionStatus) (*models.MentorshipSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	party, ok := partyOf(session, actor)
	if !ok {
		return nil, apperrors.NewForbiddenError("you are not a participant of this session")
	}
	if _, allowed := sessionTransitions[session.Status][to]; !allowed {
		return nil, apperrors.NewTransitionError(string(session.Status), string(to))
	}
	if !canTransition(session.Status, to, party) {
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("you cannot mark this session %s", to))
	}
	return session, nil
}

func (s *MentorshipService) broadcast(session *models.MentorshipSession, action realtime.Action) {
	s.publisher.Publish([]int64{session.AlumniID, session.StudentID},
		realtime.RowChange("mentorship_sessions", action, session.ID, session))
}

func (s *MentorshipService) mailAccepted(ctx context.Context, session *models.MentorshipSession) {
	users, err := s.userRepo.GetByIDs(ctx, []int64{session.AlumniID, session.StudentID})
	if err != nil {
		s.logger.Error().Err(err).Int64("sessionID", session.ID).Msg("Failed to load participants for email")
		return
	}
	student, mentor := users[session.StudentID], users[session.AlumniID]
	if student == nil || mentor == nil {
		return
	}

	link := ""
	if session.MeetingLink != nil {
		link = *session.MeetingLink
	}
	msg := email.SessionAcceptedMessage(student.Email, student.FullName, mentor.FullName, session.Topic, session.ScheduledAt, link)
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Error().Err(err).Int64("sessionID", session.ID).Msg("Failed to send session accepted email")
	}
}

func (s *MentorshipService) respond(ctx context.Context, session *models.MentorshipSession) (*dto.SessionResponse, error) {
	items, err := s.respondAll(ctx, []models.MentorshipSession{*session})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *MentorshipService) respondAll(ctx context.Context, sessions []models.MentorshipSession) ([]dto.SessionResponse, error) {
	ids := make([]int64, 0, len(sessions)*2)
	for _, session := range sessions {
		ids = append(ids, session.AlumniID, session.StudentID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.SessionResponse{
			MentorshipSession: session,
			Alumni:            dto.NewUserSummary(users[session.AlumniID]),
			Student:           dto.NewUserSummary(users[session.StudentID]),
		})
	}
	return out, nil
}

func sessionLink(id int64) string {
	return fmt.Sprintf("/sessions/%d", id)
}
