package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
	"github.com/yigit/alumniconnect/internal/pkg/sanitize"
)

// DefaultWebinarMinutes is used when a request omits the duration
const DefaultWebinarMinutes = 60

// WebinarService schedules webinars and manages registrations
type WebinarService struct {
	webinarRepo WebinarStore
	userRepo    UserStore
	notifier    Notifier
	publisher   Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewWebinarService creates a new WebinarService
func NewWebinarService(webinarRepo WebinarStore, userRepo UserStore, notifier Notifier, publisher Publisher, logger zerolog.Logger) *WebinarService {
	return &WebinarService{
		webinarRepo: webinarRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Create schedules a webinar hosted by the caller
func (s *WebinarService) Create(ctx context.Context, actor Actor, req *dto.CreateWebinarRequest) (*dto.WebinarResponse, error) {
	if actor.Role != models.RoleAlumni && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only alumni and admins can host webinars")
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, apperrors.NewValidationError("scheduledAt", "scheduledAt must be in the future")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = DefaultWebinarMinutes
	}

	w := &models.Webinar{
		HostID:          actor.UserID,
		Title:           sanitize.PlainText(req.Title),
		Description:     sanitize.RichText(req.Description),
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Capacity:        req.Capacity,
		MeetingLink:     strings.TrimSpace(req.MeetingLink),
		Status:          models.WebinarScheduled,
	}
	if _, err := s.webinarRepo.Create(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("webinarID", w.ID).Int64("hostID", actor.UserID).Msg("Webinar scheduled")
	return s.respond(ctx, actor, w)
}

// Get returns a webinar with the caller's registration state
func (s *WebinarService) Get(ctx context.Context, actor Actor, id int64) (*dto.WebinarResponse, error) {
	w, err := s.webinarRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, actor, w)
}

// List returns a page of webinars
func (s *WebinarService) List(ctx context.Context, actor Actor, req dto.WebinarFilterRequest) (*dto.ListResponse[dto.WebinarResponse], error) {
	filter := models.WebinarFilter{HostID: req.HostID, Upcoming: req.Upcoming, Now: s.now()}
	if req.Status != "" {
		status := models.WebinarStatus(req.Status)
		filter.Status = &status
	}

	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.PageSize)
	webinars, total, err := s.webinarRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	items, err := s.respondAll(ctx, actor, webinars)
	if err != nil {
		return nil, err
	}
	resp := helpers.NewListResponse(items, total, req.Page, req.PageSize)
	return &resp, nil
}

// Update changes a scheduled webinar. Capacity cannot drop below the seats already taken.
func (s *WebinarService) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateWebinarRequest) (*dto.WebinarResponse, error) {
	w, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		w.Title = sanitize.PlainText(*req.Title)
	}
	if req.Description != nil {
		w.Description = sanitize.RichText(*req.Description)
	}
	if req.ScheduledAt != nil {
		if !req.ScheduledAt.After(s.now()) {
			return nil, apperrors.NewValidationError("scheduledAt", "scheduledAt must be in the future")
		}
		w.ScheduledAt = req.ScheduledAt.UTC()
	}
	if req.DurationMinutes != nil {
		w.DurationMinutes = *req.DurationMinutes
	}
	if req.Capacity != nil {
		if *req.Capacity > 0 && *req.Capacity < w.RegisteredCount {
			return nil, apperrors.NewValidationError("capacity",
				fmt.Sprintf("capacity cannot be lower than the %d registered attendees", w.RegisteredCount))
		}
		w.Capacity = *req.Capacity
	}
	if req.MeetingLink != nil {
		w.MeetingLink = strings.TrimSpace(*req.MeetingLink)
	}

	if err := s.webinarRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	s.broadcast(ctx, w, realtime.ActionUpdate)
	return s.respond(ctx, actor, w)
}

// Cancel cancels a scheduled webinar and tells every registrant
func (s *WebinarService) Cancel(ctx context.Context, actor Actor, id int64) (*dto.WebinarResponse, error) {
	w, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	w.Status = models.WebinarCancelled
	if err := s.webinarRepo.Update(ctx, w); err != nil {
		return nil, err
	}

	registrants, err := s.webinarRepo.RegistrantIDs(ctx, w.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("webinarID", w.ID).Msg("Failed to load registrants")
	}
	for _, userID := range registrants {
		s.notifier.Notify(ctx, models.Notification{
			UserID:  userID,
			Type:    models.NotifyWebinarCancelled,
			Title:   "Webinar cancelled",
			Message: fmt.Sprintf("\"%s\" has been cancelled", w.Title),
			Link:    fmt.Sprintf("/webinars/%d", w.ID),
		})
	}

	s.logger.Info().Int64("webinarID", w.ID).Int("registrants", len(registrants)).Msg("Webinar cancelled")
	s.broadcast(ctx, w, realtime.ActionUpdate)
	return s.respond(ctx, actor, w)
}

// Register reserves a seat for the caller
func (s *WebinarService) Register(ctx context.Context, actor Actor, id int64) (*dto.WebinarResponse, error) {
	w, err := s.webinarRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status != models.WebinarScheduled {
		return nil, apperrors.NewConflictError("webinar is not open for registration")
	}
	if !w.ScheduledAt.After(s.now()) {
		return nil, apperrors.NewConflictError("webinar has already started")
	}

	if err := s.webinarRepo.Register(ctx, id, actor.UserID); err != nil {
		return nil, err
	}

	w, err = s.webinarRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish([]int64{w.HostID}, realtime.RowChange("webinar_registrations", realtime.ActionInsert, w.ID,
		map[string]any{"userId": actor.UserID, "registeredCount": w.RegisteredCount}))
	return s.respond(ctx, actor, w)
}

// Unregister releases the caller's seat
func (s *WebinarService) Unregister(ctx context.Context, actor Actor, id int64) error {
	if err := s.webinarRepo.Unregister(ctx, id, actor.UserID); err != nil {
		return err
	}
	if w, err := s.webinarRepo.GetByID(ctx, id); err == nil {
		s.publisher.Publish([]int64{w.HostID}, realtime.RowChange("webinar_registrations", realtime.ActionDelete, w.ID,
			map[string]any{"userId": actor.UserID, "registeredCount": w.RegisteredCount}))
	}
	return nil
}

// Registrants lists who registered; host or admin only
func (s *WebinarService) Registrants(ctx context.Context, actor Actor, id int64) ([]dto.UserSummary, error) {
	w, err := s.webinarRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.HostID != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only the host can see registrants")
	}

	ids, err := s.webinarRepo.RegistrantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserSummary, 0, len(ids))
	for _, uid := range ids {
		if u := dto.NewUserSummary(users[uid]); u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

// CompletePast marks webinars that already ended as completed
func (s *WebinarService) CompletePast(ctx context.Context) (int64, error) {
	return s.webinarRepo.CompletePast(ctx, s.now())
}

func (s *WebinarService) editable(ctx context.Context, actor Actor, id int64) (*models.Webinar, error) {
	w, err := s.webinarRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.HostID != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only the host can change this webinar")
	}
	if w.Status != models.WebinarScheduled {
		return nil, apperrors.NewTransitionError(string(w.Status), string(models.WebinarScheduled))
	}
	return w, nil
}

func (s *WebinarService) broadcast(ctx context.Context, w *models.Webinar, action realtime.Action) {
	ids, err := s.webinarRepo.RegistrantIDs(ctx, w.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("webinarID", w.ID).Msg("Failed to load registrants")
		return
	}
	s.publisher.Publish(append(ids, w.HostID), realtime.RowChange("webinars", action, w.ID, w))
}

func (s *WebinarService) respond(ctx context.Context, actor Actor, w *models.Webinar) (*dto.WebinarResponse, error) {
	items, err := s.respondAll(ctx, actor, []models.Webinar{*w})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *WebinarService) respondAll(ctx context.Context, actor Actor, webinars []models.Webinar) ([]dto.WebinarResponse, error) {
	ids := make([]int64, 0, len(webinars))
	hosts := make([]int64, 0, len(webinars))
	for _, w := range webinars {
		ids = append(ids, w.ID)
		hosts = append(hosts, w.HostID)
	}

	registered, err := s.webinarRepo.RegisteredWebinarIDs(ctx, actor.UserID, ids)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, hosts)
	if err != nil {
		return nil, err
	}

	out := make([]dto.WebinarResponse, 0, len(webinars))
	for _, w := range webinars {
		out = append(out, dto.WebinarResponse{
			Webinar:      w,
			Host:         dto.NewUserSummary(users[w.HostID]),
			IsRegistered: registered[w.ID],
		})
	}
	return out, nil
}
