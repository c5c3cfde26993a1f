package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
	"github.com/yigit/alumniconnect/internal/pkg/sanitize"
)

// EventService manages platform events and RSVPs
type EventService struct {
	eventRepo EventStore
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(eventRepo EventStore, logger zerolog.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, logger: logger, now: time.Now}
}

func checkEventWindow(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.NewValidationError("endsAt", "endsAt must be after startsAt")
	}
	return nil
}

// Create adds an event; admin only
func (s *EventService) Create(ctx context.Context, actor Actor, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can create events")
	}
	if err := checkEventWindow(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	e := &models.Event{
		CreatedBy:   actor.UserID,
		Title:       sanitize.PlainText(req.Title),
		Description: sanitize.RichText(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt.UTC(),
	}
	if _, err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", e.ID).Msg("Event created")
	return &dto.EventResponse{Event: *e}, nil
}

// Get returns an event with the caller's RSVP state
func (s *EventService) Get(ctx context.Context, actor Actor, id int64) (*dto.EventResponse, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attending, err := s.eventRepo.AttendingEventIDs(ctx, actor.UserID, []int64{id})
	if err != nil {
		return nil, err
	}
	return &dto.EventResponse{Event: *e, Attending: attending[id]}, nil
}

// List returns a page of events
func (s *EventService) List(ctx context.Context, actor Actor, req dto.EventFilterRequest) (*dto.ListResponse[dto.EventResponse], error) {
	filter := models.EventFilter{
		Upcoming: req.Upcoming,
		Category: strings.ToLower(strings.TrimSpace(req.Category)),
		Now:      s.now(),
	}
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.PageSize)
	events, total, err := s.eventRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	attending, err := s.eventRepo.AttendingEventIDs(ctx, actor.UserID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, dto.EventResponse{Event: e, Attending: attending[e.ID]})
	}
	resp := helpers.NewListResponse(items, total, req.Page, req.PageSize)
	return &resp, nil
}

// Update changes an event; admin only
func (s *EventService) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can update events")
	}
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		e.Title = sanitize.PlainText(*req.Title)
	}
	if req.Description != nil {
		e.Description = sanitize.RichText(*req.Description)
	}
	if req.Location != nil {
		e.Location = strings.TrimSpace(*req.Location)
	}
	if req.Category != nil {
		e.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.StartsAt != nil {
		e.StartsAt = req.StartsAt.UTC()
	}
	if req.EndsAt != nil {
		e.EndsAt = req.EndsAt.UTC()
	}
	if err := checkEventWindow(e.StartsAt, e.EndsAt); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return &dto.EventResponse{Event: *e}, nil
}

// Delete removes an event; admin only
func (s *EventService) Delete(ctx context.Context, actor Actor, id int64) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("only admins can delete events")
	}
	return s.eventRepo.Delete(ctx, id)
}

// RSVP marks the caller as attending an event that has not ended
func (s *EventService) RSVP(ctx context.Context, actor Actor, id int64) (*dto.EventResponse, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.EndsAt.After(s.now()) {
		return nil, apperrors.NewConflictError("event has already ended")
	}
	if err := s.eventRepo.RSVP(ctx, id, actor.UserID); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

// CancelRSVP withdraws the caller's RSVP
func (s *EventService) CancelRSVP(ctx context.Context, actor Actor, id int64) error {
	return s.eventRepo.CancelRSVP(ctx, id, actor.UserID)
}
