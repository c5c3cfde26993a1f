package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
)

// NotificationService stores in-app notifications and pushes them to connected clients
type NotificationService struct {
	repo      NotificationStore
	publisher Publisher
	logger    zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo NotificationStore, publisher Publisher, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, logger: logger}
}

// Notify stores n and publishes it to its recipient. Failures are logged, never returned:
// the operation that triggered the notification has already succeeded.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) {
	if n.UserID <= 0 {
		return
	}
	if _, err := s.repo.Create(ctx, &n); err != nil {
		s.logger.Error().Err(err).Int64("userID", n.UserID).Str("type", string(n.Type)).Msg("Failed to store notification")
		return
	}
	s.publisher.Publish([]int64{n.UserID}, realtime.Notification(n.ID, n))
}

// List returns a page of the caller's notifications
func (s *NotificationService) List(ctx context.Context, actor Actor, req dto.NotificationFilterRequest) (*dto.ListResponse[models.Notification], error) {
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.PageSize)
	items, total, err := s.repo.List(ctx, actor.UserID, req.Unread, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := helpers.NewListResponse(items, total, req.Page, req.PageSize)
	return &resp, nil
}

// UnreadCount returns how many notifications the caller has not read
func (s *NotificationService) UnreadCount(ctx context.Context, actor Actor) (int64, error) {
	return s.repo.CountUnread(ctx, actor.UserID)
}

// MarkRead marks one notification of the caller as read
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id int64) error {
	if err := s.repo.MarkRead(ctx, id, actor.UserID); err != nil {
		return err
	}
	s.publisher.Publish([]int64{actor.UserID}, realtime.RowChange("notifications", realtime.ActionUpdate, id, nil))
	return nil
}

// MarkAllRead marks all the caller's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publisher.Publish([]int64{actor.UserID}, realtime.RowChange("notifications", realtime.ActionUpdate, 0, map[string]int64{"marked": n}))
	}
	return n, nil
}
