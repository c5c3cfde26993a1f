package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
)

var notificationColumns = []string{"id", "user_id", "type", "title", "message", "link", "is_read", "read_at", "created_at"}

func scanNotification(row pgx.Row, n *models.Notification) error {
	return row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.IsRead, &n.ReadAt, &n.CreatedAt)
}

// NotificationRepository handles in-app notifications
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: pool, sb: newBuilder()}
}

// Create inserts an unread notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (int64, error) {
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "type", "title", "message", "link").
		Values(n.UserID, n.Type, n.Title, n.Message, n.Link).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create notification query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		return 0, fmt.Errorf("error creating notification: %w", err)
	}
	return n.ID, nil
}

// List returns a page of the user's notifications, newest first
func (r *NotificationRepository) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset uint64) ([]models.Notification, int64, error) {
	where := squirrel.Eq{"user_id": userID}
	if unreadOnly {
		where["is_read"] = false
	}

	total, err := countOf(ctx, r.db, r.sb.Select("COUNT(*)").From("notifications").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select(notificationColumns...).From("notifications").Where(where).
		OrderBy("created_at DESC", "id DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list notifications query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, 0, fmt.Errorf("error scanning notification: %w", err)
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

// CountUnread returns the number of unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return countOf(ctx, r.db, r.sb.Select("COUNT(*)").From("notifications").
		Where(squirrel.Eq{"user_id": userID, "is_read": false}))
}

// MarkRead marks one of the user's notifications as read; marking twice is a no-op
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", squirrel.Expr("COALESCE(read_at, ?)", time.Now())).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user and returns how many changed
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark all read query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
