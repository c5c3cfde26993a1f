package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/db"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/dberrors"
)

var webinarColumns = []string{
	"w.id", "w.host_id", "w.title", "w.description", "w.scheduled_at", "w.duration_minutes", "w.capacity",
	"w.meeting_link", "w.status", "w.created_at", "w.updated_at",
	"(SELECT COUNT(*) FROM webinar_registrations wr WHERE wr.webinar_id = w.id) AS registered_count",
}

func scanWebinar(row pgx.Row, w *models.Webinar) error {
	return row.Scan(&w.ID, &w.HostID, &w.Title, &w.Description, &w.ScheduledAt, &w.DurationMinutes, &w.Capacity,
		&w.MeetingLink, &w.Status, &w.CreatedAt, &w.UpdatedAt, &w.RegisteredCount)
}

// WebinarRepository handles webinars and their registrations
type WebinarRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewWebinarRepository creates a new WebinarRepository
func NewWebinarRepository(pool *pgxpool.Pool) *WebinarRepository {
	return &WebinarRepository{db: pool, sb: newBuilder()}
}

// Create inserts a webinar
func (r *WebinarRepository) Create(ctx context.Context, w *models.Webinar) (int64, error) {
	sql, args, err := r.sb.Insert("webinars").
		Columns("host_id", "title", "description", "scheduled_at", "duration_minutes", "capacity", "meeting_link", "status").
		Values(w.HostID, w.Title, w.Description, w.ScheduledAt, w.DurationMinutes, w.Capacity, w.MeetingLink, w.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create webinar query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return 0, fmt.Errorf("error creating webinar: %w", err)
	}
	return w.ID, nil
}

// GetByID loads a webinar with its registration count
func (r *WebinarRepository) GetByID(ctx context.Context, id int64) (*models.Webinar, error) {
	sql, args, err := r.sb.Select(webinarColumns...).From("webinars w").Where(squirrel.Eq{"w.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get webinar query: %w", err)
	}
	var w models.Webinar
	if err := scanWebinar(r.db.QueryRow(ctx, sql, args...), &w); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrWebinarNotFound
		}
		return nil, fmt.Errorf("error retrieving webinar: %w", err)
	}
	return &w, nil
}

// Update persists the editable fields and status
func (r *WebinarRepository) Update(ctx context.Context, w *models.Webinar) error {
	w.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("webinars").
		SetMap(map[string]any{
			"title":            w.Title,
			"description":      w.Description,
			"scheduled_at":     w.ScheduledAt,
			"duration_minutes": w.DurationMinutes,
			"capacity":         w.Capacity,
			"meeting_link":     w.MeetingLink,
			"status":           w.Status,
			"updated_at":       w.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": w.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update webinar query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating webinar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrWebinarNotFound
	}
	return nil
}

// List returns a filtered page; upcoming lists ascend by start, everything else descends
func (r *WebinarRepository) List(ctx context.Context, filter models.WebinarFilter, limit, offset uint64) ([]models.Webinar, int64, error) {
	where := squirrel.And{}
	if filter.HostID != nil {
		where = append(where, squirrel.Eq{"w.host_id": *filter.HostID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"w.status": *filter.Status})
	}
	order := "w.scheduled_at DESC"
	if filter.Upcoming {
		where = append(where, squirrel.GtOrEq{"w.scheduled_at": filter.Now})
		order = "w.scheduled_at ASC"
	}

	total, err := countOf(ctx, r.db, r.sb.Select("COUNT(*)").From("webinars w").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select(webinarColumns...).From("webinars w").Where(where).
		OrderBy(order, "w.id ASC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list webinars query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing webinars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Webinar, 0)
	for rows.Next() {
		var w models.Webinar
		if err := scanWebinar(rows, &w); err != nil {
			return nil, 0, fmt.Errorf("error scanning webinar: %w", err)
		}
		out = append(out, w)
	}
	return out, total, rows.Err()
}

// Register adds a seat, locking the webinar row so capacity cannot be oversold
func (r *WebinarRepository) Register(ctx context.Context, webinarID, userID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var capacity int
		if err := tx.QueryRow(ctx, `SELECT capacity FROM webinars WHERE id = $1 FOR UPDATE`, webinarID).Scan(&capacity); err != nil {
			if dberrors.IsNoRows(err) {
				return apperrors.ErrWebinarNotFound
			}
			return fmt.Errorf("error locking webinar: %w", err)
		}

		var already bool
		var taken int
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM webinar_registrations WHERE webinar_id = $1 AND user_id = $2),
			        (SELECT COUNT(*) FROM webinar_registrations WHERE webinar_id = $1)`,
			webinarID, userID).Scan(&already, &taken); err != nil {
			return fmt.Errorf("error counting registrations: %w", err)
		}
		if err := seatError(capacity, taken, already); err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("webinar_registrations").Columns("webinar_id", "user_id").Values(webinarID, userID).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build register query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "webinar_registrations_pkey") {
				return apperrors.ErrAlreadyRegistered
			}
			return fmt.Errorf("error registering for webinar: %w", err)
		}
		return nil
	})
}

// seatError decides whether a user may take a seat; an existing registration wins over a full webinar
func seatError(capacity, taken int, alreadyRegistered bool) error {
	if alreadyRegistered {
		return apperrors.ErrAlreadyRegistered
	}
	if capacity > 0 && taken >= capacity {
		return apperrors.ErrCapacityReached
	}
	return nil
}

// Unregister removes a seat
func (r *WebinarRepository) Unregister(ctx context.Context, webinarID, userID int64) error {
	sql, args, err := r.sb.Delete("webinar_registrations").Where(squirrel.Eq{"webinar_id": webinarID, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unregister query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error unregistering: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("registration not found")
	}
	return nil
}

// RegisteredWebinarIDs returns which of webinarIDs the user is registered for
func (r *WebinarRepository) RegisteredWebinarIDs(ctx context.Context, userID int64, webinarIDs []int64) (map[int64]bool, error) {
	return idSet(ctx, r.db, r.sb.Select("webinar_id").From("webinar_registrations").
		Where(squirrel.Eq{"user_id": userID, "webinar_id": webinarIDs}), len(webinarIDs))
}

// RegistrantIDs lists the users registered for a webinar
func (r *WebinarRepository) RegistrantIDs(ctx context.Context, webinarID int64) ([]int64, error) {
	return idList(ctx, r.db, r.sb.Select("user_id").From("webinar_registrations").
		Where(squirrel.Eq{"webinar_id": webinarID}).OrderBy("registered_at"))
}

// CompletePast marks scheduled webinars that already ended as completed
func (r *WebinarRepository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Update("webinars").
		Set("status", models.WebinarCompleted).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": models.WebinarScheduled}).
		Where(squirrel.Expr("scheduled_at + make_interval(mins => duration_minutes) <= ?", now)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build complete webinars query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error completing webinars: %w", err)
	}
	return tag.RowsAffected(), nil
}
