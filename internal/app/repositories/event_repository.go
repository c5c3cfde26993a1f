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
	"github.com/yigit/alumniconnect/internal/pkg/dberrors"
)

var eventColumns = []string{
	"e.id", "e.created_by", "e.title", "e.description", "e.location", "e.category", "e.starts_at", "e.ends_at",
	"e.created_at", "e.updated_at",
	"(SELECT COUNT(*) FROM event_rsvps er WHERE er.event_id = e.id) AS attendee_count",
}

func scanEvent(row pgx.Row, e *models.Event) error {
	return row.Scan(&e.ID, &e.CreatedBy, &e.Title, &e.Description, &e.Location, &e.Category, &e.StartsAt, &e.EndsAt,
		&e.CreatedAt, &e.UpdatedAt, &e.AttendeeCount)
}

// EventRepository handles platform events and RSVPs
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: pool, sb: newBuilder()}
}

// Create inserts an event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) (int64, error) {
	sql, args, err := r.sb.Insert("events").
		Columns("created_by", "title", "description", "location", "category", "starts_at", "ends_at").
		Values(e.CreatedBy, e.Title, e.Description, e.Location, e.Category, e.StartsAt, e.EndsAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create event query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return 0, fmt.Errorf("error creating event: %w", err)
	}
	return e.ID, nil
}

// GetByID loads an event with its attendee count
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).From("events e").Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}
	var e models.Event
	if err := scanEvent(r.db.QueryRow(ctx, sql, args...), &e); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return &e, nil
}

// Update persists the editable fields
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	e.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("events").
		SetMap(map[string]any{
			"title":       e.Title,
			"description": e.Description,
			"location":    e.Location,
			"category":    e.Category,
			"starts_at":   e.StartsAt,
			"ends_at":     e.EndsAt,
			"updated_at":  e.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Delete removes an event and its RSVPs
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// List returns a page of events; upcoming ones ascend by start
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter, limit, offset uint64) ([]models.Event, int64, error) {
	where := squirrel.And{}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"e.category": filter.Category})
	}
	order := "e.starts_at DESC"
	if filter.Upcoming {
		where = append(where, squirrel.Gt{"e.ends_at": filter.Now})
		order = "e.starts_at ASC"
	}

	total, err := countOf(ctx, r.db, r.sb.Select("COUNT(*)").From("events e").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select(eventColumns...).From("events e").Where(where).
		OrderBy(order, "e.id ASC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list events query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// RSVP marks the user as attending
func (r *EventRepository) RSVP(ctx context.Context, eventID, userID int64) error {
	sql, args, err := r.sb.Insert("event_rsvps").Columns("event_id", "user_id").Values(eventID, userID).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build rsvp query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "event_rsvps_pkey") {
			return apperrors.ErrAlreadyRSVPed
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("error saving rsvp: %w", err)
	}
	return nil
}

// CancelRSVP withdraws the user's RSVP
func (r *EventRepository) CancelRSVP(ctx context.Context, eventID, userID int64) error {
	sql, args, err := r.sb.Delete("event_rsvps").Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cancel rsvp query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error cancelling rsvp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("rsvp not found")
	}
	return nil
}

// AttendingEventIDs returns which of eventIDs the user RSVPed to
func (r *EventRepository) AttendingEventIDs(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error) {
	return idSet(ctx, r.db, r.sb.Select("event_id").From("event_rsvps").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventIDs}), len(eventIDs))
}
