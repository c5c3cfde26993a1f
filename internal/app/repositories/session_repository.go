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
	"github.com/yigit/alumniconnect/internal/pkg/logger"
)

var sessionColumns = []string{
	"id", "alumni_id", "student_id", "topic", "message", "scheduled_at", "duration_minutes", "status",
	"meeting_link", "cancel_reason", "cancelled_by", "rating", "feedback", "created_at", "updated_at",
}

func scanSession(row pgx.Row, s *models.MentorshipSession) error {
	return row.Scan(&s.ID, &s.AlumniID, &s.StudentID, &s.Topic, &s.Message, &s.ScheduledAt, &s.DurationMinutes,
		&s.Status, &s.MeetingLink, &s.CancelReason, &s.CancelledBy, &s.Rating, &s.Feedback, &s.CreatedAt, &s.UpdatedAt)
}

// SessionRepository handles mentorship session rows
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: pool, sb: newBuilder()}
}

// Create inserts a pending session
func (r *SessionRepository) Create(ctx context.Context, s *models.MentorshipSession) (int64, error) {
	sql, args, err := r.sb.Insert("mentorship_sessions").
		Columns("alumni_id", "student_id", "topic", "message", "scheduled_at", "duration_minutes", "status").
		Values(s.AlumniID, s.StudentID, s.Topic, s.Message, s.ScheduledAt, s.DurationMinutes, s.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create session query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("alumniID", s.AlumniID).Int64("studentID", s.StudentID).Msg("Error creating session")
		return 0, fmt.Errorf("error creating session: %w", err)
	}
	return s.ID, nil
}

// GetByID loads a session
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.MentorshipSession, error) {
	sql, args, err := r.sb.Select(sessionColumns...).From("mentorship_sessions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}
	var s models.MentorshipSession
	if err := scanSession(r.db.QueryRow(ctx, sql, args...), &s); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return &s, nil
}

// List returns sessions matching the filter
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.MentorshipSession, error) {
	q := r.sb.Select(sessionColumns...).From("mentorship_sessions")
	if filter.AlumniID != nil && filter.StudentID != nil && *filter.AlumniID == *filter.StudentID {
		q = q.Where(squirrel.Or{squirrel.Eq{"alumni_id": *filter.AlumniID}, squirrel.Eq{"student_id": *filter.StudentID}})
	} else {
		if filter.AlumniID != nil {
			q = q.Where(squirrel.Eq{"alumni_id": *filter.AlumniID})
		}
		if filter.StudentID != nil {
			q = q.Where(squirrel.Eq{"student_id": *filter.StudentID})
		}
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	return r.query(ctx, q.OrderBy("scheduled_at ASC", "id ASC"))
}

func (r *SessionRepository) query(ctx context.Context, q squirrel.Sqlizer) ([]models.MentorshipSession, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	out := make([]models.MentorshipSession, 0)
	for rows.Next() {
		var s models.MentorshipSession
		if err := scanSession(rows, &s); err != nil {
			return nil, fmt.Errorf("error scanning session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Transition persists s if the stored status still equals from
func (r *SessionRepository) Transition(ctx context.Context, s *models.MentorshipSession, from models.SessionStatus) error {
	s.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("mentorship_sessions").
		SetMap(map[string]any{
			"status":        s.Status,
			"meeting_link":  s.MeetingLink,
			"cancel_reason": s.CancelReason,
			"cancelled_by":  s.CancelledBy,
			"rating":        s.Rating,
			"feedback":      s.Feedback,
			"updated_at":    s.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": s.ID, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update session query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, s.ID)
		if err != nil {
			return err
		}
		return apperrors.NewTransitionError(string(current.Status), string(s.Status))
	}
	return nil
}

// SaveFeedback stores the rating of a completed session that has none yet
func (r *SessionRepository) SaveFeedback(ctx context.Context, s *models.MentorshipSession) error {
	s.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("mentorship_sessions").
		Set("rating", s.Rating).
		Set("feedback", s.Feedback).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID, "status": models.SessionCompleted, "rating": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build session feedback query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error saving session feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFeedbackExists
	}
	return nil
}

// HasAcceptedOverlap reports whether the alumni already has an accepted session intersecting [start, end)
func (r *SessionRepository) HasAcceptedOverlap(ctx context.Context, alumniID int64, start, end time.Time, excludeID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").From("mentorship_sessions").
		Where(squirrel.Eq{"alumni_id": alumniID, "status": models.SessionAccepted}).
		Where(squirrel.NotEq{"id": excludeID}).
		Where(squirrel.Lt{"scheduled_at": end}).
		Where(squirrel.Expr("scheduled_at + make_interval(mins => duration_minutes) > ?", start)).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build overlap query: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking overlap: %w", err)
	}
	return exists, nil
}

// CompleteElapsed marks accepted sessions whose slot ended before now as completed and returns them
func (r *SessionRepository) CompleteElapsed(ctx context.Context, now time.Time) ([]models.MentorshipSession, error) {
	q := r.sb.Update("mentorship_sessions").
		Set("status", models.SessionCompleted).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": models.SessionAccepted}).
		Where(squirrel.Expr("scheduled_at + make_interval(mins => duration_minutes) <= ?", now)).
		Suffix("RETURNING " + joinColumns(sessionColumns))
	return r.query(ctx, q)
}
