package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumniconnect/internal/app/models"
)

// StatsRepository aggregates platform-wide counters
type StatsRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: pool, sb: newBuilder()}
}

// Stats collects the admin dashboard numbers
func (r *StatsRepository) Stats(ctx context.Context, now time.Time) (*models.PlatformStats, error) {
	stats := &models.PlatformStats{
		UsersByRole:      map[models.Role]int64{models.RoleStudent: 0, models.RoleAlumni: 0, models.RoleAdmin: 0},
		SessionsByStatus: map[models.SessionStatus]int64{},
	}

	if err := r.grouped(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`, func(key string, n int64) {
		stats.UsersByRole[models.Role(key)] = n
	}); err != nil {
		return nil, err
	}
	if err := r.grouped(ctx, `SELECT status, COUNT(*) FROM mentorship_sessions GROUP BY status`, func(key string, n int64) {
		stats.SessionsByStatus[models.SessionStatus(key)] = n
	}); err != nil {
		return nil, err
	}

	counters := []struct {
		dst *int64
		q   squirrel.SelectBuilder
	}{
		{&stats.PendingVerifications, r.sb.Select("COUNT(*)").From("alumni_details").Where(squirrel.Eq{"verification_status": false})},
		{&stats.OpenJobs, r.sb.Select("COUNT(*)").From("job_postings").Where(squirrel.Eq{"status": models.JobOpen})},
		{&stats.UpcomingWebinars, r.sb.Select("COUNT(*)").From("webinars").
			Where(squirrel.Eq{"status": models.WebinarScheduled}).Where(squirrel.GtOrEq{"scheduled_at": now})},
		{&stats.PendingDocuments, r.sb.Select("COUNT(*)").From("documents").Where(squirrel.Eq{"status": models.DocumentPending})},
		{&stats.ForumPosts, r.sb.Select("COUNT(*)").From("forum_posts")},
	}
	for _, c := range counters {
		n, err := countOf(ctx, r.db, c.q)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	return stats, nil
}

func (r *StatsRepository) grouped(ctx context.Context, sql string, fn func(key string, n int64)) error {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return fmt.Errorf("error aggregating stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("error scanning stats row: %w", err)
		}
		fn(key, n)
	}
	return rows.Err()
}
