package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumniconnect/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	Users         *UserRepository
	Tokens        *TokenRepository
	Profiles      *ProfileRepository
	Sessions      *SessionRepository
	Webinars      *WebinarRepository
	Jobs          *JobRepository
	Forum         *ForumRepository
	Documents     *DocumentRepository
	Events        *EventRepository
	Notifications *NotificationRepository
	Stats         *StatsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool),
		Tokens:        NewTokenRepository(pool),
		Profiles:      NewProfileRepository(pool),
		Sessions:      NewSessionRepository(pool),
		Webinars:      NewWebinarRepository(pool),
		Jobs:          NewJobRepository(pool),
		Forum:         NewForumRepository(pool),
		Documents:     NewDocumentRepository(pool),
		Events:        NewEventRepository(pool),
		Notifications: NewNotificationRepository(pool),
		Stats:         NewStatsRepository(pool),
	}
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// likePattern wraps s for a substring ILIKE match, escaping wildcards
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
	return "%" + s + "%"
}

// countOf runs SELECT COUNT(*) over the given filtered builder
func countOf(ctx context.Context, q db.Querier, b squirrel.SelectBuilder) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return total, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// idList runs a single-column bigint query
func idList(ctx context.Context, q db.Querier, b squirrel.SelectBuilder) ([]int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build id query: %w", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// idSet is idList as a membership map
func idSet(ctx context.Context, q db.Querier, b squirrel.SelectBuilder, hint int) (map[int64]bool, error) {
	out := make(map[int64]bool, hint)
	if hint == 0 {
		return out, nil
	}
	ids, err := idList(ctx, q, b)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
