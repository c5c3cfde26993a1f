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
	"github.com/yigit/alumniconnect/internal/pkg/logger"
)

var userColumns = []string{
	"u.id", "u.email", "u.password_hash", "u.full_name", "u.role", "u.is_active",
	"u.avatar_url", "u.last_login_at", "u.created_at", "u.updated_at",
}

func scanUser(row pgx.Row, u *models.User, extra ...any) error {
	dest := append([]any{
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.IsActive,
		&u.AvatarURL, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	}, extra...)
	return row.Scan(dest...)
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool, sb: newBuilder()}
}

// CreateWithProfile inserts the user and its role details in one transaction
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, student *models.StudentDetails, alumni *models.AlumniDetails) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("users").
			Columns("email", "password_hash", "full_name", "role", "is_active").
			Values(user.Email, user.PasswordHash, user.FullName, user.Role, user.IsActive).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create user query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&id, &user.CreatedAt, &user.UpdatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
				return apperrors.ErrEmailAlreadyExists
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		if student != nil {
			student.UserID = id
			if err := upsertStudent(ctx, tx, r.sb, student); err != nil {
				return err
			}
		}
		if alumni != nil {
			alumni.UserID = id
			if err := insertAlumni(ctx, tx, r.sb, alumni); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	user.ID = id
	logger.Info().Int64("userID", id).Str("role", string(user.Role)).Msg("User created")
	return id, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.email": email})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users u").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	var u models.User
	if err := scanUser(r.db.QueryRow(ctx, sql, args...), &u); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return &u, nil
}

// GetByIDs loads users keyed by ID; unknown ids are skipped
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	out := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	sql, args, err := r.sb.Select(userColumns...).From("users u").Where(squirrel.Eq{"u.id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get users query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u := &models.User{}
		if err := scanUser(rows, u); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// List returns a filtered page of users, newest first
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter, limit, offset uint64) ([]models.User, int64, error) {
	where := squirrel.And{}
	if filter.Role != nil {
		where = append(where, squirrel.Eq{"u.role": *filter.Role})
	}
	if filter.Active != nil {
		where = append(where, squirrel.Eq{"u.is_active": *filter.Active})
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		where = append(where, squirrel.Or{squirrel.ILike{"u.full_name": p}, squirrel.ILike{"u.email": p}})
	}

	total, err := countOf(ctx, r.db, r.sb.Select("COUNT(*)").From("users u").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select(userColumns...).From("users u").Where(where).
		OrderBy("u.created_at DESC", "u.id DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// CountByRole counts users with the given role
func (r *UserRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return countOf(ctx, r.db, r.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"role": role}))
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.update(ctx, userID, map[string]any{"last_login_at": at})
}

// UpdateName changes the display name
func (r *UserRepository) UpdateName(ctx context.Context, userID int64, name string) error {
	return r.update(ctx, userID, map[string]any{"full_name": name, "updated_at": time.Now()})
}

// UpdateAvatar sets or clears the avatar URL
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, url *string) error {
	return r.update(ctx, userID, map[string]any{"avatar_url": url, "updated_at": time.Now()})
}

// SetActive enables or disables an account
func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	return r.update(ctx, userID, map[string]any{"is_active": active, "updated_at": time.Now()})
}

func (r *UserRepository) update(ctx context.Context, userID int64, set map[string]any) error {
	sql, args, err := r.sb.Update("users").SetMap(set).Where(squirrel.Eq{"id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating user")
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
