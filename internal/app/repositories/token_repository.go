package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/dberrors"
	"github.com/yigit/alumniconnect/internal/pkg/logger"
)

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: pool, sb: newBuilder()}
}

// Create stores a refresh token
func (r *TokenRepository) Create(ctx context.Context, token models.RefreshToken) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expiry_date", "is_revoked").
		Values(token.Token, token.UserID, token.ExpiryDate, false).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_pkey") {
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", token.UserID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// Get loads a refresh token row; expiry and revocation are judged by the caller
func (r *TokenRepository) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	sql, args, err := r.sb.Select("token", "user_id", "expiry_date", "is_revoked", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get token query: %w", err)
	}

	var t models.RefreshToken
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.Token, &t.UserID, &t.ExpiryDate, &t.IsRevoked, &t.CreatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving token: %w", err)
	}
	return &t, nil
}

// Revoke marks one token revoked; returns ErrTokenRevoked when it already was
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token": token, "is_revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, token); err != nil {
			return err
		}
		return apperrors.ErrTokenRevoked
	}
	return nil
}

// RevokeAllForUser revokes every active token of a user
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"user_id": userID, "is_revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke all user tokens query: %w", err)
	}
	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error revoking user tokens: %w", err)
	}
	return nil
}
