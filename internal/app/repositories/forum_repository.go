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

// Forum list orderings
const (
	ForumSortRecent  = "recent"
	ForumSortPopular = "popular"
)

var postColumns = []string{
	"id", "author_id", "title", "content", "category", "tags", "likes_count", "replies_count", "is_pinned",
	"created_at", "updated_at",
}

var replyColumns = []string{"id", "post_id", "author_id", "content", "created_at"}

func scanPost(row pgx.Row, p *models.ForumPost) error {
	return row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.Category, &p.Tags, &p.LikesCount,
		&p.RepliesCount, &p.IsPinned, &p.CreatedAt, &p.UpdatedAt)
}

func scanReply(row pgx.Row, rp *models.ForumReply) error {
	return row.Scan(&rp.ID, &rp.PostID, &rp.AuthorID, &rp.Content, &rp.CreatedAt)
}

// ForumRepository handles posts, replies and likes
type ForumRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewForumRepository creates a new ForumRepository
func NewForumRepository(pool *pgxpool.Pool) *ForumRepository {
	return &ForumRepository{db: pool, sb: newBuilder()}
}

// CreatePost inserts a thread
func (r *ForumRepository) CreatePost(ctx context.Context, p *models.ForumPost) (int64, error) {
	sql, args, err := r.sb.Insert("forum_posts").
		Columns("author_id", "title", "content", "category", "tags").
		Values(p.AuthorID, p.Title, p.Content, p.Category, nonNil(p.Tags)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create post query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return 0, fmt.Errorf("error creating forum post: %w", err)
	}
	return p.ID, nil
}

// GetPost loads a thread
func (r *ForumRepository) GetPost(ctx context.Context, id int64) (*models.ForumPost, error) {
	sql, args, err := r.sb.Select(postColumns...).From("forum_posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}
	var p models.ForumPost
	if err := scanPost(r.db.QueryRow(ctx, sql, args...), &p); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error retrieving forum post: %w", err)
	}
	return &p, nil
}

// UpdatePost persists title, content, category and tags
func (r *ForumRepository) UpdatePost(ctx context.Context, p *models.ForumPost) error {
	p.UpdatedAt = time.Now()
	return r.updatePost(ctx, p.ID, map[string]any{
		"title":      p.Title,
		"content":    p.Content,
		"category":   p.Category,
		"tags":       nonNil(p.Tags),
		"updated_at": p.UpdatedAt,
	})
}

// SetPinned pins or unpins a thread
func (r *ForumRepository) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return r.updatePost(ctx, id, map[string]any{"is_pinned": pinned, "updated_at": time.Now()})
}

func (r *ForumRepository) updatePost(ctx context.Context, id int64, set map[string]any) error {
	sql, args, err := r.sb.Update("forum_posts").SetMap(set).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update post query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating forum post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// DeletePost removes a thread with its replies and likes
func (r *ForumRepository) DeletePost(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("forum_posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete post query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting forum post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// ListPosts returns a page of threads, pinned ones first
func (r *ForumRepository) ListPosts(ctx context.Context, filter models.ForumFilter, sort string, limit, offset uint64) ([]models.ForumPost, int64, error) {
	where := squirrel.And{}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"category": filter.Category})
	}
	if filter.AuthorID != nil {
		where = append(where, squirrel.Eq{"author_id": *filter.AuthorID})
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"content": pattern},
			squirrel.Expr("? = ANY(tags)", filter.Search),
		})
	}

	total, err := countOf(ctx, r.db, r.sb.Select("COUNT(*)").From("forum_posts").Where(where))
	if err != nil {
		return nil, 0, err
	}

	order := []string{"is_pinned DESC", "created_at DESC", "id DESC"}
	if sort == ForumSortPopular {
		order = []string{"is_pinned DESC", "(likes_count + replies_count) DESC", "created_at DESC", "id DESC"}
	}

	sql, args, err := r.sb.Select(postColumns...).From("forum_posts").Where(where).
		OrderBy(order...).Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list posts query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing forum posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.ForumPost, 0)
	for rows.Next() {
		var p models.ForumPost
		if err := scanPost(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("error scanning forum post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// CreateReply inserts a reply and bumps the thread's reply counter
func (r *ForumRepository) CreateReply(ctx context.Context, rp *models.ForumReply) (int64, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("forum_replies").
			Columns("post_id", "author_id", "content").
			Values(rp.PostID, rp.AuthorID, rp.Content).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create reply query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&rp.ID, &rp.CreatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrPostNotFound
			}
			return fmt.Errorf("error creating forum reply: %w", err)
		}
		_, err = tx.Exec(ctx, `UPDATE forum_posts SET replies_count = replies_count + 1 WHERE id = $1`, rp.PostID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return rp.ID, nil
}

// GetReply loads a reply
func (r *ForumRepository) GetReply(ctx context.Context, id int64) (*models.ForumReply, error) {
	sql, args, err := r.sb.Select(replyColumns...).From("forum_replies").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get reply query: %w", err)
	}
	var rp models.ForumReply
	if err := scanReply(r.db.QueryRow(ctx, sql, args...), &rp); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrReplyNotFound
		}
		return nil, fmt.Errorf("error retrieving forum reply: %w", err)
	}
	return &rp, nil
}

// ListReplies returns a thread's replies oldest first
func (r *ForumRepository) ListReplies(ctx context.Context, postID int64) ([]models.ForumReply, error) {
	sql, args, err := r.sb.Select(replyColumns...).From("forum_replies").Where(squirrel.Eq{"post_id": postID}).
		OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list replies query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing forum replies: %w", err)
	}
	defer rows.Close()

	replies := make([]models.ForumReply, 0)
	for rows.Next() {
		var rp models.ForumReply
		if err := scanReply(rows, &rp); err != nil {
			return nil, fmt.Errorf("error scanning forum reply: %w", err)
		}
		replies = append(replies, rp)
	}
	return replies, rows.Err()
}

// DeleteReply removes a reply and decrements the counter
func (r *ForumRepository) DeleteReply(ctx context.Context, rp *models.ForumReply) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM forum_replies WHERE id = $1`, rp.ID)
		if err != nil {
			return fmt.Errorf("error deleting forum reply: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrReplyNotFound
		}
		_, err = tx.Exec(ctx, `UPDATE forum_posts SET replies_count = GREATEST(replies_count - 1, 0) WHERE id = $1`, rp.PostID)
		return err
	})
}

// ToggleLike flips the user's like on a post and returns the new state and count
func (r *ForumRepository) ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error) {
	var liked bool
	var count int
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM forum_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return fmt.Errorf("error removing like: %w", err)
		}
		delta := -1
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx, `INSERT INTO forum_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID); err != nil {
				if dberrors.IsForeignKeyViolation(err) {
					return apperrors.ErrPostNotFound
				}
				return fmt.Errorf("error adding like: %w", err)
			}
			liked, delta = true, 1
		}
		err = tx.QueryRow(ctx,
			`UPDATE forum_posts SET likes_count = GREATEST(likes_count + $1, 0) WHERE id = $2 RETURNING likes_count`,
			delta, postID).Scan(&count)
		if dberrors.IsNoRows(err) {
			return apperrors.ErrPostNotFound
		}
		return err
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// LikedPostIDs returns which of postIDs the user liked
func (r *ForumRepository) LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	return idSet(ctx, r.db, r.sb.Select("post_id").From("forum_likes").
		Where(squirrel.Eq{"user_id": userID, "post_id": postIDs}), len(postIDs))
}
