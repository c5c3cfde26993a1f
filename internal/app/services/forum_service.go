package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
	"github.com/yigit/alumniconnect/internal/pkg/sanitize"
)

// DefaultForumCategory is applied to posts created without a category
const DefaultForumCategory = "general"

// ForumService runs the discussion forum
type ForumService struct {
	forumRepo ForumStore
	userRepo  UserStore
	notifier  Notifier
	publisher Publisher
	logger    zerolog.Logger
}

// NewForumService creates a new ForumService
func NewForumService(forumRepo ForumStore, userRepo UserStore, notifier Notifier, publisher Publisher, logger zerolog.Logger) *ForumService {
	return &ForumService{
		forumRepo: forumRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

func normalizeCategory(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return DefaultForumCategory
	}
	return c
}

// CreatePost opens a thread
func (s *ForumService) CreatePost(ctx context.Context, actor Actor, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	content := sanitize.RichText(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", "content is required")
	}

	p := &models.ForumPost{
		AuthorID: actor.UserID,
		Title:    sanitize.PlainText(req.Title),
		Content:  content,
		Category: normalizeCategory(req.Category),
		Tags:     helpers.CleanList(req.Tags),
	}
	if _, err := s.forumRepo.CreatePost(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("postID", p.ID).Int64("authorID", actor.UserID).Msg("Forum post created")
	return s.respondPost(ctx, actor, p)
}

// GetPost returns a thread with its replies
func (s *ForumService) GetPost(ctx context.Context, actor Actor, id int64) (*dto.PostDetailResponse, error) {
	p, err := s.forumRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post, err := s.respondPost(ctx, actor, p)
	if err != nil {
		return nil, err
	}

	replies, err := s.forumRepo.ListReplies(ctx, id)
	if err != nil {
		return nil, err
	}
	authorIDs := make([]int64, 0, len(replies))
	for _, r := range replies {
		authorIDs = append(authorIDs, r.AuthorID)
	}
	users, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	detail := &dto.PostDetailResponse{PostResponse: *post, Replies: make([]dto.ReplyResponse, 0, len(replies))}
	for _, r := range replies {
		detail.Replies = append(detail.Replies, dto.ReplyResponse{ForumReply: r, Author: dto.NewUserSummary(users[r.AuthorID])})
	}
	return detail, nil
}

// ListPosts returns a page of threads, pinned first
func (s *ForumService) ListPosts(ctx context.Context, actor Actor, req dto.ForumFilterRequest) (*dto.ListResponse[dto.PostResponse], error) {
	filter := models.ForumFilter{Search: strings.TrimSpace(req.Search)}
	if req.Category != "" {
		filter.Category = normalizeCategory(req.Category)
	}

	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.PageSize)
	posts, total, err := s.forumRepo.ListPosts(ctx, filter, req.Sort, limit, offset)
	if err != nil {
		return nil, err
	}

	items, err := s.respondPosts(ctx, actor, posts)
	if err != nil {
		return nil, err
	}
	resp := helpers.NewListResponse(items, total, req.Page, req.PageSize)
	return &resp, nil
}

// UpdatePost edits a thread; author or admin only
func (s *ForumService) UpdatePost(ctx context.Context, actor Actor, id int64, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	p, err := s.moderated(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = sanitize.PlainText(*req.Title)
	}
	if req.Content != nil {
		content := sanitize.RichText(*req.Content)
		if content == "" {
			return nil, apperrors.NewValidationError("content", "content is required")
		}
		p.Content = content
	}
	if req.Category != nil {
		p.Category = normalizeCategory(*req.Category)
	}
	if req.Tags != nil {
		p.Tags = helpers.CleanList(req.Tags)
	}

	if err := s.forumRepo.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return s.respondPost(ctx, actor, p)
}

// DeletePost removes a thread; author or admin only
func (s *ForumService) DeletePost(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.moderated(ctx, actor, id); err != nil {
		return err
	}
	if err := s.forumRepo.DeletePost(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("postID", id).Int64("by", actor.UserID).Msg("Forum post deleted")
	return nil
}

// SetPinned pins or unpins a thread; admin only
func (s *ForumService) SetPinned(ctx context.Context, actor Actor, id int64, pinned bool) (*dto.PostResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can pin posts")
	}
	if err := s.forumRepo.SetPinned(ctx, id, pinned); err != nil {
		return nil, err
	}
	p, err := s.forumRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respondPost(ctx, actor, p)
}

// Reply adds a reply to a thread and tells its author
func (s *ForumService) Reply(ctx context.Context, actor Actor, postID int64, req *dto.CreateReplyRequest) (*dto.ReplyResponse, error) {
	p, err := s.forumRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	content := sanitize.RichText(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", "content is required")
	}

	r := &models.ForumReply{PostID: postID, AuthorID: actor.UserID, Content: content}
	if _, err := s.forumRepo.CreateReply(ctx, r); err != nil {
		return nil, err
	}

	if p.AuthorID != actor.UserID {
		s.notifier.Notify(ctx, models.Notification{
			UserID:  p.AuthorID,
			Type:    models.NotifyForumReply,
			Title:   "New reply",
			Message: fmt.Sprintf("Someone replied to \"%s\"", p.Title),
			Link:    fmt.Sprintf("/forum/%d", p.ID),
		})
	}
	s.publisher.Publish([]int64{p.AuthorID}, realtime.RowChange("forum_replies", realtime.ActionInsert, r.ID, r))

	author, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.ReplyResponse{ForumReply: *r, Author: dto.NewUserSummary(author)}, nil
}

// DeleteReply removes a reply; its author, the post author or an admin
func (s *ForumService) DeleteReply(ctx context.Context, actor Actor, replyID int64) error {
	r, err := s.forumRepo.GetReply(ctx, replyID)
	if err != nil {
		return err
	}
	if r.AuthorID != actor.UserID && !actor.IsAdmin() {
		p, err := s.forumRepo.GetPost(ctx, r.PostID)
		if err != nil {
			return err
		}
		if p.AuthorID != actor.UserID {
			return apperrors.NewForbiddenError("you cannot delete this reply")
		}
	}
	return s.forumRepo.DeleteReply(ctx, r)
}

// ToggleLike flips the caller's like on a post
func (s *ForumService) ToggleLike(ctx context.Context, actor Actor, postID int64) (*dto.LikeResponse, error) {
	liked, count, err := s.forumRepo.ToggleLike(ctx, postID, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: liked, LikesCount: count}, nil
}

func (s *ForumService) moderated(ctx context.Context, actor Actor, id int64) (*models.ForumPost, error) {
	p, err := s.forumRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only the author can change this post")
	}
	return p, nil
}

func (s *ForumService) respondPost(ctx context.Context, actor Actor, p *models.ForumPost) (*dto.PostResponse, error) {
	items, err := s.respondPosts(ctx, actor, []models.ForumPost{*p})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *ForumService) respondPosts(ctx context.Context, actor Actor, posts []models.ForumPost) ([]dto.PostResponse, error) {
	ids := make([]int64, 0, len(posts))
	authors := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		authors = append(authors, p.AuthorID)
	}

	liked, err := s.forumRepo.LikedPostIDs(ctx, actor.UserID, ids)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ctx, authors)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, dto.PostResponse{ForumPost: p, Author: dto.NewUserSummary(users[p.AuthorID]), LikedByMe: liked[p.ID]})
	}
	return out, nil
}
