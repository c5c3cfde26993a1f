package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// ForumService manages discussion posts, replies and likes
type ForumService interface {
	CreatePost(ctx context.Context, actor services.Actor, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, actor services.Actor, id int64) (*dto.PostDetailResponse, error)
	ListPosts(ctx context.Context, actor services.Actor, req dto.ForumFilterRequest) (*dto.ListResponse[dto.PostResponse], error)
	UpdatePost(ctx context.Context, actor services.Actor, id int64, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, actor services.Actor, id int64) error
	SetPinned(ctx context.Context, actor services.Actor, id int64, pinned bool) (*dto.PostResponse, error)
	Reply(ctx context.Context, actor services.Actor, postID int64, req *dto.CreateReplyRequest) (*dto.ReplyResponse, error)
	DeleteReply(ctx context.Context, actor services.Actor, replyID int64) error
	ToggleLike(ctx context.Context, actor services.Actor, postID int64) (*dto.LikeResponse, error)
}

// ForumController handles forum endpoints
type ForumController struct {
	forumService ForumService
}

// NewForumController creates a new ForumController
func NewForumController(forumService ForumService) *ForumController {
	return &ForumController{forumService: forumService}
}

// CreatePost
// @Summary Start a discussion
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse}
// @Router /forum/posts [post]
func (c *ForumController) CreatePost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if !bindJSON(ctx, &req) {
		return
	}
	post, err := c.forumService.CreatePost(ctx.Request.Context(), actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, post)
}

// ListPosts
// @Summary List posts, pinned first
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category"
// @Param search query string false "Title or content"
// @Param sort query string false "recent or popular"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.PostResponse]}
// @Router /forum/posts [get]
func (c *ForumController) ListPosts(ctx *gin.Context) {
	var req dto.ForumFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.forumService.ListPosts(ctx.Request.Context(), actor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// GetPost
// @Summary A post with its replies
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostDetailResponse}
// @Router /forum/posts/{id} [get]
func (c *ForumController) GetPost(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	post, err := c.forumService.GetPost(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, post)
}

// UpdatePost
// @Summary Edit a post (author or admin)
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.UpdatePostRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse}
// @Router /forum/posts/{id} [put]
func (c *ForumController) UpdatePost(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdatePostRequest
	if !bindJSON(ctx, &req) {
		return
	}
	post, err := c.forumService.UpdatePost(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, post)
}

// DeletePost
// @Summary Delete a post (author or admin)
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /forum/posts/{id} [delete]
func (c *ForumController) DeletePost(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.forumService.DeletePost(ctx.Request.Context(), actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Post deleted"})
}

// PinPost
// @Summary Pin or unpin a post (admin)
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.PinPostRequest true "Pinned flag"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse}
// @Router /forum/posts/{id}/pin [post]
func (c *ForumController) PinPost(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.PinPostRequest
	if !bindJSON(ctx, &req) {
		return
	}
	post, err := c.forumService.SetPinned(ctx.Request.Context(), actor(ctx), id, *req.Pinned)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, post)
}

// Reply
// @Summary Reply to a post
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreateReplyRequest true "Reply"
// @Success 201 {object} dto.APIResponse{data=dto.ReplyResponse}
// @Router /forum/posts/{id}/replies [post]
func (c *ForumController) Reply(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateReplyRequest
	if !bindJSON(ctx, &req) {
		return
	}
	reply, err := c.forumService.Reply(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, reply)
}

// DeleteReply
// @Summary Delete a reply (reply author, post author or admin)
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reply ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /forum/replies/{id} [delete]
func (c *ForumController) DeleteReply(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.forumService.DeleteReply(ctx.Request.Context(), actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Reply deleted"})
}

// ToggleLike
// @Summary Like or unlike a post
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeResponse}
// @Router /forum/posts/{id}/like [post]
func (c *ForumController) ToggleLike(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	like, err := c.forumService.ToggleLike(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, like)
}
