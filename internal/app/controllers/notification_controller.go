package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// NotificationService reads and acknowledges a user's notifications
type NotificationService interface {
	List(ctx context.Context, actor services.Actor, req dto.NotificationFilterRequest) (*dto.ListResponse[models.Notification], error)
	UnreadCount(ctx context.Context, actor services.Actor) (int64, error)
	MarkRead(ctx context.Context, actor services.Actor, id int64) error
	MarkAllRead(ctx context.Context, actor services.Actor) (int64, error)
}

// NotificationController handles notification endpoints
type NotificationController struct {
	notificationService NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListNotifications
// @Summary The caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[models.Notification]}
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	var req dto.NotificationFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.notificationService.List(ctx.Request.Context(), actor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// UnreadCount
// @Summary Number of unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse}
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	n, err := c.notificationService.UnreadCount(ctx.Request.Context(), actor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.UnreadCountResponse{Count: n})
}

func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.notificationService.MarkRead(ctx.Request.Context(), actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Notification marked as read"})
}

func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	n, err := c.notificationService.MarkAllRead(ctx.Request.Context(), actor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.UnreadCountResponse{Count: n})
}
