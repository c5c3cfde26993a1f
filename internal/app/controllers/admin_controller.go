package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// AdminService covers user management and platform statistics
type AdminService interface {
	ListUsers(ctx context.Context, req dto.AdminUserFilterRequest) (*dto.ListResponse[dto.UserResponse], error)
	ToggleVerification(ctx context.Context, actor services.Actor, userID int64) (*dto.ToggleResponse, error)
	SetUserStatus(ctx context.Context, actor services.Actor, userID int64, active bool) (*dto.UserResponse, error)
	Stats(ctx context.Context) (*models.PlatformStats, error)
}

// AdminController handles the admin console endpoints
type AdminController struct {
	adminService AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{adminService: adminService, logger: logger}
}

// ListUsers
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "student, alumni or admin"
// @Param search query string false "Name or email"
// @Param active query bool false "Active flag"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.UserResponse]}
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	var req dto.AdminUserFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.adminService.ListUsers(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// ToggleVerification
// @Summary Flip an alumni's verification status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Alumni user ID"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleResponse}
// @Failure 404 {object} dto.ErrorResponse "Alumni not found"
// @Router /admin/alumni/{userId}/verification/toggle [post]
func (c *AdminController) ToggleVerification(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}
	toggled, err := c.adminService.ToggleVerification(ctx.Request.Context(), actor(ctx), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("alumniID", userID).Bool("verified", toggled.Value).Msg("Alumni verification toggled")
	respond(ctx, http.StatusOK, toggled)
}

// SetUserStatus
// @Summary Activate or deactivate a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param request body dto.SetUserStatusRequest true "Active flag"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /admin/users/{userId}/status [post]
func (c *AdminController) SetUserStatus(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}
	var req dto.SetUserStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}
	user, err := c.adminService.SetUserStatus(ctx.Request.Context(), actor(ctx), userID, *req.Active)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user)
}

// Stats
// @Summary Platform counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.PlatformStats}
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.adminService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, stats)
}
