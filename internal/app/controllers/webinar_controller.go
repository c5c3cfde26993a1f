package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// WebinarService schedules webinars and manages registrations
type WebinarService interface {
	Create(ctx context.Context, actor services.Actor, req *dto.CreateWebinarRequest) (*dto.WebinarResponse, error)
	Get(ctx context.Context, actor services.Actor, id int64) (*dto.WebinarResponse, error)
	List(ctx context.Context, actor services.Actor, req dto.WebinarFilterRequest) (*dto.ListResponse[dto.WebinarResponse], error)
	Update(ctx context.Context, actor services.Actor, id int64, req *dto.UpdateWebinarRequest) (*dto.WebinarResponse, error)
	Cancel(ctx context.Context, actor services.Actor, id int64) (*dto.WebinarResponse, error)
	Register(ctx context.Context, actor services.Actor, id int64) (*dto.WebinarResponse, error)
	Unregister(ctx context.Context, actor services.Actor, id int64) error
	Registrants(ctx context.Context, actor services.Actor, id int64) ([]dto.UserSummary, error)
}

// WebinarController handles webinar endpoints
type WebinarController struct {
	webinarService WebinarService
}

// NewWebinarController creates a new WebinarController
func NewWebinarController(webinarService WebinarService) *WebinarController {
	return &WebinarController{webinarService: webinarService}
}

// CreateWebinar
// @Summary Schedule a webinar
// @Tags webinars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateWebinarRequest true "Webinar"
// @Success 201 {object} dto.APIResponse{data=dto.WebinarResponse}
// @Router /webinars [post]
func (c *WebinarController) CreateWebinar(ctx *gin.Context) {
	var req dto.CreateWebinarRequest
	if !bindJSON(ctx, &req) {
		return
	}
	webinar, err := c.webinarService.Create(ctx.Request.Context(), actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, webinar)
}

// ListWebinars
// @Summary List webinars
// @Tags webinars
// @Produce json
// @Security BearerAuth
// @Param upcoming query bool false "Only upcoming, soonest first"
// @Param hostId query int false "Host"
// @Param status query string false "scheduled, cancelled or completed"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.WebinarResponse]}
// @Router /webinars [get]
func (c *WebinarController) ListWebinars(ctx *gin.Context) {
	var req dto.WebinarFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.webinarService.List(ctx.Request.Context(), actor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// GetWebinar
// @Summary Get a webinar
// @Tags webinars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Webinar ID"
// @Success 200 {object} dto.APIResponse{data=dto.WebinarResponse}
// @Router /webinars/{id} [get]
func (c *WebinarController) GetWebinar(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	webinar, err := c.webinarService.Get(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, webinar)
}

// UpdateWebinar
// @Summary Update a webinar
// @Tags webinars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Webinar ID"
// @Param request body dto.UpdateWebinarRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=dto.WebinarResponse}
// @Router /webinars/{id} [put]
func (c *WebinarController) UpdateWebinar(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateWebinarRequest
	if !bindJSON(ctx, &req) {
		return
	}
	webinar, err := c.webinarService.Update(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, webinar)
}

// CancelWebinar
// @Summary Cancel a webinar and notify registrants
// @Tags webinars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Webinar ID"
// @Success 200 {object} dto.APIResponse{data=dto.WebinarResponse}
// @Router /webinars/{id}/cancel [post]
func (c *WebinarController) CancelWebinar(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	webinar, err := c.webinarService.Cancel(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, webinar)
}

// Register
// @Summary Register for a webinar
// @Tags webinars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Webinar ID"
// @Success 200 {object} dto.APIResponse{data=dto.WebinarResponse}
// @Failure 409 {object} dto.ErrorResponse "Full, already registered, cancelled or started"
// @Router /webinars/{id}/register [post]
func (c *WebinarController) Register(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	webinar, err := c.webinarService.Register(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, webinar)
}

// Unregister
// @Summary Give up a webinar seat
// @Tags webinars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Webinar ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /webinars/{id}/register [delete]
func (c *WebinarController) Unregister(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.webinarService.Unregister(ctx.Request.Context(), actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Registration removed"})
}

// Registrants
// @Summary List registrants (host or admin)
// @Tags webinars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Webinar ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserSummary}
// @Router /webinars/{id}/registrants [get]
func (c *WebinarController) Registrants(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	users, err := c.webinarService.Registrants(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, users)
}
