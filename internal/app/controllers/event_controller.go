package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// EventService manages platform events and RSVPs
type EventService interface {
	Create(ctx context.Context, actor services.Actor, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	Get(ctx context.Context, actor services.Actor, id int64) (*dto.EventResponse, error)
	List(ctx context.Context, actor services.Actor, req dto.EventFilterRequest) (*dto.ListResponse[dto.EventResponse], error)
	Update(ctx context.Context, actor services.Actor, id int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, actor services.Actor, id int64) error
	RSVP(ctx context.Context, actor services.Actor, id int64) (*dto.EventResponse, error)
	CancelRSVP(ctx context.Context, actor services.Actor, id int64) error
}

// EventController handles event endpoints
type EventController struct {
	eventService EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService EventService) *EventController {
	return &EventController{eventService: eventService}
}

// CreateEvent
// @Summary Create an event (admin)
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}
	event, err := c.eventService.Create(ctx.Request.Context(), actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, event)
}

// ListEvents
// @Summary List events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param upcoming query bool false "Only events that have not ended"
// @Param category query string false "Category"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.EventResponse]}
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	var req dto.EventFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.eventService.List(ctx.Request.Context(), actor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

func (c *EventController) GetEvent(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	event, err := c.eventService.Get(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, event)
}

func (c *EventController) UpdateEvent(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}
	event, err := c.eventService.Update(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, event)
}

func (c *EventController) DeleteEvent(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.eventService.Delete(ctx.Request.Context(), actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Event deleted"})
}

// RSVP
// @Summary Attend an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 409 {object} dto.ErrorResponse "Already attending or event ended"
// @Router /events/{id}/rsvp [post]
func (c *EventController) RSVP(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	event, err := c.eventService.RSVP(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, event)
}

func (c *EventController) CancelRSVP(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.eventService.CancelRSVP(ctx.Request.Context(), actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "RSVP cancelled"})
}
