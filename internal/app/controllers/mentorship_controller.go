package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// MentorshipService books and moves mentorship sessions through their lifecycle
type MentorshipService interface {
	Request(ctx context.Context, actor services.Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	List(ctx context.Context, actor services.Actor, req dto.SessionFilterRequest) (*dto.ListResponse[dto.SessionResponse], error)
	Get(ctx context.Context, actor services.Actor, id int64) (*dto.SessionResponse, error)
	Accept(ctx context.Context, actor services.Actor, id int64, req *dto.AcceptSessionRequest) (*dto.SessionResponse, error)
	Cancel(ctx context.Context, actor services.Actor, id int64, req *dto.CancelSessionRequest) (*dto.SessionResponse, error)
	Complete(ctx context.Context, actor services.Actor, id int64) (*dto.SessionResponse, error)
	Feedback(ctx context.Context, actor services.Actor, id int64, req *dto.SessionFeedbackRequest) (*dto.SessionResponse, error)
}

// MentorshipController handles mentorship session endpoints
type MentorshipController struct {
	mentorshipService MentorshipService
	logger            zerolog.Logger
}

// NewMentorshipController creates a new MentorshipController
func NewMentorshipController(mentorshipService MentorshipService, logger zerolog.Logger) *MentorshipController {
	return &MentorshipController{mentorshipService: mentorshipService, logger: logger}
}

// RequestSession
// @Summary Request a mentorship session with an alumni
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSessionRequest true "Session request"
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Only students may request"
// @Failure 409 {object} dto.ErrorResponse "Alumni unavailable"
// @Router /sessions [post]
func (c *MentorshipController) RequestSession(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindJSON(ctx, &req) {
		return
	}
	session, err := c.mentorshipService.Request(ctx.Request.Context(), actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("sessionID", session.ID).Int64("alumniID", session.AlumniID).Msg("Mentorship session requested")
	respond(ctx, http.StatusCreated, session)
}

// ListSessions
// @Summary List the caller's sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, accepted, completed or cancelled"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.SessionResponse]}
// @Router /sessions [get]
func (c *MentorshipController) ListSessions(ctx *gin.Context) {
	var req dto.SessionFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.mentorshipService.List(ctx.Request.Context(), actor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// GetSession
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Router /sessions/{id} [get]
func (c *MentorshipController) GetSession(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	session, err := c.mentorshipService.Get(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, session)
}

// AcceptSession
// @Summary Accept a pending session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.AcceptSessionRequest false "Meeting link"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Failure 409 {object} dto.ErrorResponse "Invalid transition or overlapping session"
// @Router /sessions/{id}/accept [post]
func (c *MentorshipController) AcceptSession(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AcceptSessionRequest
	if ctx.Request.ContentLength != 0 && !bindJSON(ctx, &req) {
		return
	}
	session, err := c.mentorshipService.Accept(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, session)
}

// CancelSession
// @Summary Reject or withdraw a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.CancelSessionRequest false "Reason"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Router /sessions/{id}/cancel [post]
func (c *MentorshipController) CancelSession(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CancelSessionRequest
	if ctx.Request.ContentLength != 0 && !bindJSON(ctx, &req) {
		return
	}
	session, err := c.mentorshipService.Cancel(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, session)
}

// CompleteSession
// @Summary Mark an accepted session completed
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Router /sessions/{id}/complete [post]
func (c *MentorshipController) CompleteSession(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	session, err := c.mentorshipService.Complete(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, session)
}

// SubmitFeedback
// @Summary Rate a completed session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.SessionFeedbackRequest true "Rating and feedback"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Router /sessions/{id}/feedback [post]
func (c *MentorshipController) SubmitFeedback(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.SessionFeedbackRequest
	if !bindJSON(ctx, &req) {
		return
	}
	session, err := c.mentorshipService.Feedback(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, session)
}
