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

// JobService runs the job board and referral requests
type JobService interface {
	Create(ctx context.Context, actor services.Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	Get(ctx context.Context, id int64) (*dto.JobResponse, error)
	List(ctx context.Context, actor services.Actor, req dto.JobFilterRequest) (*dto.ListResponse[dto.JobResponse], error)
	Update(ctx context.Context, actor services.Actor, id int64, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	Close(ctx context.Context, actor services.Actor, id int64) (*dto.JobResponse, error)
	RequestReferral(ctx context.Context, actor services.Actor, jobID int64, req *dto.CreateReferralRequest) (*dto.ReferralResponse, error)
	ListReferrals(ctx context.Context, actor services.Actor, jobID int64) ([]dto.ReferralResponse, error)
	MyReferrals(ctx context.Context, actor services.Actor) ([]dto.ReferralResponse, error)
	ReviewReferral(ctx context.Context, actor services.Actor, referralID int64, req *dto.ReviewReferralRequest) (*dto.ReferralResponse, error)
}

// JobController handles job board endpoints
type JobController struct {
	jobService JobService
	logger     zerolog.Logger
}

// NewJobController creates a new JobController
func NewJobController(jobService JobService, logger zerolog.Logger) *JobController {
	return &JobController{jobService: jobService, logger: logger}
}

// CreateJob
// @Summary Post a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Job posting"
// @Success 201 {object} dto.APIResponse{data=dto.JobResponse}
// @Router /jobs [post]
func (c *JobController) CreateJob(ctx *gin.Context) {
	var req dto.CreateJobRequest
	if !bindJSON(ctx, &req) {
		return
	}
	job, err := c.jobService.Create(ctx.Request.Context(), actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, job)
}

// ListJobs
// @Summary List job postings, newest first
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param search query string false "Company, title or description"
// @Param type query string false "Employment type"
// @Param location query string false "Location"
// @Param referral query bool false "Referral available"
// @Param mine query bool false "Only my postings"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.JobResponse]}
// @Router /jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	var req dto.JobFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.jobService.List(ctx.Request.Context(), actor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// GetJob
// @Summary Get a job posting
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobResponse}
// @Router /jobs/{id} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	job, err := c.jobService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, job)
}

// UpdateJob
// @Summary Update own job posting
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body dto.UpdateJobRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=dto.JobResponse}
// @Router /jobs/{id} [put]
func (c *JobController) UpdateJob(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateJobRequest
	if !bindJSON(ctx, &req) {
		return
	}
	job, err := c.jobService.Update(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, job)
}

// CloseJob
// @Summary Close own job posting
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.JobResponse}
// @Router /jobs/{id}/close [post]
func (c *JobController) CloseJob(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	job, err := c.jobService.Close(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, job)
}

// RequestReferral
// @Summary Ask the poster for a referral
// @Tags referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body dto.CreateReferralRequest false "Message and resume"
// @Success 201 {object} dto.APIResponse{data=dto.ReferralResponse}
// @Failure 409 {object} dto.ErrorResponse "Already requested or job closed"
// @Router /jobs/{id}/referrals [post]
func (c *JobController) RequestReferral(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateReferralRequest
	if ctx.Request.ContentLength != 0 && !bindJSON(ctx, &req) {
		return
	}
	referral, err := c.jobService.RequestReferral(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("jobID", id).Int64("referralID", referral.ID).Msg("Referral requested")
	respond(ctx, http.StatusCreated, referral)
}

// ListReferrals
// @Summary Referral requests of a posting (poster or admin)
// @Tags referrals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ReferralResponse}
// @Router /jobs/{id}/referrals [get]
func (c *JobController) ListReferrals(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	referrals, err := c.jobService.ListReferrals(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, referrals)
}

// MyReferrals
// @Summary The caller's referral requests
// @Tags referrals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ReferralResponse}
// @Router /referrals/mine [get]
func (c *JobController) MyReferrals(ctx *gin.Context) {
	referrals, err := c.jobService.MyReferrals(ctx.Request.Context(), actor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, referrals)
}

// ReviewReferral
// @Summary Accept or reject a referral request
// @Tags referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Referral ID"
// @Param request body dto.ReviewReferralRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.ReferralResponse}
// @Router /referrals/{id}/review [post]
func (c *JobController) ReviewReferral(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReviewReferralRequest
	if !bindJSON(ctx, &req) {
		return
	}
	referral, err := c.jobService.ReviewReferral(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, referral)
}
