package controllers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// ProfileService is the part of services.ProfileService the controller uses
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
	UpdateStudent(ctx context.Context, actor services.Actor, req *dto.UpdateStudentProfileRequest) (*dto.ProfileResponse, error)
	UpdateAlumni(ctx context.Context, actor services.Actor, req *dto.UpdateAlumniProfileRequest) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, actor services.Actor, file *multipart.FileHeader) (*dto.UserResponse, error)
}

// ProfileController serves user profiles
type ProfileController struct {
	profileService ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{profileService: profileService, logger: logger}
}

// GetProfile returns a user's public profile
// @Summary Get a profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /profiles/{userId} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}
	profile, err := c.profileService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// UpdateStudent updates the caller's student profile
// @Summary Update own student profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateStudentProfileRequest true "Student profile"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Router /profiles/me/student [put]
func (c *ProfileController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}
	profile, err := c.profileService.UpdateStudent(ctx.Request.Context(), actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// UpdateAlumni updates the caller's alumni profile
// @Summary Update own alumni profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateAlumniProfileRequest true "Alumni profile"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Router /profiles/me/alumni [put]
func (c *ProfileController) UpdateAlumni(ctx *gin.Context) {
	var req dto.UpdateAlumniProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}
	profile, err := c.profileService.UpdateAlumni(ctx.Request.Context(), actor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// UploadAvatar stores a new profile picture
// @Summary Upload own avatar
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Router /profiles/me/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "File is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.profileService.UploadAvatar(ctx.Request.Context(), actor(ctx), file)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Avatar upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, user)
}
