package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// DirectoryService lists alumni and students
type DirectoryService interface {
	ListAlumni(ctx context.Context, req dto.AlumniDirectoryRequest) (*dto.ListResponse[dto.AlumniCard], error)
	ListStudents(ctx context.Context, req dto.StudentDirectoryRequest) (*dto.ListResponse[dto.StudentCard], error)
}

// DirectoryController serves the member directories
type DirectoryController struct {
	directoryService DirectoryService
}

// NewDirectoryController creates a new DirectoryController
func NewDirectoryController(directoryService DirectoryService) *DirectoryController {
	return &DirectoryController{directoryService: directoryService}
}

// ListAlumni
// @Summary Search the alumni directory
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, company, title or expertise"
// @Param department query string false "Department"
// @Param industry query string false "Industry"
// @Param batchYear query int false "Batch year"
// @Param verified query bool false "Verified only"
// @Param available query bool false "Available for mentorship"
// @Param sort query string false "batch_desc, batch_asc or name"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.AlumniCard]}
// @Router /directory/alumni [get]
func (c *DirectoryController) ListAlumni(ctx *gin.Context) {
	var req dto.AlumniDirectoryRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.directoryService.ListAlumni(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// ListStudents
// @Summary Search the student directory
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[dto.StudentCard]}
// @Router /directory/students [get]
func (c *DirectoryController) ListStudents(ctx *gin.Context) {
	var req dto.StudentDirectoryRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.directoryService.ListStudents(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}
