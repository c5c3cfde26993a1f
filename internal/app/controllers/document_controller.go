package controllers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/app/services"
	"github.com/yigit/alumniconnect/internal/middleware"
)

// DocumentService stores and reviews member documents
type DocumentService interface {
	Upload(ctx context.Context, actor services.Actor, req *dto.UploadDocumentRequest, file *multipart.FileHeader) (*models.Document, error)
	ListMine(ctx context.Context, actor services.Actor, req dto.DocumentFilterRequest) (*dto.ListResponse[models.Document], error)
	ListAll(ctx context.Context, actor services.Actor, req dto.DocumentFilterRequest) (*dto.ListResponse[models.Document], error)
	Get(ctx context.Context, actor services.Actor, id int64) (*models.Document, error)
	Delete(ctx context.Context, actor services.Actor, id int64) error
	Review(ctx context.Context, actor services.Actor, id int64, req *dto.ReviewDocumentRequest) (*models.Document, error)
}

// DocumentController handles document endpoints
type DocumentController struct {
	documentService DocumentService
	logger          zerolog.Logger
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService DocumentService, logger zerolog.Logger) *DocumentController {
	return &DocumentController{documentService: documentService, logger: logger}
}

// UploadDocument handles a multipart document upload
// @Summary Upload a document for review
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param docType formData string true "resume, transcript, degree_certificate, id_proof or other"
// @Param file formData file true "File (pdf, png, jpeg, doc, docx; max 10MB)"
// @Success 201 {object} dto.APIResponse{data=models.Document}
// @Failure 400 {object} dto.ErrorResponse "Invalid file"
// @Router /documents [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	var req dto.UploadDocumentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "File is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	doc, err := c.documentService.Upload(ctx.Request.Context(), actor(ctx), &req, file)
	if err != nil {
		c.logger.Warn().Err(err).Str("fileName", file.Filename).Msg("Document upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, doc)
}

// ListMyDocuments
// @Summary The caller's documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[models.Document]}
// @Router /documents [get]
func (c *DocumentController) ListMyDocuments(ctx *gin.Context) {
	var req dto.DocumentFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.documentService.ListMine(ctx.Request.Context(), actor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// ListAllDocuments
// @Summary All documents (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[models.Document]}
// @Router /admin/documents [get]
func (c *DocumentController) ListAllDocuments(ctx *gin.Context) {
	var req dto.DocumentFilterRequest
	if !bindQuery(ctx, &req) {
		return
	}
	list, err := c.documentService.ListAll(ctx.Request.Context(), actor(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// GetDocument
// @Summary Get a document (owner or admin)
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse{data=models.Document}
// @Router /documents/{id} [get]
func (c *DocumentController) GetDocument(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	doc, err := c.documentService.Get(ctx.Request.Context(), actor(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, doc)
}

// DeleteDocument
// @Summary Delete own document and its file
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /documents/{id} [delete]
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.documentService.Delete(ctx.Request.Context(), actor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Document deleted"})
}

// ReviewDocument
// @Summary Approve or reject a pending document (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param request body dto.ReviewDocumentRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.Document}
// @Router /admin/documents/{id}/review [post]
func (c *DocumentController) ReviewDocument(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ReviewDocumentRequest
	if !bindJSON(ctx, &req) {
		return
	}
	doc, err := c.documentService.Review(ctx.Request.Context(), actor(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, doc)
}
