package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/filestorage"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
	"github.com/yigit/alumniconnect/internal/pkg/sanitize"
)

// DocumentService handles uploads and the admin review queue
type DocumentService struct {
	documentRepo DocumentStore
	storage      filestorage.FileStorage
	notifier     Notifier
	publisher    Publisher
	logger       zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(documentRepo DocumentStore, storage filestorage.FileStorage, notifier Notifier, publisher Publisher, logger zerolog.Logger) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		storage:      storage,
		notifier:     notifier,
		publisher:    publisher,
		logger:       logger,
	}
}

// Upload stores the file and records it as pending review
func (s *DocumentService) Upload(ctx context.Context, actor Actor, req *dto.UploadDocumentRequest, file *multipart.FileHeader) (*models.Document, error) {
	stored, err := s.storage.Save(file, "documents/"+strconv.FormatInt(actor.UserID, 10), filestorage.DocumentRules)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		OwnerID:  actor.UserID,
		Title:    sanitize.PlainText(req.Title),
		DocType:  models.DocumentType(req.DocType),
		FileName: stored.FileName,
		FilePath: stored.Path,
		FileURL:  stored.URL,
		FileSize: stored.Size,
		MimeType: stored.MimeType,
		Status:   models.DocumentPending,
	}
	if _, err := s.documentRepo.Create(ctx, doc); err != nil {
		// Do not leave an orphaned file behind
		if delErr := s.storage.Delete(stored.Path); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", stored.Path).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().Int64("documentID", doc.ID).Int64("ownerID", actor.UserID).Str("type", req.DocType).Msg("Document uploaded")
	return doc, nil
}

// ListMine returns a page of the caller's documents
func (s *DocumentService) ListMine(ctx context.Context, actor Actor, req dto.DocumentFilterRequest) (*dto.ListResponse[models.Document], error) {
	return s.list(ctx, &actor.UserID, req)
}

// ListAll returns a page of every document; admin only
func (s *DocumentService) ListAll(ctx context.Context, actor Actor, req dto.DocumentFilterRequest) (*dto.ListResponse[models.Document], error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can list all documents")
	}
	return s.list(ctx, nil, req)
}

func (s *DocumentService) list(ctx context.Context, ownerID *int64, req dto.DocumentFilterRequest) (*dto.ListResponse[models.Document], error) {
	filter := models.DocumentFilter{OwnerID: ownerID}
	if req.Status != "" {
		status := models.DocumentStatus(req.Status)
		filter.Status = &status
	}
	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.PageSize)
	docs, total, err := s.documentRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := helpers.NewListResponse(docs, total, req.Page, req.PageSize)
	return &resp, nil
}

// Get returns a document to its owner or an admin
func (s *DocumentService) Get(ctx context.Context, actor Actor, id int64) (*models.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("you cannot access this document")
	}
	return doc, nil
}

// Delete removes the caller's document and its file
func (s *DocumentService) Delete(ctx context.Context, actor Actor, id int64) error {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(doc.FilePath); err != nil {
		s.logger.Error().Err(err).Int64("documentID", id).Msg("Failed to delete document file")
	}
	return nil
}

// Review approves or rejects a pending document and tells the owner
func (s *DocumentService) Review(ctx context.Context, actor Actor, id int64, req *dto.ReviewDocumentRequest) (*models.Document, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can review documents")
	}
	status := models.DocumentStatus(req.Status)
	if status != models.DocumentApproved && status != models.DocumentRejected {
		return nil, apperrors.NewValidationError("status", "status must be approved or rejected")
	}

	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentPending {
		return nil, apperrors.NewTransitionError(string(doc.Status), string(status))
	}

	note := helpers.OptionalString(sanitize.PlainText(req.Note))
	if err := s.documentRepo.Review(ctx, id, status, note, actor.UserID); err != nil {
		return nil, err
	}
	doc.Status, doc.ReviewNote, doc.ReviewedBy = status, note, &actor.UserID

	msg := fmt.Sprintf("Your document \"%s\" was %s", doc.Title, status)
	if note != nil {
		msg += ": " + *note
	}
	s.notifier.Notify(ctx, models.Notification{
		UserID:  doc.OwnerID,
		Type:    models.NotifyDocumentReviewed,
		Title:   "Document " + strings.ToLower(string(status)),
		Message: msg,
		Link:    fmt.Sprintf("/documents/%d", doc.ID),
	})
	s.publisher.Publish([]int64{doc.OwnerID}, realtime.RowChange("documents", realtime.ActionUpdate, doc.ID, doc))

	return doc, nil
}
