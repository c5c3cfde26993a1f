package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/filestorage"
)

func TestDocumentService_UploadAndReview(t *testing.T) {
	docs := newFakeDocuments()
	storage := &fakeStorage{}
	notifier := &recordingNotifier{}
	svc := NewDocumentService(docs, storage, notifier, &recordingPublisher{}, testLogger)
	owner := Actor{UserID: 5, Role: models.RoleAlumni}
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	doc, err := svc.Upload(bg, owner, &dto.UploadDocumentRequest{Title: "Degree", DocType: "degree_certificate"},
		fileHeader(t, "degree.PDF", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Equal(t, models.DocumentPending, doc.Status)
	assert.Equal(t, "documents/5/stored.pdf", doc.FilePath)
	assert.Equal(t, "degree.PDF", doc.FileName)

	_, err = svc.Review(bg, owner, doc.ID, &dto.ReviewDocumentRequest{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	reviewed, err := svc.Review(bg, admin, doc.ID, &dto.ReviewDocumentRequest{Status: "rejected", Note: "Blurry scan"})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentRejected, reviewed.Status)
	notes := notifier.to(owner.UserID)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "Blurry scan")

	_, err = svc.Review(bg, admin, doc.ID, &dto.ReviewDocumentRequest{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestDocumentService_UploadRejectsBadFiles(t *testing.T) {
	svc := NewDocumentService(newFakeDocuments(), &fakeStorage{}, &recordingNotifier{}, &recordingPublisher{}, testLogger)
	owner := Actor{UserID: 5, Role: models.RoleStudent}
	req := &dto.UploadDocumentRequest{Title: "Resume", DocType: "resume"}

	_, err := svc.Upload(bg, owner, req, fileHeader(t, "run.exe", []byte("MZ")))
	assert.ErrorIs(t, err, filestorage.ErrUnsupportedType)

	_, err = svc.Upload(bg, owner, req, nil)
	assert.ErrorIs(t, err, filestorage.ErrEmptyFile)
}

func TestDocumentService_AccessAndDelete(t *testing.T) {
	docs := newFakeDocuments()
	storage := &fakeStorage{}
	svc := NewDocumentService(docs, storage, &recordingNotifier{}, &recordingPublisher{}, testLogger)
	owner := Actor{UserID: 5, Role: models.RoleStudent}
	other := Actor{UserID: 6, Role: models.RoleStudent}

	doc, err := svc.Upload(bg, owner, &dto.UploadDocumentRequest{Title: "Resume", DocType: "resume"}, fileHeader(t, "cv.pdf", []byte("%PDF")))
	require.NoError(t, err)

	_, err = svc.Get(bg, other, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.Delete(bg, other, doc.ID), apperrors.ErrPermissionDenied)

	_, err = svc.ListAll(bg, owner, dto.DocumentFilterRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	mine, err := svc.ListMine(bg, owner, dto.DocumentFilterRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)

	require.NoError(t, svc.Delete(bg, owner, doc.ID))
	assert.Equal(t, []string{doc.FilePath}, storage.deleted)
	_, err = svc.Get(bg, owner, doc.ID)
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}
