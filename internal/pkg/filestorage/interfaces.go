package filestorage

import (
	"mime/multipart"

	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
)

// Upload errors
var (
	ErrEmptyFile       = apperrors.NewCustomError(apperrors.ErrValidationFailed, "uploaded file is empty")
	ErrFileTooLarge    = apperrors.NewCustomError(apperrors.ErrValidationFailed, "uploaded file exceeds the size limit")
	ErrUnsupportedType = apperrors.NewCustomError(apperrors.ErrValidationFailed, "file type is not allowed")
)

// UploadRules bounds what a caller accepts for one kind of upload
type UploadRules struct {
	MaxSize    int64
	Extensions []string // lowercase, with leading dot
}

// DocumentRules applies to verification documents
var DocumentRules = UploadRules{
	MaxSize:    10 << 20,
	Extensions: []string{".pdf", ".png", ".jpg", ".jpeg", ".doc", ".docx"},
}

// AvatarRules applies to profile pictures
var AvatarRules = UploadRules{
	MaxSize:    2 << 20,
	Extensions: []string{".png", ".jpg", ".jpeg", ".webp"},
}

// StoredFile describes a file after it has been written to storage
type StoredFile struct {
	Path     string // relative to the storage root
	URL      string
	FileName string // original client file name
	Size     int64
	MimeType string
}

// FileStorage stores uploaded files
type FileStorage interface {
	Save(fileHeader *multipart.FileHeader, subPath string, rules UploadRules) (*StoredFile, error)
	Delete(path string) error
}
