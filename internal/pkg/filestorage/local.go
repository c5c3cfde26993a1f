package filestorage

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/alumniconnect/internal/pkg/logger"
)

// LocalStorage saves files below a root directory and serves them from baseURL
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates the root directory when needed
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// BasePath is the root directory on disk
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Check validates a file header against rules without touching disk
func Check(fileHeader *multipart.FileHeader, rules UploadRules) error {
	if fileHeader == nil || fileHeader.Size <= 0 {
		return ErrEmptyFile
	}
	if rules.MaxSize > 0 && fileHeader.Size > rules.MaxSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if len(rules.Extensions) > 0 && !slices.Contains(rules.Extensions, ext) {
		return ErrUnsupportedType
	}
	return nil
}

// Save writes the upload under subPath with a random name
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subPath string, rules UploadRules) (*StoredFile, error) {
	if err := Check(fileHeader, rules); err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(ls.basePath, filepath.Clean("/"+subPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := uuid.NewString() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, fileHeader.Size+1))
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}
	if rules.MaxSize > 0 && written > rules.MaxSize {
		_ = os.Remove(dstPath)
		return nil, ErrFileTooLarge
	}

	rel := filepath.ToSlash(filepath.Join(strings.Trim(filepath.Clean("/"+subPath), "/"), name))

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			mimeType = byExt
		}
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("savedAs", rel).Int64("size", written).Msg("File saved")
	return &StoredFile{
		Path:     rel,
		URL:      ls.baseURL + "/" + rel,
		FileName: filepath.Base(fileHeader.Filename),
		Size:     written,
		MimeType: mimeType,
	}, nil
}

// Delete removes a stored file; missing files are not an error
func (ls *LocalStorage) Delete(path string) error {
	if path == "" {
		return nil
	}
	full, err := ls.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", full).Msg("File to delete does not exist")
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	logger.Info().Str("path", full).Msg("File deleted")
	return nil
}

// resolve maps a relative path into basePath, rejecting escapes
func (ls *LocalStorage) resolve(path string) (string, error) {
	cleaned := strings.TrimPrefix(filepath.Clean("/"+path), "/")
	if cleaned == "" {
		return "", fmt.Errorf("invalid file path: %s", path)
	}
	return filepath.Join(ls.basePath, cleaned), nil
}
