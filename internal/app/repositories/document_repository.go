package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/dberrors"
)

var documentColumns = []string{
	"id", "owner_id", "title", "doc_type", "file_name", "file_path", "file_url", "file_size", "mime_type",
	"status", "review_note", "reviewed_by", "created_at", "updated_at",
}

func scanDocument(row pgx.Row, d *models.Document) error {
	return row.Scan(&d.ID, &d.OwnerID, &d.Title, &d.DocType, &d.FileName, &d.FilePath, &d.FileURL, &d.FileSize,
		&d.MimeType, &d.Status, &d.ReviewNote, &d.ReviewedBy, &d.CreatedAt, &d.UpdatedAt)
}

// DocumentRepository handles uploaded document metadata
type DocumentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool, sb: newBuilder()}
}

// Create stores the metadata of a saved file
func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) (int64, error) {
	sql, args, err := r.sb.Insert("documents").
		Columns("owner_id", "title", "doc_type", "file_name", "file_path", "file_url", "file_size", "mime_type", "status").
		Values(d.OwnerID, d.Title, d.DocType, d.FileName, d.FilePath, d.FileURL, d.FileSize, d.MimeType, d.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create document query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return 0, fmt.Errorf("error creating document: %w", err)
	}
	return d.ID, nil
}

// GetByID loads a document
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	sql, args, err := r.sb.Select(documentColumns...).From("documents").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get document query: %w", err)
	}
	var d models.Document
	if err := scanDocument(r.db.QueryRow(ctx, sql, args...), &d); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error retrieving document: %w", err)
	}
	return &d, nil
}

// List returns a page of documents, newest first
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter, limit, offset uint64) ([]models.Document, int64, error) {
	where := squirrel.And{}
	if filter.OwnerID != nil {
		where = append(where, squirrel.Eq{"owner_id": *filter.OwnerID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": *filter.Status})
	}

	total, err := countOf(ctx, r.db, r.sb.Select("COUNT(*)").From("documents").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select(documentColumns...).From("documents").Where(where).
		OrderBy("created_at DESC", "id DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list documents query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, 0, fmt.Errorf("error scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, total, rows.Err()
}

// Delete removes a document row
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("documents").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete document query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

// Review records an admin decision on a pending document
func (r *DocumentRepository) Review(ctx context.Context, id int64, status models.DocumentStatus, note *string, reviewerID int64) error {
	sql, args, err := r.sb.Update("documents").
		SetMap(map[string]any{
			"status":      status,
			"review_note": note,
			"reviewed_by": reviewerID,
			"updated_at":  time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "status": models.DocumentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build review document query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error reviewing document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewTransitionError(string(models.DocumentPending), string(status))
	}
	return nil
}
