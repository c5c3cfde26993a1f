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

var jobColumns = []string{
	"id", "posted_by", "company", "title", "location", "employment_type", "description", "apply_url",
	"referral_available", "deadline", "status", "created_at", "updated_at",
}

var referralColumns = []string{
	"id", "job_id", "student_id", "message", "resume_document_id", "status", "created_at", "updated_at",
}

func scanJob(row pgx.Row, j *models.JobPosting) error {
	return row.Scan(&j.ID, &j.PostedBy, &j.Company, &j.Title, &j.Location, &j.EmploymentType, &j.Description,
		&j.ApplyURL, &j.ReferralAvailable, &j.Deadline, &j.Status, &j.CreatedAt, &j.UpdatedAt)
}

func scanReferral(row pgx.Row, rr *models.ReferralRequest) error {
	return row.Scan(&rr.ID, &rr.JobID, &rr.StudentID, &rr.Message, &rr.ResumeDocumentID, &rr.Status, &rr.CreatedAt, &rr.UpdatedAt)
}

// JobRepository handles job postings and referral requests
type JobRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: pool, sb: newBuilder()}
}

// Create inserts a posting
func (r *JobRepository) Create(ctx context.Context, j *models.JobPosting) (int64, error) {
	sql, args, err := r.sb.Insert("job_postings").
		Columns("posted_by", "company", "title", "location", "employment_type", "description", "apply_url",
			"referral_available", "deadline", "status").
		Values(j.PostedBy, j.Company, j.Title, j.Location, j.EmploymentType, j.Description, j.ApplyURL,
			j.ReferralAvailable, j.Deadline, j.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create job query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return 0, fmt.Errorf("error creating job posting: %w", err)
	}
	return j.ID, nil
}

// GetByID loads a posting
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.JobPosting, error) {
	sql, args, err := r.sb.Select(jobColumns...).From("job_postings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get job query: %w", err)
	}
	var j models.JobPosting
	if err := scanJob(r.db.QueryRow(ctx, sql, args...), &j); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, fmt.Errorf("error retrieving job posting: %w", err)
	}
	return &j, nil
}

// Update persists every editable field of the posting
func (r *JobRepository) Update(ctx context.Context, j *models.JobPosting) error {
	j.UpdatedAt = time.Now()
	sql, args, err := r.sb.Update("job_postings").
		SetMap(map[string]any{
			"company":            j.Company,
			"title":              j.Title,
			"location":           j.Location,
			"employment_type":    j.EmploymentType,
			"description":        j.Description,
			"apply_url":          j.ApplyURL,
			"referral_available": j.ReferralAvailable,
			"deadline":           j.Deadline,
			"status":             j.Status,
			"updated_at":         j.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": j.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update job query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating job posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// List returns postings newest first; free-text filtering happens in the service
func (r *JobRepository) List(ctx context.Context, includeClosed bool, postedBy *int64) ([]models.JobPosting, error) {
	q := r.sb.Select(jobColumns...).From("job_postings").OrderBy("created_at DESC", "id DESC")
	if !includeClosed {
		q = q.Where(squirrel.Eq{"status": models.JobOpen})
	}
	if postedBy != nil {
		q = q.Where(squirrel.Eq{"posted_by": *postedBy})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list jobs query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing job postings: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.JobPosting, 0)
	for rows.Next() {
		var j models.JobPosting
		if err := scanJob(rows, &j); err != nil {
			return nil, fmt.Errorf("error scanning job posting: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CloseExpired closes open postings whose deadline has passed
func (r *JobRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.sb.Update("job_postings").
		Set("status", models.JobClosed).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": models.JobOpen}).
		Where(squirrel.Lt{"deadline": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build close jobs query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error closing expired jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreateReferral inserts a pending referral request; one per student and job
func (r *JobRepository) CreateReferral(ctx context.Context, rr *models.ReferralRequest) (int64, error) {
	sql, args, err := r.sb.Insert("referral_requests").
		Columns("job_id", "student_id", "message", "resume_document_id", "status").
		Values(rr.JobID, rr.StudentID, rr.Message, rr.ResumeDocumentID, rr.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create referral query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&rr.ID, &rr.CreatedAt, &rr.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "referral_requests_job_student_key") {
			return 0, apperrors.ErrReferralExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrJobNotFound
		}
		return 0, fmt.Errorf("error creating referral request: %w", err)
	}
	return rr.ID, nil
}

// GetReferral loads a referral request
func (r *JobRepository) GetReferral(ctx context.Context, id int64) (*models.ReferralRequest, error) {
	sql, args, err := r.sb.Select(referralColumns...).From("referral_requests").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get referral query: %w", err)
	}
	var rr models.ReferralRequest
	if err := scanReferral(r.db.QueryRow(ctx, sql, args...), &rr); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrReferralNotFound
		}
		return nil, fmt.Errorf("error retrieving referral request: %w", err)
	}
	return &rr, nil
}

// UpdateReferralStatus moves a referral from one status to another, failing when it already moved
func (r *JobRepository) UpdateReferralStatus(ctx context.Context, id int64, from, to models.ReferralStatus) error {
	sql, args, err := r.sb.Update("referral_requests").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update referral query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating referral request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewTransitionError(string(from), string(to))
	}
	return nil
}

// ListReferralsByJob returns the requests made on a posting
func (r *JobRepository) ListReferralsByJob(ctx context.Context, jobID int64) ([]models.ReferralRequest, error) {
	return r.listReferrals(ctx, squirrel.Eq{"job_id": jobID})
}

// ListReferralsByStudent returns the requests a student made
func (r *JobRepository) ListReferralsByStudent(ctx context.Context, studentID int64) ([]models.ReferralRequest, error) {
	return r.listReferrals(ctx, squirrel.Eq{"student_id": studentID})
}

func (r *JobRepository) listReferrals(ctx context.Context, where squirrel.Eq) ([]models.ReferralRequest, error) {
	sql, args, err := r.sb.Select(referralColumns...).From("referral_requests").Where(where).
		OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list referrals query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing referral requests: %w", err)
	}
	defer rows.Close()

	out := make([]models.ReferralRequest, 0)
	for rows.Next() {
		var rr models.ReferralRequest
		if err := scanReferral(rows, &rr); err != nil {
			return nil, fmt.Errorf("error scanning referral request: %w", err)
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
