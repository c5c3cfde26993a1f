package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/db"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/dberrors"
)

var (
	studentColumns = []string{"s.user_id", "s.enrollment_no", "s.department", "s.batch_year", "s.interests"}
	alumniColumns  = []string{
		"a.user_id", "a.company", "a.job_title", "a.department", "a.batch_year", "a.industry", "a.location",
		"a.expertise", "a.linkedin_url", "a.bio", "a.verification_status", "a.available_for_mentorship",
	}
)

func studentDest(d *models.StudentDetails) []any {
	return []any{&d.UserID, &d.EnrollmentNo, &d.Department, &d.BatchYear, &d.Interests}
}

func alumniDest(d *models.AlumniDetails) []any {
	return []any{
		&d.UserID, &d.Company, &d.JobTitle, &d.Department, &d.BatchYear, &d.Industry, &d.Location,
		&d.Expertise, &d.LinkedInURL, &d.Bio, &d.VerificationStatus, &d.AvailableForMentorship,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func upsertStudent(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, d *models.StudentDetails) error {
	sql, args, err := sb.Insert("student_details").
		Columns("user_id", "enrollment_no", "department", "batch_year", "interests").
		Values(d.UserID, d.EnrollmentNo, d.Department, d.BatchYear, nonNil(d.Interests)).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET enrollment_no = EXCLUDED.enrollment_no,
			department = EXCLUDED.department, batch_year = EXCLUDED.batch_year, interests = EXCLUDED.interests`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert student query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error saving student details: %w", err)
	}
	return nil
}

func insertAlumni(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType, d *models.AlumniDetails) error {
	sql, args, err := sb.Insert("alumni_details").
		Columns("user_id", "company", "job_title", "department", "batch_year", "industry", "location",
			"expertise", "linkedin_url", "bio", "verification_status", "available_for_mentorship").
		Values(d.UserID, d.Company, d.JobTitle, d.Department, d.BatchYear, d.Industry, d.Location,
			nonNil(d.Expertise), d.LinkedInURL, d.Bio, d.VerificationStatus, d.AvailableForMentorship).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert alumni query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error saving alumni details: %w", err)
	}
	return nil
}

// ProfileRepository handles student and alumni detail rows
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: pool, sb: newBuilder()}
}

// GetStudent loads student details
func (r *ProfileRepository) GetStudent(ctx context.Context, userID int64) (*models.StudentDetails, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("student_details s").Where(squirrel.Eq{"s.user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}
	var d models.StudentDetails
	if err := r.db.QueryRow(ctx, sql, args...).Scan(studentDest(&d)...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student details: %w", err)
	}
	return &d, nil
}

// GetAlumni loads alumni details
func (r *ProfileRepository) GetAlumni(ctx context.Context, userID int64) (*models.AlumniDetails, error) {
	sql, args, err := r.sb.Select(alumniColumns...).From("alumni_details a").Where(squirrel.Eq{"a.user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get alumni query: %w", err)
	}
	var d models.AlumniDetails
	if err := r.db.QueryRow(ctx, sql, args...).Scan(alumniDest(&d)...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrAlumniNotFound
		}
		return nil, fmt.Errorf("error retrieving alumni details: %w", err)
	}
	return &d, nil
}

// UpsertStudent creates or replaces student details
func (r *ProfileRepository) UpsertStudent(ctx context.Context, d *models.StudentDetails) error {
	return upsertStudent(ctx, r.db, r.sb, d)
}

// UpsertAlumni creates or replaces alumni details; verification is never changed here
func (r *ProfileRepository) UpsertAlumni(ctx context.Context, d *models.AlumniDetails) error {
	sql, args, err := r.sb.Insert("alumni_details").
		Columns("user_id", "company", "job_title", "department", "batch_year", "industry", "location",
			"expertise", "linkedin_url", "bio", "available_for_mentorship").
		Values(d.UserID, d.Company, d.JobTitle, d.Department, d.BatchYear, d.Industry, d.Location,
			nonNil(d.Expertise), d.LinkedInURL, d.Bio, d.AvailableForMentorship).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET company = EXCLUDED.company, job_title = EXCLUDED.job_title,
			department = EXCLUDED.department, batch_year = EXCLUDED.batch_year, industry = EXCLUDED.industry,
			location = EXCLUDED.location, expertise = EXCLUDED.expertise, linkedin_url = EXCLUDED.linkedin_url,
			bio = EXCLUDED.bio, available_for_mentorship = EXCLUDED.available_for_mentorship
			RETURNING verification_status`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert alumni query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&d.VerificationStatus); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error saving alumni details: %w", err)
	}
	return nil
}

// ToggleVerification flips verification_status and returns the new value
func (r *ProfileRepository) ToggleVerification(ctx context.Context, userID int64) (bool, error) {
	sql, args, err := r.sb.Update("alumni_details").
		Set("verification_status", squirrel.Expr("NOT verification_status")).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING verification_status").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build toggle verification query: %w", err)
	}
	var verified bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&verified); err != nil {
		if dberrors.IsNoRows(err) {
			return false, apperrors.ErrAlumniNotFound
		}
		return false, fmt.Errorf("error toggling verification: %w", err)
	}
	return verified, nil
}

// ListAlumniProfiles loads every active alumni with details
func (r *ProfileRepository) ListAlumniProfiles(ctx context.Context) ([]models.AlumniProfile, error) {
	sql, args, err := r.sb.Select(append(append([]string{}, userColumns...), alumniColumns...)...).
		From("users u").
		Join("alumni_details a ON a.user_id = u.id").
		Where(squirrel.Eq{"u.is_active": true, "u.role": models.RoleAlumni}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list alumni query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing alumni: %w", err)
	}
	defer rows.Close()

	out := make([]models.AlumniProfile, 0)
	for rows.Next() {
		var p models.AlumniProfile
		if err := scanUser(rows, &p.User, alumniDest(&p.Details)...); err != nil {
			return nil, fmt.Errorf("error scanning alumni: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListStudentProfiles loads every active student with details
func (r *ProfileRepository) ListStudentProfiles(ctx context.Context) ([]models.StudentProfile, error) {
	sql, args, err := r.sb.Select(append(append([]string{}, userColumns...), studentColumns...)...).
		From("users u").
		Join("student_details s ON s.user_id = u.id").
		Where(squirrel.Eq{"u.is_active": true, "u.role": models.RoleStudent}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	out := make([]models.StudentProfile, 0)
	for rows.Next() {
		var p models.StudentProfile
		if err := scanUser(rows, &p.User, studentDest(&p.Details)...); err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
