// Package seed provisions the default admin account and optional demo data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/auth"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
)

// DemoPassword is the password of every demo account
const DemoPassword = "Demo12345"

// UserStore is what seeding needs from the user repository
type UserStore interface {
	CreateWithProfile(ctx context.Context, user *models.User, student *models.StudentDetails, alumni *models.AlumniDetails) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// Stores are the repositories demo rows are written to
type Stores struct {
	Users    UserStore
	Jobs     interface{ Create(context.Context, *models.JobPosting) (int64, error) }
	Webinars interface{ Create(context.Context, *models.Webinar) (int64, error) }
	Events   interface{ Create(context.Context, *models.Event) (int64, error) }
	Forum    interface{ CreatePost(context.Context, *models.ForumPost) (int64, error) }
}

// Options mirrors the seed section of the configuration
type Options struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	DemoData      bool
}

// CreateDefaultData ensures an admin exists and, when enabled, fills an empty platform with demo rows.
// Failures are collected so that one bad row does not hide the others.
func CreateDefaultData(ctx context.Context, stores Stores, opts Options, lgr zerolog.Logger) error {
	adminID, err := ensureAdmin(ctx, stores.Users, opts, lgr)
	if err != nil {
		return err
	}
	if !opts.DemoData {
		return nil
	}

	alumniCount, err := stores.Users.CountByRole(ctx, models.RoleAlumni)
	if err != nil {
		return fmt.Errorf("failed to count alumni: %w", err)
	}
	if alumniCount > 0 {
		lgr.Info().Int64("alumni", alumniCount).Msg("Alumni present, skipping demo data")
		return nil
	}

	lgr.Info().Msg("Creating demo data...")
	return createDemoData(ctx, stores, adminID, time.Now(), lgr)
}

// ensureAdmin returns the id of the configured admin, creating it when no admin exists yet
func ensureAdmin(ctx context.Context, users UserStore, opts Options, lgr zerolog.Logger) (int64, error) {
	email := helpers.NormalizeEmail(opts.AdminEmail)
	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return existing.ID, nil
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return 0, fmt.Errorf("failed to look up admin: %w", err)
	}

	admins, err := users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return 0, nil
	}
	if opts.AdminPassword == "" {
		lgr.Warn().Str("email", email).Msg("No admin account exists and no seed admin password is configured")
		return 0, nil
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     opts.AdminName,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	id, err := users.CreateWithProfile(ctx, admin, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create admin: %w", err)
	}
	lgr.Info().Int64("userID", id).Str("email", email).Msg("Default admin created")
	return id, nil
}

type demoAlumni struct {
	name    string
	details models.AlumniDetails
}

var demoAlumniRows = []demoAlumni{
	{"Ayse Demir", models.AlumniDetails{
		Company: "Globex", JobTitle: "Senior Backend Engineer", Department: "Computer Engineering", BatchYear: 2015,
		Industry: "Software", Location: "Istanbul", Expertise: []string{"go", "distributed systems", "career advice"},
		Bio: "Backend engineer, happy to review CVs.", VerificationStatus: true, AvailableForMentorship: true,
	}},
	{"Mehmet Kaya", models.AlumniDetails{
		Company: "Initech", JobTitle: "Product Manager", Department: "Industrial Engineering", BatchYear: 2012,
		Industry: "Fintech", Location: "Ankara", Expertise: []string{"product", "interviews"},
		VerificationStatus: true, AvailableForMentorship: true,
	}},
	{"Elif Sahin", models.AlumniDetails{
		Company: "Umbrella", JobTitle: "Data Scientist", Department: "Computer Engineering", BatchYear: 2019,
		Industry: "Healthcare", Location: "Izmir", Expertise: []string{"machine learning", "python"},
	}},
}

var demoStudentRows = []struct {
	name    string
	details models.StudentDetails
}{
	{"Can Yilmaz", models.StudentDetails{EnrollmentNo: "2021001", Department: "Computer Engineering", BatchYear: 2025, Interests: []string{"backend", "cloud"}}},
	{"Zeynep Arslan", models.StudentDetails{EnrollmentNo: "2022017", Department: "Industrial Engineering", BatchYear: 2026, Interests: []string{"product"}}},
}

func demoEmail(name string) string {
	local := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", ".")
	return helpers.NormalizeEmail(local + "@demo.alumniconnect.local")
}

func createDemoData(ctx context.Context, stores Stores, adminID int64, now time.Time, lgr zerolog.Logger) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	var finalErr error
	var alumniIDs []int64
	for _, row := range demoAlumniRows {
		details := row.details
		user := &models.User{Email: demoEmail(row.name), PasswordHash: hash, FullName: row.name, Role: models.RoleAlumni, IsActive: true}
		id, err := stores.Users.CreateWithProfile(ctx, user, nil, &details)
		if err != nil {
			lgr.Error().Err(err).Str("name", row.name).Msg("Error creating demo alumni")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		alumniIDs = append(alumniIDs, id)
	}
	for _, row := range demoStudentRows {
		details := row.details
		user := &models.User{Email: demoEmail(row.name), PasswordHash: hash, FullName: row.name, Role: models.RoleStudent, IsActive: true}
		if _, err := stores.Users.CreateWithProfile(ctx, user, &details, nil); err != nil {
			lgr.Error().Err(err).Str("name", row.name).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if len(alumniIDs) == 0 {
		return finalErr
	}
	host := alumniIDs[0]
	organizer := adminID
	if organizer == 0 {
		organizer = host
	}

	deadline := now.AddDate(0, 1, 0)
	jobs := []*models.JobPosting{
		{PostedBy: host, Company: "Globex", Title: "Junior Go Developer", Location: "Istanbul", EmploymentType: models.EmploymentFullTime,
			Description: "Work on our payments platform.", ReferralAvailable: true, Deadline: &deadline, Status: models.JobOpen},
		{PostedBy: host, Company: "Globex", Title: "Summer Intern", Location: "Remote", EmploymentType: models.EmploymentInternship,
			Description: "Ten week internship with the platform team.", Status: models.JobOpen},
	}
	for _, j := range jobs {
		if _, err := stores.Jobs.Create(ctx, j); err != nil {
			lgr.Error().Err(err).Str("title", j.Title).Msg("Error creating demo job")
			finalErr = errors.Join(finalErr, err)
		}
	}

	webinar := &models.Webinar{
		HostID: host, Title: "Breaking into backend engineering", Description: "Q&A with alumni engineers.",
		ScheduledAt: now.Add(7 * 24 * time.Hour).Truncate(time.Hour), DurationMinutes: 60, Capacity: 100,
		Status: models.WebinarScheduled,
	}
	if _, err := stores.Webinars.Create(ctx, webinar); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo webinar")
		finalErr = errors.Join(finalErr, err)
	}

	start := now.AddDate(0, 0, 14).Truncate(time.Hour)
	event := &models.Event{
		CreatedBy: organizer, Title: "Annual Alumni Reunion", Description: "Dinner and networking on campus.",
		Location: "Main Campus", Category: "reunion", StartsAt: start, EndsAt: start.Add(4 * time.Hour),
	}
	if _, err := stores.Events.Create(ctx, event); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo event")
		finalErr = errors.Join(finalErr, err)
	}

	post := &models.ForumPost{
		AuthorID: host, Title: "Ask me anything about backend interviews",
		Content: "Post your questions here and I will answer over the week.", Category: "careers", Tags: []string{"interviews", "backend"},
	}
	if _, err := stores.Forum.CreatePost(ctx, post); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo forum post")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Int("alumni", len(alumniIDs)).Msg("Demo data created")
	}
	return finalErr
}
