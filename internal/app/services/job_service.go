package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
	"github.com/yigit/alumniconnect/internal/pkg/sanitize"
)

// FilterJobs keeps postings matching every set criterion, preserving order. Search is a
// case-insensitive substring over title, company and description.
func FilterJobs(list []models.JobPosting, q dto.JobFilterRequest) []models.JobPosting {
	search := strings.TrimSpace(q.Search)
	location := strings.TrimSpace(q.Location)
	out := make([]models.JobPosting, 0, len(list))
	for _, j := range list {
		if search != "" && !helpers.ContainsFold(j.Title, search) &&
			!helpers.ContainsFold(j.Company, search) && !helpers.ContainsFold(j.Description, search) {
			continue
		}
		if q.Type != "" && string(j.EmploymentType) != q.Type {
			continue
		}
		if location != "" && !helpers.ContainsFold(j.Location, location) {
			continue
		}
		if q.Referral != nil && j.ReferralAvailable != *q.Referral {
			continue
		}
		out = append(out, j)
	}
	return out
}

// JobService runs the job and referral board
type JobService struct {
	jobRepo      JobStore
	userRepo     UserStore
	documentRepo DocumentStore
	notifier     Notifier
	publisher    Publisher
	logger       zerolog.Logger
	now          func() time.Time
}

// NewJobService creates a new JobService
func NewJobService(jobRepo JobStore, userRepo UserStore, documentRepo DocumentStore, notifier Notifier, publisher Publisher, logger zerolog.Logger) *JobService {
	return &JobService{
		jobRepo:      jobRepo,
		userRepo:     userRepo,
		documentRepo: documentRepo,
		notifier:     notifier,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

// Create posts a job opening
func (s *JobService) Create(ctx context.Context, actor Actor, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if actor.Role != models.RoleAlumni && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only alumni and admins can post jobs")
	}
	if req.Deadline != nil && !req.Deadline.After(s.now()) {
		return nil, apperrors.NewValidationError("deadline", "deadline must be in the future")
	}

	j := &models.JobPosting{
		PostedBy:          actor.UserID,
		Company:           strings.TrimSpace(req.Company),
		Title:             strings.TrimSpace(req.Title),
		Location:          strings.TrimSpace(req.Location),
		EmploymentType:    models.EmploymentType(req.EmploymentType),
		Description:       sanitize.RichText(req.Description),
		ApplyURL:          strings.TrimSpace(req.ApplyURL),
		ReferralAvailable: req.ReferralAvailable,
		Deadline:          req.Deadline,
		Status:            models.JobOpen,
	}
	if _, err := s.jobRepo.Create(ctx, j); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("jobID", j.ID).Int64("postedBy", actor.UserID).Msg("Job posted")
	return s.respond(ctx, j)
}

// Get returns a posting
func (s *JobService) Get(ctx context.Context, id int64) (*dto.JobResponse, error) {
	j, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, j)
}

// List returns a filtered page of the board, newest first. Closed postings are only
// included for the caller's own postings or for admins.
func (s *JobService) List(ctx context.Context, actor Actor, req dto.JobFilterRequest) (*dto.ListResponse[dto.JobResponse], error) {
	var postedBy *int64
	if req.Mine {
		postedBy = &actor.UserID
	}
	includeClosed := req.IncludeClosed && (req.Mine || actor.IsAdmin())

	all, err := s.jobRepo.List(ctx, includeClosed, postedBy)
	if err != nil {
		return nil, err
	}

	page, info := helpers.Paginate(FilterJobs(all, req), req.Page, req.PageSize)
	items, err := s.respondAll(ctx, page)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[dto.JobResponse]{Items: items, Pagination: info}, nil
}

// Update changes a posting; poster or admin only
func (s *JobService) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	j, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Company != nil {
		j.Company = strings.TrimSpace(*req.Company)
	}
	if req.Title != nil {
		j.Title = strings.TrimSpace(*req.Title)
	}
	if req.Location != nil {
		j.Location = strings.TrimSpace(*req.Location)
	}
	if req.EmploymentType != nil {
		j.EmploymentType = models.EmploymentType(*req.EmploymentType)
	}
	if req.Description != nil {
		j.Description = sanitize.RichText(*req.Description)
	}
	if req.ApplyURL != nil {
		j.ApplyURL = strings.TrimSpace(*req.ApplyURL)
	}
	if req.ReferralAvailable != nil {
		j.ReferralAvailable = *req.ReferralAvailable
	}
	if req.Deadline != nil {
		if !req.Deadline.After(s.now()) {
			return nil, apperrors.NewValidationError("deadline", "deadline must be in the future")
		}
		j.Deadline = req.Deadline
	}
	if req.Status != nil {
		j.Status = models.JobStatus(*req.Status)
	}

	if err := s.jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}
	return s.respond(ctx, j)
}

// Close stops a posting from taking referral requests
func (s *JobService) Close(ctx context.Context, actor Actor, id int64) (*dto.JobResponse, error) {
	closed := string(models.JobClosed)
	return s.Update(ctx, actor, id, &dto.UpdateJobRequest{Status: &closed})
}

// RequestReferral asks the poster of an open posting for a referral
func (s *JobService) RequestReferral(ctx context.Context, actor Actor, jobID int64, req *dto.CreateReferralRequest) (*dto.ReferralResponse, error) {
	if actor.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students can request referrals")
	}

	j, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.Status != models.JobOpen || j.Expired(s.now()) {
		return nil, apperrors.NewConflictError("job posting is closed")
	}
	if !j.ReferralAvailable {
		return nil, apperrors.NewConflictError("this posting does not offer referrals")
	}

	if req.ResumeDocumentID != nil {
		doc, err := s.documentRepo.GetByID(ctx, *req.ResumeDocumentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, apperrors.NewValidationError("resumeDocumentId", "resume document not found")
			}
			return nil, err
		}
		if doc.OwnerID != actor.UserID {
			return nil, apperrors.NewValidationError("resumeDocumentId", "resume document not found")
		}
	}

	rr := &models.ReferralRequest{
		JobID:            jobID,
		StudentID:        actor.UserID,
		Message:          sanitize.PlainText(req.Message),
		ResumeDocumentID: req.ResumeDocumentID,
		Status:           models.ReferralPending,
	}
	if _, err := s.jobRepo.CreateReferral(ctx, rr); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:  j.PostedBy,
		Type:    models.NotifyReferralRequested,
		Title:   "New referral request",
		Message: fmt.Sprintf("A student asked for a referral for %s at %s", j.Title, j.Company),
		Link:    fmt.Sprintf("/jobs/%d/referrals", j.ID),
	})
	s.publisher.Publish([]int64{j.PostedBy}, realtime.RowChange("referral_requests", realtime.ActionInsert, rr.ID, rr))

	return s.respondReferral(ctx, rr)
}

// ListReferrals returns the requests on a posting; poster or admin only
func (s *JobService) ListReferrals(ctx context.Context, actor Actor, jobID int64) ([]dto.ReferralResponse, error) {
	if _, err := s.owned(ctx, actor, jobID); err != nil {
		return nil, err
	}
	list, err := s.jobRepo.ListReferralsByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return s.respondReferrals(ctx, list)
}

// MyReferrals returns the caller's own referral requests
func (s *JobService) MyReferrals(ctx context.Context, actor Actor) ([]dto.ReferralResponse, error) {
	list, err := s.jobRepo.ListReferralsByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.respondReferrals(ctx, list)
}

// ReviewReferral accepts or rejects a pending request
func (s *JobService) ReviewReferral(ctx context.Context, actor Actor, referralID int64, req *dto.ReviewReferralRequest) (*dto.ReferralResponse, error) {
	rr, err := s.jobRepo.GetReferral(ctx, referralID)
	if err != nil {
		return nil, err
	}
	j, err := s.owned(ctx, actor, rr.JobID)
	if err != nil {
		return nil, err
	}

	to := models.ReferralStatus(req.Status)
	if to != models.ReferralAccepted && to != models.ReferralRejected {
		return nil, apperrors.NewValidationError("status", "status must be accepted or rejected")
	}
	if rr.Status != models.ReferralPending {
		return nil, apperrors.NewTransitionError(string(rr.Status), string(to))
	}
	if err := s.jobRepo.UpdateReferralStatus(ctx, rr.ID, models.ReferralPending, to); err != nil {
		return nil, err
	}
	rr.Status = to

	s.notifier.Notify(ctx, models.Notification{
		UserID:  rr.StudentID,
		Type:    models.NotifyReferralUpdated,
		Title:   "Referral request " + string(to),
		Message: fmt.Sprintf("Your referral request for %s at %s was %s", j.Title, j.Company, to),
		Link:    fmt.Sprintf("/jobs/%d", j.ID),
	})
	s.publisher.Publish([]int64{rr.StudentID}, realtime.RowChange("referral_requests", realtime.ActionUpdate, rr.ID, rr))

	return s.respondReferral(ctx, rr)
}

// CloseExpired closes postings past their deadline
func (s *JobService) CloseExpired(ctx context.Context) (int64, error) {
	return s.jobRepo.CloseExpired(ctx, s.now())
}

func (s *JobService) owned(ctx context.Context, actor Actor, id int64) (*models.JobPosting, error) {
	j, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.PostedBy != actor.UserID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only the poster can manage this job")
	}
	return j, nil
}

func (s *JobService) respond(ctx context.Context, j *models.JobPosting) (*dto.JobResponse, error) {
	items, err := s.respondAll(ctx, []models.JobPosting{*j})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *JobService) respondAll(ctx context.Context, jobs []models.JobPosting) ([]dto.JobResponse, error) {
	ids := make([]int64, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.PostedBy)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, dto.JobResponse{JobPosting: j, Poster: dto.NewUserSummary(users[j.PostedBy])})
	}
	return out, nil
}

func (s *JobService) respondReferral(ctx context.Context, rr *models.ReferralRequest) (*dto.ReferralResponse, error) {
	items, err := s.respondReferrals(ctx, []models.ReferralRequest{*rr})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *JobService) respondReferrals(ctx context.Context, list []models.ReferralRequest) ([]dto.ReferralResponse, error) {
	ids := make([]int64, 0, len(list))
	for _, rr := range list {
		ids = append(ids, rr.StudentID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReferralResponse, 0, len(list))
	for _, rr := range list {
		out = append(out, dto.ReferralResponse{ReferralRequest: rr, Student: dto.NewUserSummary(users[rr.StudentID])})
	}
	return out, nil
}
