package services

import (
	"context"
	"errors"
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
	"github.com/yigit/alumniconnect/internal/pkg/sanitize"
)

// ProfileService manages the role specific profile of a user
type ProfileService struct {
	userRepo    UserStore
	profileRepo ProfileStore
	storage     filestorage.FileStorage
	logger      zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo UserStore, profileRepo ProfileStore, storage filestorage.FileStorage, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		storage:     storage,
		logger:      logger,
	}
}

func studentDetailsFromInput(in *dto.StudentDetailsInput) *models.StudentDetails {
	return &models.StudentDetails{
		EnrollmentNo: strings.TrimSpace(in.EnrollmentNo),
		Department:   strings.TrimSpace(in.Department),
		BatchYear:    in.BatchYear,
		Interests:    helpers.CleanList(in.Interests),
	}
}

func alumniDetailsFromInput(in *dto.AlumniDetailsInput, defaultAvailable bool) *models.AlumniDetails {
	available := defaultAvailable
	if in.AvailableForMentorship != nil {
		available = *in.AvailableForMentorship
	}
	return &models.AlumniDetails{
		Company:                strings.TrimSpace(in.Company),
		JobTitle:               strings.TrimSpace(in.JobTitle),
		Department:             strings.TrimSpace(in.Department),
		BatchYear:              in.BatchYear,
		Industry:               strings.TrimSpace(in.Industry),
		Location:               strings.TrimSpace(in.Location),
		Expertise:              helpers.CleanList(in.Expertise),
		LinkedInURL:            strings.TrimSpace(in.LinkedInURL),
		Bio:                    sanitize.PlainText(in.Bio),
		AvailableForMentorship: available,
	}
}

// loadProfile attaches the details matching the user's role
func loadProfile(ctx context.Context, profiles ProfileStore, user *models.User) (*dto.ProfileResponse, error) {
	resp := &dto.ProfileResponse{User: dto.NewUserResponse(user)}

	switch user.Role {
	case models.RoleStudent:
		d, err := profiles.GetStudent(ctx, user.ID)
		if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		resp.Student = d
	case models.RoleAlumni:
		d, err := profiles.GetAlumni(ctx, user.ID)
		if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		resp.Alumni = d
	}
	return resp, nil
}

// GetProfile returns the public profile of a user
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return loadProfile(ctx, s.profileRepo, user)
}

// UpdateStudent replaces the caller's student details
func (s *ProfileService) UpdateStudent(ctx context.Context, actor Actor, req *dto.UpdateStudentProfileRequest) (*dto.ProfileResponse, error) {
	if actor.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students have a student profile")
	}

	if err := s.rename(ctx, actor.UserID, req.FullName); err != nil {
		return nil, err
	}

	details := studentDetailsFromInput(&req.StudentDetailsInput)
	details.UserID = actor.UserID
	if err := s.profileRepo.UpsertStudent(ctx, details); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", actor.UserID).Msg("Student profile updated")
	return s.GetProfile(ctx, actor.UserID)
}

// UpdateAlumni replaces the caller's alumni details. Verification is left untouched.
func (s *ProfileService) UpdateAlumni(ctx context.Context, actor Actor, req *dto.UpdateAlumniProfileRequest) (*dto.ProfileResponse, error) {
	if actor.Role != models.RoleAlumni {
		return nil, apperrors.NewForbiddenError("only alumni have an alumni profile")
	}

	// Keep the current availability when the request omits it
	keepAvailable := true
	if current, err := s.profileRepo.GetAlumni(ctx, actor.UserID); err == nil {
		keepAvailable = current.AvailableForMentorship
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	if err := s.rename(ctx, actor.UserID, req.FullName); err != nil {
		return nil, err
	}

	details := alumniDetailsFromInput(&req.AlumniDetailsInput, keepAvailable)
	details.UserID = actor.UserID
	if err := s.profileRepo.UpsertAlumni(ctx, details); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", actor.UserID).Msg("Alumni profile updated")
	return s.GetProfile(ctx, actor.UserID)
}

// UploadAvatar stores a new profile picture and returns the updated user
func (s *ProfileService) UploadAvatar(ctx context.Context, actor Actor, file *multipart.FileHeader) (*dto.UserResponse, error) {
	stored, err := s.storage.Save(file, "avatars/"+strconv.FormatInt(actor.UserID, 10), filestorage.AvatarRules)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateAvatar(ctx, actor.UserID, &stored.URL); err != nil {
		if delErr := s.storage.Delete(stored.Path); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", stored.Path).Msg("Failed to remove orphaned avatar")
		}
		return nil, fmt.Errorf("error saving avatar: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *ProfileService) rename(ctx context.Context, userID int64, name string) error {
	if name = strings.TrimSpace(name); name == "" {
		return nil
	}
	return s.userRepo.UpdateName(ctx, userID, name)
}
