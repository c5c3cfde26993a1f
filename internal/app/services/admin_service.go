package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
)

// ToggleVerification returns a copy of list with the verification flag of userID flipped,
// and the new value. An unknown id leaves the copy unchanged and reports false.
func ToggleVerification(list []models.AlumniDetails, userID int64) ([]models.AlumniDetails, bool) {
	out := slices.Clone(list)
	for i := range out {
		if out[i].UserID == userID {
			out[i].VerificationStatus = !out[i].VerificationStatus
			return out, out[i].VerificationStatus
		}
	}
	return out, false
}

// AdminService holds the administrator operations
type AdminService struct {
	userRepo    UserStore
	profileRepo ProfileStore
	tokenRepo   TokenStore
	statsRepo   StatsStore
	notifier    Notifier
	publisher   Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo UserStore,
	profileRepo ProfileStore,
	tokenRepo TokenStore,
	statsRepo StatsStore,
	notifier Notifier,
	publisher Publisher,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		statsRepo:   statsRepo,
		notifier:    notifier,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// ListUsers returns a filtered page of accounts
func (s *AdminService) ListUsers(ctx context.Context, req dto.AdminUserFilterRequest) (*dto.ListResponse[dto.UserResponse], error) {
	filter := models.UserFilter{Active: req.Active, Search: strings.TrimSpace(req.Search)}
	if req.Role != "" {
		role, ok := models.ParseRole(req.Role)
		if !ok {
			return nil, apperrors.NewValidationError("role", "unknown role")
		}
		filter.Role = &role
	}

	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.PageSize)
	users, total, err := s.userRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	resp := helpers.NewListResponse(items, total, req.Page, req.PageSize)
	return &resp, nil
}

// ToggleVerification flips an alumni's verification flag and tells the alumni
func (s *AdminService) ToggleVerification(ctx context.Context, actor Actor, userID int64) (*dto.ToggleResponse, error) {
	verified, err := s.profileRepo.ToggleVerification(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("alumniID", userID).Bool("verified", verified).Int64("by", actor.UserID).Msg("Alumni verification toggled")

	msg := "Your alumni profile has been verified. Students can now book sessions with you."
	if !verified {
		msg = "Your alumni profile verification was revoked."
	}
	s.notifier.Notify(ctx, models.Notification{
		UserID:  userID,
		Type:    models.NotifyVerification,
		Title:   "Verification updated",
		Message: msg,
		Link:    "/alumni/profile",
	})
	s.publisher.Publish([]int64{userID}, realtime.RowChange("alumni_details", realtime.ActionUpdate, userID,
		map[string]bool{"verificationStatus": verified}))

	return &dto.ToggleResponse{ID: userID, Value: verified}, nil
}

// SetUserStatus activates or deactivates an account. Deactivation revokes its refresh tokens.
func (s *AdminService) SetUserStatus(ctx context.Context, actor Actor, userID int64, active bool) (*dto.UserResponse, error) {
	if userID == actor.UserID && !active {
		return nil, apperrors.NewBadRequestError("you cannot deactivate your own account")
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	if !active {
		if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", userID).Bool("active", active).Int64("by", actor.UserID).Msg("User status changed")

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Stats returns the dashboard counters
func (s *AdminService) Stats(ctx context.Context) (*models.PlatformStats, error) {
	return s.statsRepo.Stats(ctx, s.now())
}
