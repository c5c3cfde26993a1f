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
	"github.com/yigit/alumniconnect/internal/pkg/auth"
	"github.com/yigit/alumniconnect/internal/pkg/email"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
)

// LoginPath is where callers without a known role are sent
const LoginPath = "/login"

// RolePath returns the dashboard path of a role. Matching ignores case and surrounding whitespace.
func RolePath(role string) string {
	r, ok := models.ParseRole(role)
	if !ok {
		return LoginPath
	}
	switch r {
	case models.RoleStudent:
		return "/student/dashboard"
	case models.RoleAlumni:
		return "/alumni/dashboard"
	case models.RoleAdmin:
		return "/admin/dashboard"
	}
	return LoginPath
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo    UserStore
	tokenRepo   TokenStore
	profileRepo ProfileStore
	jwtService  *auth.JWTService
	mailer      Mailer
	appURL      string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo UserStore,
	tokenRepo TokenStore,
	profileRepo ProfileStore,
	jwtService *auth.JWTService,
	mailer Mailer,
	appURL string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		mailer:      mailer,
		appURL:      strings.TrimRight(appURL, "/"),
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates a student or alumni account with its profile and signs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok || role == models.RoleAdmin {
		return nil, apperrors.NewValidationError("role", "role must be student or alumni")
	}

	if !auth.PasswordStrongEnough(req.Password) {
		return nil, apperrors.NewPasswordError("password must be at least 8 characters and contain a letter and a digit")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        helpers.NormalizeEmail(req.Email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		IsActive:     true,
	}

	var student *models.StudentDetails
	var alumni *models.AlumniDetails
	switch role {
	case models.RoleStudent:
		if req.Student == nil {
			return nil, apperrors.NewValidationError("student", "student details are required")
		}
		student = studentDetailsFromInput(req.Student)
	case models.RoleAlumni:
		if req.Alumni == nil {
			return nil, apperrors.NewValidationError("alumni", "alumni details are required")
		}
		// New alumni always start unverified
		alumni = alumniDetailsFromInput(req.Alumni, true)
	}

	id, err := s.userRepo.CreateWithProfile(ctx, user, student, alumni)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User registered")

	if err := s.mailer.Send(email.WelcomeMessage(user.Email, user.FullName, s.appURL+RolePath(string(role)))); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}

	return s.issue(ctx, user)
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, helpers.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	} else {
		user.LastLoginAt = &now
	}

	return s.issue(ctx, user)
}

// RefreshToken rotates a refresh token. Presenting a revoked token revokes every token of its owner.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.activeToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.Revoke(ctx, stored.Token); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperrors.ErrTokenInvalid
	}
	err := s.tokenRepo.Revoke(ctx, refreshToken)
	if errors.Is(err, apperrors.ErrTokenRevoked) {
		return nil
	}
	return err
}

// Me returns the caller with the details of its role
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return loadProfile(ctx, s.profileRepo, user)
}

// Redirect maps the caller's role to its dashboard
func (s *AuthService) Redirect(role models.Role) dto.RedirectResponse {
	return dto.RedirectResponse{Role: string(role), Path: RolePath(string(role))}
}

func (s *AuthService) activeToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if stored.IsRevoked {
		s.logger.Warn().Int64("userID", stored.UserID).Msg("Revoked refresh token reused, revoking all sessions")
		if err := s.tokenRepo.RevokeAllForUser(ctx, stored.UserID); err != nil {
			s.logger.Error().Err(err).Int64("userID", stored.UserID).Msg("Failed to revoke tokens")
		}
		return nil, apperrors.ErrTokenRevoked
	}
	if !stored.ExpiryDate.After(s.now()) {
		return nil, apperrors.ErrTokenExpired
	}
	return stored, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokenRepo.Create(ctx, models.RefreshToken{
		Token:      pair.RefreshToken,
		UserID:     user.ID,
		ExpiryDate: pair.RefreshExpiry,
	}); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Tokens: dto.TokenResponse{
			AccessToken:      pair.AccessToken,
			RefreshToken:     pair.RefreshToken,
			TokenType:        "Bearer",
			ExpiresIn:        pair.ExpiresIn,
			RefreshExpiresIn: pair.RefreshExpiresIn,
		},
		User:         dto.NewUserResponse(user),
		RedirectPath: RolePath(string(user.Role)),
	}, nil
}
