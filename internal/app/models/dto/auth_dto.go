package dto

import (
	"time"

	"github.com/yigit/alumniconnect/internal/app/models"
)

// StudentDetailsInput carries the student part of a registration or profile update
type StudentDetailsInput struct {
	EnrollmentNo string   `json:"enrollmentNo" binding:"max=50"`
	Department   string   `json:"department" binding:"required,max=100"`
	BatchYear    int      `json:"batchYear" binding:"required,batchyear"`
	Interests    []string `json:"interests" binding:"max=20,dive,max=50"`
}

// AlumniDetailsInput carries the alumni part of a registration or profile update
type AlumniDetailsInput struct {
	Company                string   `json:"company" binding:"max=150"`
	JobTitle               string   `json:"jobTitle" binding:"max=150"`
	Department             string   `json:"department" binding:"required,max=100"`
	BatchYear              int      `json:"batchYear" binding:"required,batchyear"`
	Industry               string   `json:"industry" binding:"max=100"`
	Location               string   `json:"location" binding:"max=150"`
	Expertise              []string `json:"expertise" binding:"max=20,dive,max=50"`
	LinkedInURL            string   `json:"linkedinUrl" binding:"omitempty,url,max=255"`
	Bio                    string   `json:"bio" binding:"max=4000"`
	AvailableForMentorship *bool    `json:"availableForMentorship"`
}

// RegisterRequest is the sign-up payload. Admin accounts cannot self register.
type RegisterRequest struct {
	Email    string               `json:"email" binding:"required,email,max=255"`
	Password string               `json:"password" binding:"required,min=8,max=72"`
	FullName string               `json:"fullName" binding:"required,min=2,max=100"`
	Role     string               `json:"role" binding:"required,signuprole"`
	Student  *StudentDetailsInput `json:"student"`
	Alumni   *AlumniDetailsInput  `json:"alumni"`
}

// LoginRequest is the sign-in payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token for rotation or logout
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse is an access/refresh token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	Tokens       TokenResponse `json:"tokens"`
	User         UserResponse  `json:"user"`
	RedirectPath string        `json:"redirectPath"`
}

// RedirectResponse maps a role to its dashboard
type RedirectResponse struct {
	Role string `json:"role"`
	Path string `json:"path"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          int64       `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"fullName"`
	Role        models.Role `json:"role"`
	IsActive    bool        `json:"isActive"`
	AvatarURL   *string     `json:"avatarUrl,omitempty"`
	LastLoginAt *time.Time  `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// UserSummary is the minimal user view embedded in other resources
type UserSummary struct {
	ID        int64       `json:"id"`
	FullName  string      `json:"fullName"`
	Role      models.Role `json:"role"`
	AvatarURL *string     `json:"avatarUrl,omitempty"`
}

// NewUserResponse maps a user row to its public view
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		AvatarURL:   u.AvatarURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// NewUserSummary maps a user row to its minimal view; nil stays nil
func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, FullName: u.FullName, Role: u.Role, AvatarURL: u.AvatarURL}
}
