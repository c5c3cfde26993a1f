package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

type authFixture struct {
	svc      *AuthService
	users    *fakeUsers
	tokens   *fakeTokens
	profiles *fakeProfiles
	mailer   *recordingMailer
}

func newAuthFixture() *authFixture {
	users := newFakeUsers()
	profiles := newFakeProfiles(users)
	tokens := newFakeTokens()
	mailer := &recordingMailer{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	svc := NewAuthService(users, tokens, profiles, jwtService, mailer, "http://app.test/", testLogger)
	return &authFixture{svc: svc, users: users, tokens: tokens, profiles: profiles, mailer: mailer}
}

func studentRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:    "  Ada@Example.com ",
		Password: "secret123",
		FullName: " Ada Lovelace ",
		Role:     "student",
		Student:  &dto.StudentDetailsInput{Department: "Computer Science", BatchYear: 2027, Interests: []string{"go", " ", "ml"}},
	}
}

func TestRolePath(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"STUDENT", "/student/dashboard"},
		{"student", "/student/dashboard"},
		{" Alumni ", "/alumni/dashboard"},
		{"admin", "/admin/dashboard"},
		{"", LoginPath},
		{"professor", LoginPath},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, RolePath(tt.role))
		})
	}
}

func TestAuthService_RegisterStudent(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.svc.Register(bg, studentRegistration())
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada Lovelace", resp.User.FullName)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.Equal(t, "/student/dashboard", resp.RedirectPath)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.Equal(t, 1, f.tokens.activeFor(resp.User.ID))

	details, err := f.profiles.GetStudent(bg, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "ml"}, details.Interests)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ada@example.com", f.mailer.sent[0].To)
}

func TestAuthService_RegisterAlumniStartsUnverified(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.svc.Register(bg, &dto.RegisterRequest{
		Email:    "grace@example.com",
		Password: "hopper1906",
		FullName: "Grace Hopper",
		Role:     "ALUMNI",
		Alumni:   &dto.AlumniDetailsInput{Department: "Mathematics", BatchYear: 1934, Company: "Navy"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/alumni/dashboard", resp.RedirectPath)

	details, err := f.profiles.GetAlumni(bg, resp.User.ID)
	require.NoError(t, err)
	assert.False(t, details.VerificationStatus)
	assert.True(t, details.AvailableForMentorship)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	f := newAuthFixture()

	req := studentRegistration()
	req.Role = "admin"
	_, err := f.svc.Register(bg, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	req = studentRegistration()
	req.Password = "onlyletters"
	_, err = f.svc.Register(bg, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	req = studentRegistration()
	req.Student = nil
	_, err = f.svc.Register(bg, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Register(bg, studentRegistration())
	require.NoError(t, err)
	_, err = f.svc.Register(bg, studentRegistration())
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestAuthService_RegisterSurvivesMailFailure(t *testing.T) {
	f := newAuthFixture()
	f.mailer.err = errors.New("smtp down")

	_, err := f.svc.Register(bg, studentRegistration())
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	f.svc.now = fixedNow
	_, err := f.svc.Register(bg, studentRegistration())
	require.NoError(t, err)

	resp, err := f.svc.Login(bg, &dto.LoginRequest{Email: "ADA@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotNil(t, resp.User.LastLoginAt)
	assert.Equal(t, testNow, *resp.User.LastLoginAt)

	_, err = f.svc.Login(bg, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(bg, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, f.users.SetActive(bg, resp.User.ID, false))
	_, err = f.svc.Login(bg, &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestAuthService_RefreshRotatesAndDetectsReuse(t *testing.T) {
	f := newAuthFixture()
	first, err := f.svc.Register(bg, studentRegistration())
	require.NoError(t, err)

	second, err := f.svc.RefreshToken(bg, first.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)
	assert.Equal(t, 1, f.tokens.activeFor(first.User.ID))

	_, err = f.svc.RefreshToken(bg, first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	assert.Zero(t, f.tokens.activeFor(first.User.ID), "reuse revokes every token of the user")

	_, err = f.svc.RefreshToken(bg, second.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestAuthService_RefreshErrors(t *testing.T) {
	f := newAuthFixture()
	resp, err := f.svc.Register(bg, studentRegistration())
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(bg, "  ")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = f.svc.RefreshToken(bg, "unknown")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	f.svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = f.svc.RefreshToken(bg, resp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	resp, err := f.svc.Register(bg, studentRegistration())
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(bg, resp.Tokens.RefreshToken))
	assert.Zero(t, f.tokens.activeFor(resp.User.ID))
	assert.NoError(t, f.svc.Logout(bg, resp.Tokens.RefreshToken), "logging out twice is not an error")
	assert.ErrorIs(t, f.svc.Logout(bg, ""), apperrors.ErrTokenInvalid)
}

func TestAuthService_MeAndRedirect(t *testing.T) {
	f := newAuthFixture()
	resp, err := f.svc.Register(bg, studentRegistration())
	require.NoError(t, err)

	me, err := f.svc.Me(bg, resp.User.ID)
	require.NoError(t, err)
	require.NotNil(t, me.Student)
	assert.Nil(t, me.Alumni)
	assert.Equal(t, 2027, me.Student.BatchYear)

	assert.Equal(t, dto.RedirectResponse{Role: "ADMIN", Path: "/admin/dashboard"}, f.svc.Redirect(models.RoleAdmin))
}
