package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/auth"
)

type fakeUsers struct {
	users   []*models.User
	alumni  []*models.AlumniDetails
	failFor string
}

func (f *fakeUsers) CreateWithProfile(_ context.Context, u *models.User, _ *models.StudentDetails, a *models.AlumniDetails) (int64, error) {
	if u.FullName == f.failFor {
		return 0, errors.New("insert failed")
	}
	u.ID = int64(len(f.users) + 1)
	f.users = append(f.users, u)
	if a != nil {
		f.alumni = append(f.alumni, a)
	}
	return u.ID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) CountByRole(_ context.Context, role models.Role) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type recorder struct {
	jobs     []*models.JobPosting
	webinars []*models.Webinar
	events   []*models.Event
	posts    []*models.ForumPost
}

type jobSink struct{ r *recorder }

func (s jobSink) Create(_ context.Context, j *models.JobPosting) (int64, error) {
	s.r.jobs = append(s.r.jobs, j)
	return int64(len(s.r.jobs)), nil
}

type webinarSink struct{ r *recorder }

func (s webinarSink) Create(_ context.Context, w *models.Webinar) (int64, error) {
	s.r.webinars = append(s.r.webinars, w)
	return int64(len(s.r.webinars)), nil
}

type eventSink struct{ r *recorder }

func (s eventSink) Create(_ context.Context, e *models.Event) (int64, error) {
	s.r.events = append(s.r.events, e)
	return int64(len(s.r.events)), nil
}

type forumSink struct{ r *recorder }

func (s forumSink) CreatePost(_ context.Context, p *models.ForumPost) (int64, error) {
	s.r.posts = append(s.r.posts, p)
	return int64(len(s.r.posts)), nil
}

func newStores(users *fakeUsers, r *recorder) Stores {
	return Stores{Users: users, Jobs: jobSink{r}, Webinars: webinarSink{r}, Events: eventSink{r}, Forum: forumSink{r}}
}

var opts = Options{AdminEmail: " Admin@Example.com ", AdminPassword: "Secret123", AdminName: "Admin"}

func TestCreateDefaultDataCreatesAdminOnce(t *testing.T) {
	users := &fakeUsers{}
	stores := newStores(users, &recorder{})

	require.NoError(t, CreateDefaultData(context.Background(), stores, opts, zerolog.Nop()))
	require.Len(t, users.users, 1)
	admin := users.users[0]
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "Secret123"))

	require.NoError(t, CreateDefaultData(context.Background(), stores, opts, zerolog.Nop()))
	assert.Len(t, users.users, 1)
}

func TestCreateDefaultDataSkipsAdminWithoutPassword(t *testing.T) {
	users := &fakeUsers{}
	o := opts
	o.AdminPassword = ""

	require.NoError(t, CreateDefaultData(context.Background(), newStores(users, &recorder{}), o, zerolog.Nop()))
	assert.Empty(t, users.users)
}

func TestCreateDefaultDataDemo(t *testing.T) {
	users := &fakeUsers{}
	rec := &recorder{}
	o := opts
	o.DemoData = true

	require.NoError(t, CreateDefaultData(context.Background(), newStores(users, rec), o, zerolog.Nop()))

	assert.Len(t, users.users, 1+len(demoAlumniRows)+len(demoStudentRows))
	assert.Len(t, rec.jobs, 2)
	require.Len(t, rec.webinars, 1)
	require.Len(t, rec.events, 1)
	assert.Len(t, rec.posts, 1)

	assert.Equal(t, int64(1), rec.events[0].CreatedBy, "events are organised by the admin")
	assert.Equal(t, users.users[1].ID, rec.webinars[0].HostID)
	assert.True(t, rec.events[0].EndsAt.After(rec.events[0].StartsAt))
	assert.Equal(t, "ayse.demir@demo.alumniconnect.local", users.users[1].Email)

	// A second run leaves an already populated platform alone
	require.NoError(t, CreateDefaultData(context.Background(), newStores(users, rec), o, zerolog.Nop()))
	assert.Len(t, rec.jobs, 2)
}

func TestCreateDefaultDataCollectsErrors(t *testing.T) {
	users := &fakeUsers{failFor: "Mehmet Kaya"}
	rec := &recorder{}
	o := opts
	o.DemoData = true

	err := CreateDefaultData(context.Background(), newStores(users, rec), o, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
	assert.Len(t, users.alumni, len(demoAlumniRows)-1)
	assert.Len(t, rec.webinars, 1, "remaining rows are still created")
}
