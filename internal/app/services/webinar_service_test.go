package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
)

type webinarFixture struct {
	svc      *WebinarService
	users    *fakeUsers
	webinars *fakeWebinars
	notifier *recordingNotifier
	host     *models.User
}

func newWebinarFixture() *webinarFixture {
	f := &webinarFixture{users: newFakeUsers(), webinars: newFakeWebinars(), notifier: &recordingNotifier{}}
	f.svc = NewWebinarService(f.webinars, f.users, f.notifier, &recordingPublisher{}, testLogger)
	f.svc.now = fixedNow
	f.host = f.users.add(models.User{FullName: "Alan Turing", Role: models.RoleAlumni, IsActive: true})
	return f
}

func (f *webinarFixture) create(t *testing.T, capacity int) *dto.WebinarResponse {
	t.Helper()
	w, err := f.svc.Create(bg, actorOf(f.host), &dto.CreateWebinarRequest{
		Title:       "Breaking codes",
		Description: "<p>Intro</p><script>alert(1)</script>",
		ScheduledAt: testNow.Add(72 * time.Hour),
		Capacity:    capacity,
	})
	require.NoError(t, err)
	return w
}

func (f *webinarFixture) student(name string) Actor {
	return actorOf(f.users.add(models.User{FullName: name, Role: models.RoleStudent, IsActive: true}))
}

func TestWebinarService_Create(t *testing.T) {
	f := newWebinarFixture()

	w := f.create(t, 0)
	assert.Equal(t, models.WebinarScheduled, w.Status)
	assert.Equal(t, DefaultWebinarMinutes, w.DurationMinutes)
	assert.NotContains(t, w.Description, "<script>")
	assert.Contains(t, w.Description, "<p>Intro</p>")
	require.NotNil(t, w.Host)
	assert.Equal(t, f.host.ID, w.Host.ID)

	_, err := f.svc.Create(bg, f.student("Ada"), &dto.CreateWebinarRequest{Title: "x", ScheduledAt: testNow.Add(time.Hour)})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.Create(bg, actorOf(f.host), &dto.CreateWebinarRequest{Title: "x", ScheduledAt: testNow.Add(-time.Hour)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestWebinarService_RegisterRespectsCapacity(t *testing.T) {
	f := newWebinarFixture()
	w := f.create(t, 2)
	ada, bob, eve := f.student("Ada"), f.student("Bob"), f.student("Eve")

	got, err := f.svc.Register(bg, ada, w.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRegistered)
	assert.Equal(t, 1, got.RegisteredCount)

	_, err = f.svc.Register(bg, ada, w.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	_, err = f.svc.Register(bg, bob, w.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(bg, eve, w.ID)
	assert.ErrorIs(t, err, apperrors.ErrCapacityReached)
	_, err = f.svc.Register(bg, ada, w.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered, "a registered user hears about the seat they hold, not the full room")

	require.NoError(t, f.svc.Unregister(bg, bob, w.ID))
	_, err = f.svc.Register(bg, eve, w.ID)
	assert.NoError(t, err, "a released seat can be taken")

	registrants, err := f.svc.Registrants(bg, actorOf(f.host), w.ID)
	require.NoError(t, err)
	assert.Len(t, registrants, 2)

	_, err = f.svc.Registrants(bg, ada, w.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestWebinarService_RegisterClosedOrStarted(t *testing.T) {
	f := newWebinarFixture()
	w := f.create(t, 0)
	ada := f.student("Ada")

	f.svc.now = func() time.Time { return testNow.Add(73 * time.Hour) }
	_, err := f.svc.Register(bg, ada, w.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	f.svc.now = fixedNow
	_, err = f.svc.Cancel(bg, actorOf(f.host), w.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(bg, ada, w.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestWebinarService_UpdateCapacityFloor(t *testing.T) {
	f := newWebinarFixture()
	w := f.create(t, 5)
	for _, name := range []string{"Ada", "Bob", "Eve"} {
		_, err := f.svc.Register(bg, f.student(name), w.ID)
		require.NoError(t, err)
	}

	two := 2
	_, err := f.svc.Update(bg, actorOf(f.host), w.ID, &dto.UpdateWebinarRequest{Capacity: &two})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	unlimited := 0
	updated, err := f.svc.Update(bg, actorOf(f.host), w.ID, &dto.UpdateWebinarRequest{Capacity: &unlimited})
	require.NoError(t, err)
	assert.True(t, updated.Unlimited())

	_, err = f.svc.Update(bg, f.student("Mallory"), w.ID, &dto.UpdateWebinarRequest{Capacity: &two})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestWebinarService_CancelNotifiesRegistrants(t *testing.T) {
	f := newWebinarFixture()
	w := f.create(t, 0)
	ada, bob := f.student("Ada"), f.student("Bob")
	for _, a := range []Actor{ada, bob} {
		_, err := f.svc.Register(bg, a, w.ID)
		require.NoError(t, err)
	}

	cancelled, err := f.svc.Cancel(bg, actorOf(f.host), w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WebinarCancelled, cancelled.Status)
	assert.Len(t, f.notifier.to(ada.UserID), 1)
	assert.Len(t, f.notifier.to(bob.UserID), 1)

	_, err = f.svc.Cancel(bg, actorOf(f.host), w.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestWebinarService_CompletePast(t *testing.T) {
	f := newWebinarFixture()
	f.create(t, 0)

	n, err := f.svc.CompletePast(bg)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.svc.now = func() time.Time { return testNow.Add(74 * time.Hour) }
	n, err = f.svc.CompletePast(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
