package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
)

type mentorshipFixture struct {
	svc       *MentorshipService
	users     *fakeUsers
	profiles  *fakeProfiles
	sessions  *fakeSessions
	notifier  *recordingNotifier
	publisher *recordingPublisher
	mailer    *recordingMailer

	alumni  *models.User
	student *models.User
	admin   *models.User
}

func newMentorshipFixture() *mentorshipFixture {
	f := &mentorshipFixture{
		users:     newFakeUsers(),
		sessions:  newFakeSessions(),
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
		mailer:    &recordingMailer{},
	}
	f.profiles = newFakeProfiles(f.users)
	f.svc = NewMentorshipService(f.sessions, f.users, f.profiles, f.notifier, f.publisher, f.mailer, testLogger)
	f.svc.now = fixedNow

	f.alumni = f.users.add(models.User{FullName: "Alan Turing", Role: models.RoleAlumni, IsActive: true})
	f.profiles.putAlumni(models.AlumniDetails{UserID: f.alumni.ID, Department: "CS", BatchYear: 1934, VerificationStatus: true, AvailableForMentorship: true})
	f.student = f.users.add(models.User{FullName: "Ada Lovelace", Role: models.RoleStudent, IsActive: true})
	f.admin = f.users.add(models.User{FullName: "Root", Role: models.RoleAdmin, IsActive: true})
	return f
}

func (f *mentorshipFixture) request(t *testing.T, at time.Time) *dto.SessionResponse {
	t.Helper()
	resp, err := f.svc.Request(bg, actorOf(f.student), &dto.CreateSessionRequest{
		AlumniID:    f.alumni.ID,
		Topic:       "Career advice",
		ScheduledAt: at,
	})
	require.NoError(t, err)
	return resp
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.SessionStatus
		party    sessionParty
		want     bool
	}{
		{models.SessionPending, models.SessionAccepted, partyAlumni, true},
		{models.SessionPending, models.SessionAccepted, partyStudent, false},
		{models.SessionPending, models.SessionCancelled, partyStudent, true},
		{models.SessionPending, models.SessionCancelled, partyAlumni, true},
		{models.SessionPending, models.SessionCompleted, partyAlumni, false},
		{models.SessionAccepted, models.SessionCompleted, partyAlumni, true},
		{models.SessionAccepted, models.SessionCompleted, partyScheduler, true},
		{models.SessionAccepted, models.SessionCompleted, partyStudent, false},
		{models.SessionAccepted, models.SessionCancelled, partyStudent, true},
		{models.SessionCompleted, models.SessionCancelled, partyAlumni, false},
		{models.SessionCancelled, models.SessionPending, partyStudent, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, canTransition(tt.from, tt.to, tt.party))
		})
	}
}

func TestFilterAndSortSessions(t *testing.T) {
	base := testNow
	list := []models.MentorshipSession{
		{ID: 3, Status: models.SessionPending, ScheduledAt: base.Add(2 * time.Hour)},
		{ID: 1, Status: models.SessionAccepted, ScheduledAt: base.Add(time.Hour)},
		{ID: 2, Status: models.SessionPending, ScheduledAt: base.Add(time.Hour)},
	}

	assert.Len(t, FilterSessionsByStatus(list, ""), 3)
	pending := FilterSessionsByStatus(list, models.SessionPending)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(3), pending[0].ID)

	sorted := SortSessions(list)
	assert.Equal(t, []int64{1, 2, 3}, []int64{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, int64(3), list[0].ID, "input is not reordered")
}

func TestMentorshipService_Request(t *testing.T) {
	f := newMentorshipFixture()

	resp := f.request(t, testNow.Add(24*time.Hour))
	assert.Equal(t, models.SessionPending, resp.Status)
	assert.Equal(t, DefaultSessionMinutes, resp.DurationMinutes)
	require.NotNil(t, resp.Alumni)
	assert.Equal(t, "Alan Turing", resp.Alumni.FullName)

	notes := f.notifier.to(f.alumni.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotifySessionRequested, notes[0].Type)

	ev := f.publisher.last()
	assert.ElementsMatch(t, []int64{f.alumni.ID, f.student.ID}, ev.userIDs)
	assert.Equal(t, realtime.ActionInsert, ev.event.Action)
	assert.Equal(t, "mentorship_sessions", ev.event.Table)
}

func TestMentorshipService_RequestRejects(t *testing.T) {
	f := newMentorshipFixture()
	future := testNow.Add(24 * time.Hour)

	_, err := f.svc.Request(bg, actorOf(f.alumni), &dto.CreateSessionRequest{AlumniID: f.alumni.ID, Topic: "x", ScheduledAt: future})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.Request(bg, actorOf(f.student), &dto.CreateSessionRequest{AlumniID: f.alumni.ID, Topic: "x", ScheduledAt: testNow})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Request(bg, actorOf(f.student), &dto.CreateSessionRequest{AlumniID: f.admin.ID, Topic: "x", ScheduledAt: future})
	assert.ErrorIs(t, err, apperrors.ErrAlumniNotFound)

	_, err = f.svc.Request(bg, actorOf(f.student), &dto.CreateSessionRequest{AlumniID: 999, Topic: "x", ScheduledAt: future})
	assert.ErrorIs(t, err, apperrors.ErrAlumniNotFound)

	_, err = f.profiles.ToggleVerification(bg, f.alumni.ID)
	require.NoError(t, err)
	_, err = f.svc.Request(bg, actorOf(f.student), &dto.CreateSessionRequest{AlumniID: f.alumni.ID, Topic: "x", ScheduledAt: future})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMentorshipService_AcceptFlow(t *testing.T) {
	f := newMentorshipFixture()
	session := f.request(t, testNow.Add(24*time.Hour))

	_, err := f.svc.Accept(bg, actorOf(f.student), session.ID, &dto.AcceptSessionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "students cannot accept")

	outsider := f.users.add(models.User{FullName: "Eve", Role: models.RoleStudent, IsActive: true})
	_, err = f.svc.Accept(bg, actorOf(outsider), session.ID, &dto.AcceptSessionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	accepted, err := f.svc.Accept(bg, actorOf(f.alumni), session.ID, &dto.AcceptSessionRequest{MeetingLink: "https://meet.test/abc"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionAccepted, accepted.Status)
	require.NotNil(t, accepted.MeetingLink)
	assert.Equal(t, "https://meet.test/abc", *accepted.MeetingLink)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, f.student.Email, f.mailer.sent[0].To)
	assert.Len(t, f.notifier.to(f.student.ID), 1)

	_, err = f.svc.Accept(bg, actorOf(f.alumni), session.ID, &dto.AcceptSessionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestMentorshipService_AcceptRejectsOverlap(t *testing.T) {
	f := newMentorshipFixture()
	first := f.request(t, testNow.Add(24*time.Hour))
	second := f.request(t, testNow.Add(24*time.Hour+30*time.Minute))
	third := f.request(t, testNow.Add(25*time.Hour))

	_, err := f.svc.Accept(bg, actorOf(f.alumni), first.ID, &dto.AcceptSessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.Accept(bg, actorOf(f.alumni), second.ID, &dto.AcceptSessionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.svc.Accept(bg, actorOf(f.alumni), third.ID, &dto.AcceptSessionRequest{})
	assert.NoError(t, err, "back to back slots do not overlap")
}

func TestMentorshipService_Cancel(t *testing.T) {
	f := newMentorshipFixture()
	session := f.request(t, testNow.Add(24*time.Hour))

	cancelled, err := f.svc.Cancel(bg, actorOf(f.student), session.ID, &dto.CancelSessionRequest{Reason: " <b>Exam</b> week "})
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "Exam week", *cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, f.student.ID, *cancelled.CancelledBy)

	notes := f.notifier.to(f.alumni.ID)
	require.Len(t, notes, 2)
	assert.Equal(t, models.NotifySessionCancelled, notes[1].Type)

	_, err = f.svc.Cancel(bg, actorOf(f.alumni), session.ID, &dto.CancelSessionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestMentorshipService_CompleteAndFeedback(t *testing.T) {
	f := newMentorshipFixture()
	session := f.request(t, testNow.Add(24*time.Hour))

	_, err := f.svc.Feedback(bg, actorOf(f.student), session.ID, &dto.SessionFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrConflict, "pending sessions cannot be rated")

	_, err = f.svc.Accept(bg, actorOf(f.alumni), session.ID, &dto.AcceptSessionRequest{})
	require.NoError(t, err)

	_, err = f.svc.Complete(bg, actorOf(f.student), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	done, err := f.svc.Complete(bg, actorOf(f.alumni), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, done.Status)

	_, err = f.svc.Feedback(bg, actorOf(f.alumni), session.ID, &dto.SessionFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	rated, err := f.svc.Feedback(bg, actorOf(f.student), session.ID, &dto.SessionFeedbackRequest{Rating: 4, Feedback: "Helpful"})
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 4, *rated.Rating)

	_, err = f.svc.Feedback(bg, actorOf(f.student), session.ID, &dto.SessionFeedbackRequest{Rating: 1})
	assert.ErrorIs(t, err, apperrors.ErrConflict, "feedback is accepted once")
}

func TestMentorshipService_FeedbackConcurrentOnce(t *testing.T) {
	f := newMentorshipFixture()
	session := f.request(t, testNow.Add(24*time.Hour))
	_, err := f.svc.Accept(bg, actorOf(f.alumni), session.ID, &dto.AcceptSessionRequest{})
	require.NoError(t, err)
	_, err = f.svc.Complete(bg, actorOf(f.alumni), session.ID)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	var ok atomic.Int32
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := f.svc.Feedback(bg, actorOf(f.student), session.ID, &dto.SessionFeedbackRequest{Rating: rating})
			if err == nil {
				ok.Add(1)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrFeedbackExists)
		}(i%5 + 1)
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
}

func TestMentorshipService_CompleteElapsed(t *testing.T) {
	f := newMentorshipFixture()
	session := f.request(t, testNow.Add(time.Hour))
	_, err := f.svc.Accept(bg, actorOf(f.alumni), session.ID, &dto.AcceptSessionRequest{})
	require.NoError(t, err)
	f.request(t, testNow.Add(time.Hour))

	n, err := f.svc.CompleteElapsed(bg)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.svc.now = func() time.Time { return testNow.Add(3 * time.Hour) }
	n, err = f.svc.CompleteElapsed(bg)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only accepted sessions complete")

	stored, err := f.sessions.GetByID(bg, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
}

func TestMentorshipService_ListAndGet(t *testing.T) {
	f := newMentorshipFixture()
	late := f.request(t, testNow.Add(48*time.Hour))
	early := f.request(t, testNow.Add(24*time.Hour))
	_, err := f.svc.Accept(bg, actorOf(f.alumni), early.ID, &dto.AcceptSessionRequest{})
	require.NoError(t, err)

	all, err := f.svc.List(bg, actorOf(f.alumni), dto.SessionFilterRequest{PageRequest: dto.PageRequest{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, early.ID, all.Items[0].ID)
	assert.Equal(t, int64(2), all.Pagination.TotalItems)

	pending, err := f.svc.List(bg, actorOf(f.student), dto.SessionFilterRequest{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, late.ID, pending.Items[0].ID)

	outsider := f.users.add(models.User{FullName: "Eve", Role: models.RoleStudent, IsActive: true})
	none, err := f.svc.List(bg, actorOf(outsider), dto.SessionFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	_, err = f.svc.Get(bg, actorOf(outsider), late.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = f.svc.Get(bg, actorOf(f.admin), late.ID)
	assert.NoError(t, err)
}
