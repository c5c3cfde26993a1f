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

func TestFilterJobs(t *testing.T) {
	list := []models.JobPosting{
		{ID: 1, Title: "Backend Engineer", Company: "Acme", Location: "Berlin, DE", EmploymentType: models.EmploymentFullTime, ReferralAvailable: true},
		{ID: 2, Title: "Data Intern", Company: "Initech", Location: "Remote", EmploymentType: models.EmploymentInternship, Description: "Go and SQL"},
		{ID: 3, Title: "SRE", Company: "Acme", Location: "berlin", EmploymentType: models.EmploymentContract},
	}
	yes := true
	byID := func(j models.JobPosting) int64 { return j.ID }

	tests := []struct {
		name string
		q    dto.JobFilterRequest
		want []int64
	}{
		{"all", dto.JobFilterRequest{}, []int64{1, 2, 3}},
		{"search company", dto.JobFilterRequest{Search: "acme"}, []int64{1, 3}},
		{"search description", dto.JobFilterRequest{Search: "sql"}, []int64{2}},
		{"type", dto.JobFilterRequest{Type: "internship"}, []int64{2}},
		{"location substring", dto.JobFilterRequest{Location: "BERLIN"}, []int64{1, 3}},
		{"referral", dto.JobFilterRequest{Referral: &yes}, []int64{1}},
		{"combined", dto.JobFilterRequest{Search: "acme", Type: "contract"}, []int64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterJobs(list, tt.q), byID))
		})
	}
}

type jobFixture struct {
	svc      *JobService
	users    *fakeUsers
	jobs     *fakeJobs
	docs     *fakeDocuments
	notifier *recordingNotifier
	alumni   *models.User
	student  *models.User
}

func newJobFixture() *jobFixture {
	f := &jobFixture{users: newFakeUsers(), jobs: newFakeJobs(), docs: newFakeDocuments(), notifier: &recordingNotifier{}}
	f.svc = NewJobService(f.jobs, f.users, f.docs, f.notifier, &recordingPublisher{}, testLogger)
	f.svc.now = fixedNow
	f.alumni = f.users.add(models.User{FullName: "Alan Turing", Role: models.RoleAlumni, IsActive: true})
	f.student = f.users.add(models.User{FullName: "Ada Lovelace", Role: models.RoleStudent, IsActive: true})
	return f
}

func (f *jobFixture) post(t *testing.T, referral bool, deadline *time.Time) *dto.JobResponse {
	t.Helper()
	j, err := f.svc.Create(bg, actorOf(f.alumni), &dto.CreateJobRequest{
		Company:           "Bletchley",
		Title:             "Cryptanalyst",
		EmploymentType:    "full_time",
		ReferralAvailable: referral,
		Deadline:          deadline,
	})
	require.NoError(t, err)
	return j
}

func TestJobService_CreateAndList(t *testing.T) {
	f := newJobFixture()

	_, err := f.svc.Create(bg, actorOf(f.student), &dto.CreateJobRequest{Company: "x", Title: "y", EmploymentType: "full_time"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	past := testNow.Add(-time.Hour)
	_, err = f.svc.Create(bg, actorOf(f.alumni), &dto.CreateJobRequest{Company: "x", Title: "y", EmploymentType: "full_time", Deadline: &past})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	first := f.post(t, true, nil)
	second := f.post(t, false, nil)
	_, err = f.svc.Close(bg, actorOf(f.alumni), first.ID)
	require.NoError(t, err)

	page, err := f.svc.List(bg, actorOf(f.student), dto.JobFilterRequest{IncludeClosed: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1, "students never see closed postings")
	assert.Equal(t, second.ID, page.Items[0].ID)
	require.NotNil(t, page.Items[0].Poster)

	mine, err := f.svc.List(bg, actorOf(f.alumni), dto.JobFilterRequest{Mine: true, IncludeClosed: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID, first.ID}, ids(mine.Items, func(j dto.JobResponse) int64 { return j.ID }))
}

func TestJobService_ReferralFlow(t *testing.T) {
	f := newJobFixture()
	job := f.post(t, true, nil)
	resume, err := f.docs.Create(bg, &models.Document{OwnerID: f.student.ID, DocType: models.DocResume, Status: models.DocumentPending})
	require.NoError(t, err)

	rr, err := f.svc.RequestReferral(bg, actorOf(f.student), job.ID, &dto.CreateReferralRequest{Message: "Hi", ResumeDocumentID: &resume})
	require.NoError(t, err)
	assert.Equal(t, models.ReferralPending, rr.Status)
	require.NotNil(t, rr.Student)
	assert.Len(t, f.notifier.to(f.alumni.ID), 1)

	_, err = f.svc.RequestReferral(bg, actorOf(f.student), job.ID, &dto.CreateReferralRequest{})
	assert.ErrorIs(t, err, apperrors.ErrReferralExists)

	list, err := f.svc.ListReferrals(bg, actorOf(f.alumni), job.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = f.svc.ListReferrals(bg, actorOf(f.student), job.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	reviewed, err := f.svc.ReviewReferral(bg, actorOf(f.alumni), rr.ID, &dto.ReviewReferralRequest{Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, models.ReferralAccepted, reviewed.Status)
	assert.Len(t, f.notifier.to(f.student.ID), 1)

	_, err = f.svc.ReviewReferral(bg, actorOf(f.alumni), rr.ID, &dto.ReviewReferralRequest{Status: "rejected"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	mine, err := f.svc.MyReferrals(bg, actorOf(f.student))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.ReferralAccepted, mine[0].Status)
}

func TestJobService_RequestReferralRejects(t *testing.T) {
	f := newJobFixture()
	noReferral := f.post(t, false, nil)
	soon := testNow.Add(time.Hour)
	expiring := f.post(t, true, &soon)
	open := f.post(t, true, nil)

	_, err := f.svc.RequestReferral(bg, actorOf(f.alumni), open.ID, &dto.CreateReferralRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.RequestReferral(bg, actorOf(f.student), noReferral.ID, &dto.CreateReferralRequest{})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	other := f.users.add(models.User{FullName: "Bob", Role: models.RoleStudent, IsActive: true})
	foreign, err := f.docs.Create(bg, &models.Document{OwnerID: other.ID})
	require.NoError(t, err)
	_, err = f.svc.RequestReferral(bg, actorOf(f.student), open.ID, &dto.CreateReferralRequest{ResumeDocumentID: &foreign})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	missing := int64(404)
	_, err = f.svc.RequestReferral(bg, actorOf(f.student), open.ID, &dto.CreateReferralRequest{ResumeDocumentID: &missing})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	f.svc.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	_, err = f.svc.RequestReferral(bg, actorOf(f.student), expiring.ID, &dto.CreateReferralRequest{})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	n, err := f.svc.CloseExpired(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
