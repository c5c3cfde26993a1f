package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/pkg/apperrors"
	"github.com/yigit/alumniconnect/internal/pkg/email"
	"github.com/yigit/alumniconnect/internal/pkg/filestorage"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
)

var (
	testNow    = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	testLogger = zerolog.Nop()
	bg         = context.Background()
)

func fixedNow() time.Time { return testNow }

// --- users ---

type fakeUsers struct {
	mu       sync.Mutex
	users    map[int64]*models.User
	nextID   int64
	profiles *fakeProfiles
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]*models.User{}}
}

func (f *fakeUsers) add(u models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	if u.Email == "" {
		u.Email = strings.ToLower(strings.ReplaceAll(u.FullName, " ", ".")) + "@example.com"
	}
	u.CreatedAt = testNow
	f.users[u.ID] = &u
	c := u
	return &c
}

func (f *fakeUsers) CreateWithProfile(_ context.Context, user *models.User, student *models.StudentDetails, alumni *models.AlumniDetails) (int64, error) {
	f.mu.Lock()
	for _, u := range f.users {
		if u.Email == user.Email {
			f.mu.Unlock()
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	f.mu.Unlock()

	created := f.add(*user)
	user.ID = created.ID
	if f.profiles != nil {
		if student != nil {
			student.UserID = created.ID
			_ = f.profiles.UpsertStudent(context.Background(), student)
		}
		if alumni != nil {
			alumni.UserID = created.ID
			f.profiles.putAlumni(*alumni)
		}
	}
	return created.ID, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetByIDs(_ context.Context, ids []int64) (map[int64]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]*models.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			c := *u
			out[id] = &c
		}
	}
	return out, nil
}

func (f *fakeUsers) List(_ context.Context, filter models.UserFilter, limit, offset uint64) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.User
	for _, u := range f.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(u.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, limit, offset), int64(len(all)), nil
}

func (f *fakeUsers) update(id int64, fn func(u *models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	fn(u)
	return nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	return f.update(id, func(u *models.User) { u.LastLoginAt = &at })
}

func (f *fakeUsers) UpdateName(_ context.Context, id int64, name string) error {
	return f.update(id, func(u *models.User) { u.FullName = name })
}

func (f *fakeUsers) UpdateAvatar(_ context.Context, id int64, url *string) error {
	return f.update(id, func(u *models.User) { u.AvatarURL = url })
}

func (f *fakeUsers) SetActive(_ context.Context, id int64, active bool) error {
	return f.update(id, func(u *models.User) { u.IsActive = active })
}

func window[T any](items []T, limit, offset uint64) []T {
	if offset >= uint64(len(items)) {
		return []T{}
	}
	end := offset + limit
	if end > uint64(len(items)) {
		end = uint64(len(items))
	}
	return items[offset:end]
}

// --- tokens ---

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeTokens() *fakeTokens { return &fakeTokens{tokens: map[string]*models.RefreshToken{}} }

func (f *fakeTokens) Create(_ context.Context, t models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[t.Token] = &t
	return nil
}

func (f *fakeTokens) Get(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeTokens) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	if t.IsRevoked {
		return apperrors.ErrTokenRevoked
	}
	t.IsRevoked = true
	return nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.UserID == userID {
			t.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeTokens) activeFor(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tokens {
		if t.UserID == userID && !t.IsRevoked {
			n++
		}
	}
	return n
}

// --- profiles ---

type fakeProfiles struct {
	mu       sync.Mutex
	students map[int64]models.StudentDetails
	alumni   map[int64]models.AlumniDetails
	users    *fakeUsers
}

func newFakeProfiles(users *fakeUsers) *fakeProfiles {
	p := &fakeProfiles{students: map[int64]models.StudentDetails{}, alumni: map[int64]models.AlumniDetails{}, users: users}
	users.profiles = p
	return p
}

func (f *fakeProfiles) putAlumni(d models.AlumniDetails) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alumni[d.UserID] = d
}

func (f *fakeProfiles) GetStudent(_ context.Context, userID int64) (*models.StudentDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.students[userID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &d, nil
}

func (f *fakeProfiles) GetAlumni(_ context.Context, userID int64) (*models.AlumniDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.alumni[userID]
	if !ok {
		return nil, apperrors.ErrAlumniNotFound
	}
	return &d, nil
}

func (f *fakeProfiles) UpsertStudent(_ context.Context, d *models.StudentDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.students[d.UserID] = *d
	return nil
}

func (f *fakeProfiles) UpsertAlumni(_ context.Context, d *models.AlumniDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.VerificationStatus = f.alumni[d.UserID].VerificationStatus
	f.alumni[d.UserID] = *d
	return nil
}

func (f *fakeProfiles) ToggleVerification(_ context.Context, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.alumni[userID]
	if !ok {
		return false, apperrors.ErrAlumniNotFound
	}
	d.VerificationStatus = !d.VerificationStatus
	f.alumni[userID] = d
	return d.VerificationStatus, nil
}

func (f *fakeProfiles) ListAlumniProfiles(ctx context.Context) ([]models.AlumniProfile, error) {
	f.mu.Lock()
	ids := make([]int64, 0, len(f.alumni))
	for id := range f.alumni {
		ids = append(ids, id)
	}
	f.mu.Unlock()
	slices.Sort(ids)

	var out []models.AlumniProfile
	for _, id := range ids {
		u, err := f.users.GetByID(ctx, id)
		if err != nil || !u.IsActive {
			continue
		}
		d, _ := f.GetAlumni(ctx, id)
		out = append(out, models.AlumniProfile{User: *u, Details: *d})
	}
	return out, nil
}

func (f *fakeProfiles) ListStudentProfiles(ctx context.Context) ([]models.StudentProfile, error) {
	f.mu.Lock()
	ids := make([]int64, 0, len(f.students))
	for id := range f.students {
		ids = append(ids, id)
	}
	f.mu.Unlock()
	slices.Sort(ids)

	var out []models.StudentProfile
	for _, id := range ids {
		u, err := f.users.GetByID(ctx, id)
		if err != nil || !u.IsActive {
			continue
		}
		d, _ := f.GetStudent(ctx, id)
		out = append(out, models.StudentProfile{User: *u, Details: *d})
	}
	return out, nil
}

// --- sessions ---

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[int64]*models.MentorshipSession
	nextID   int64
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[int64]*models.MentorshipSession{}}
}

func (f *fakeSessions) Create(_ context.Context, s *models.MentorshipSession) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt, s.UpdatedAt = testNow, testNow
	c := *s
	f.sessions[s.ID] = &c
	return s.ID, nil
}

func (f *fakeSessions) GetByID(_ context.Context, id int64) (*models.MentorshipSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	c := *s
	return &c, nil
}

func (f *fakeSessions) List(_ context.Context, filter models.SessionFilter) ([]models.MentorshipSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MentorshipSession
	for _, s := range f.sessions {
		if filter.AlumniID != nil && s.AlumniID != *filter.AlumniID {
			continue
		}
		if filter.StudentID != nil && s.StudentID != *filter.StudentID {
			continue
		}
		out = append(out, *s)
	}
	// map order is random; services must sort
	return out, nil
}

func (f *fakeSessions) Transition(_ context.Context, s *models.MentorshipSession, from models.SessionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.sessions[s.ID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if cur.Status != from {
		return apperrors.NewTransitionError(string(cur.Status), string(s.Status))
	}
	c := *s
	f.sessions[s.ID] = &c
	return nil
}

func (f *fakeSessions) SaveFeedback(_ context.Context, s *models.MentorshipSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.sessions[s.ID]
	if !ok || cur.Status != models.SessionCompleted || cur.Rating != nil {
		return apperrors.ErrFeedbackExists
	}
	cur.Rating, cur.Feedback, cur.UpdatedAt = s.Rating, s.Feedback, testNow
	return nil
}

func (f *fakeSessions) HasAcceptedOverlap(_ context.Context, alumniID int64, start, end time.Time, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == excludeID || s.AlumniID != alumniID || s.Status != models.SessionAccepted {
			continue
		}
		if s.ScheduledAt.Before(end) && s.EndsAt().After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessions) CompleteElapsed(_ context.Context, now time.Time) ([]models.MentorshipSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MentorshipSession
	for _, s := range f.sessions {
		if s.Status == models.SessionAccepted && !s.EndsAt().After(now) {
			s.Status = models.SessionCompleted
			out = append(out, *s)
		}
	}
	return out, nil
}

// --- webinars ---

type fakeWebinars struct {
	mu       sync.Mutex
	webinars map[int64]*models.Webinar
	regs     map[int64][]int64
	nextID   int64
}

func newFakeWebinars() *fakeWebinars {
	return &fakeWebinars{webinars: map[int64]*models.Webinar{}, regs: map[int64][]int64{}}
}

func (f *fakeWebinars) Create(_ context.Context, w *models.Webinar) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	w.ID = f.nextID
	c := *w
	f.webinars[w.ID] = &c
	return w.ID, nil
}

func (f *fakeWebinars) GetByID(_ context.Context, id int64) (*models.Webinar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.webinars[id]
	if !ok {
		return nil, apperrors.ErrWebinarNotFound
	}
	c := *w
	c.RegisteredCount = len(f.regs[id])
	return &c, nil
}

func (f *fakeWebinars) Update(_ context.Context, w *models.Webinar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.webinars[w.ID]; !ok {
		return apperrors.ErrWebinarNotFound
	}
	c := *w
	f.webinars[w.ID] = &c
	return nil
}

func (f *fakeWebinars) List(_ context.Context, filter models.WebinarFilter, limit, offset uint64) ([]models.Webinar, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Webinar
	for _, w := range f.webinars {
		if filter.HostID != nil && w.HostID != *filter.HostID {
			continue
		}
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		if filter.Upcoming && w.ScheduledAt.Before(filter.Now) {
			continue
		}
		c := *w
		c.RegisteredCount = len(f.regs[w.ID])
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ScheduledAt.Before(all[j].ScheduledAt) })
	return window(all, limit, offset), int64(len(all)), nil
}

func (f *fakeWebinars) Register(_ context.Context, webinarID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.webinars[webinarID]
	if !ok {
		return apperrors.ErrWebinarNotFound
	}
	if slices.Contains(f.regs[webinarID], userID) {
		return apperrors.ErrAlreadyRegistered
	}
	if w.Capacity > 0 && len(f.regs[webinarID]) >= w.Capacity {
		return apperrors.ErrCapacityReached
	}
	f.regs[webinarID] = append(f.regs[webinarID], userID)
	return nil
}

func (f *fakeWebinars) Unregister(_ context.Context, webinarID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.Index(f.regs[webinarID], userID)
	if i < 0 {
		return apperrors.NewResourceNotFoundError("registration not found")
	}
	f.regs[webinarID] = slices.Delete(f.regs[webinarID], i, i+1)
	return nil
}

func (f *fakeWebinars) RegisteredWebinarIDs(_ context.Context, userID int64, ids []int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]bool{}
	for _, id := range ids {
		if slices.Contains(f.regs[id], userID) {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeWebinars) RegistrantIDs(_ context.Context, webinarID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.regs[webinarID]), nil
}

func (f *fakeWebinars) CompletePast(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, w := range f.webinars {
		end := w.ScheduledAt.Add(time.Duration(w.DurationMinutes) * time.Minute)
		if w.Status == models.WebinarScheduled && !end.After(now) {
			w.Status = models.WebinarCompleted
			n++
		}
	}
	return n, nil
}

// --- jobs ---

type fakeJobs struct {
	mu        sync.Mutex
	jobs      map[int64]*models.JobPosting
	referrals map[int64]*models.ReferralRequest
	nextID    int64
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: map[int64]*models.JobPosting{}, referrals: map[int64]*models.ReferralRequest{}}
}

func (f *fakeJobs) Create(_ context.Context, j *models.JobPosting) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	j.ID = f.nextID
	j.CreatedAt = testNow.Add(time.Duration(j.ID) * time.Minute)
	c := *j
	f.jobs[j.ID] = &c
	return j.ID, nil
}

func (f *fakeJobs) GetByID(_ context.Context, id int64) (*models.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperrors.ErrJobNotFound
	}
	c := *j
	return &c, nil
}

func (f *fakeJobs) Update(_ context.Context, j *models.JobPosting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[j.ID]; !ok {
		return apperrors.ErrJobNotFound
	}
	c := *j
	f.jobs[j.ID] = &c
	return nil
}

func (f *fakeJobs) List(_ context.Context, includeClosed bool, postedBy *int64) ([]models.JobPosting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.JobPosting
	for _, j := range f.jobs {
		if !includeClosed && j.Status != models.JobOpen {
			continue
		}
		if postedBy != nil && j.PostedBy != *postedBy {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (f *fakeJobs) CloseExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, j := range f.jobs {
		if j.Status == models.JobOpen && j.Expired(now) {
			j.Status = models.JobClosed
			n++
		}
	}
	return n, nil
}

func (f *fakeJobs) CreateReferral(_ context.Context, rr *models.ReferralRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.referrals {
		if existing.JobID == rr.JobID && existing.StudentID == rr.StudentID {
			return 0, apperrors.ErrReferralExists
		}
	}
	f.nextID++
	rr.ID = f.nextID
	c := *rr
	f.referrals[rr.ID] = &c
	return rr.ID, nil
}

func (f *fakeJobs) GetReferral(_ context.Context, id int64) (*models.ReferralRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rr, ok := f.referrals[id]
	if !ok {
		return nil, apperrors.ErrReferralNotFound
	}
	c := *rr
	return &c, nil
}

func (f *fakeJobs) UpdateReferralStatus(_ context.Context, id int64, from, to models.ReferralStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rr, ok := f.referrals[id]
	if !ok || rr.Status != from {
		return apperrors.NewTransitionError(string(from), string(to))
	}
	rr.Status = to
	return nil
}

func (f *fakeJobs) listReferrals(keep func(*models.ReferralRequest) bool) []models.ReferralRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ReferralRequest
	for _, rr := range f.referrals {
		if keep(rr) {
			out = append(out, *rr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeJobs) ListReferralsByJob(_ context.Context, jobID int64) ([]models.ReferralRequest, error) {
	return f.listReferrals(func(rr *models.ReferralRequest) bool { return rr.JobID == jobID }), nil
}

func (f *fakeJobs) ListReferralsByStudent(_ context.Context, studentID int64) ([]models.ReferralRequest, error) {
	return f.listReferrals(func(rr *models.ReferralRequest) bool { return rr.StudentID == studentID }), nil
}

// --- documents ---

type fakeDocuments struct {
	mu     sync.Mutex
	docs   map[int64]*models.Document
	nextID int64
}

func newFakeDocuments() *fakeDocuments { return &fakeDocuments{docs: map[int64]*models.Document{}} }

func (f *fakeDocuments) Create(_ context.Context, d *models.Document) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	d.ID = f.nextID
	c := *d
	f.docs[d.ID] = &c
	return d.ID, nil
}

func (f *fakeDocuments) GetByID(_ context.Context, id int64) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return nil, apperrors.ErrDocumentNotFound
	}
	c := *d
	return &c, nil
}

func (f *fakeDocuments) List(_ context.Context, filter models.DocumentFilter, limit, offset uint64) ([]models.Document, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Document
	for _, d := range f.docs {
		if filter.OwnerID != nil && d.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		all = append(all, *d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, limit, offset), int64(len(all)), nil
}

func (f *fakeDocuments) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return apperrors.ErrDocumentNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocuments) Review(_ context.Context, id int64, status models.DocumentStatus, note *string, reviewerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok || d.Status != models.DocumentPending {
		return apperrors.NewTransitionError(string(models.DocumentPending), string(status))
	}
	d.Status, d.ReviewNote, d.ReviewedBy = status, note, &reviewerID
	return nil
}

// --- forum ---

type fakeForum struct {
	mu      sync.Mutex
	posts   map[int64]*models.ForumPost
	replies map[int64]*models.ForumReply
	likes   map[[2]int64]bool
	nextID  int64
}

func newFakeForum() *fakeForum {
	return &fakeForum{posts: map[int64]*models.ForumPost{}, replies: map[int64]*models.ForumReply{}, likes: map[[2]int64]bool{}}
}

func (f *fakeForum) CreatePost(_ context.Context, p *models.ForumPost) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	c := *p
	f.posts[p.ID] = &c
	return p.ID, nil
}

func (f *fakeForum) GetPost(_ context.Context, id int64) (*models.ForumPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeForum) UpdatePost(_ context.Context, p *models.ForumPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[p.ID]; !ok {
		return apperrors.ErrPostNotFound
	}
	c := *p
	f.posts[p.ID] = &c
	return nil
}

func (f *fakeForum) DeletePost(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeForum) SetPinned(_ context.Context, id int64, pinned bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	p.IsPinned = pinned
	return nil
}

func (f *fakeForum) ListPosts(_ context.Context, filter models.ForumFilter, _ string, limit, offset uint64) ([]models.ForumPost, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.ForumPost
	for _, p := range f.posts {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].IsPinned != all[j].IsPinned {
			return all[i].IsPinned
		}
		return all[i].ID > all[j].ID
	})
	return window(all, limit, offset), int64(len(all)), nil
}

func (f *fakeForum) CreateReply(_ context.Context, r *models.ForumReply) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[r.PostID]
	if !ok {
		return 0, apperrors.ErrPostNotFound
	}
	f.nextID++
	r.ID = f.nextID
	c := *r
	f.replies[r.ID] = &c
	p.RepliesCount++
	return r.ID, nil
}

func (f *fakeForum) GetReply(_ context.Context, id int64) (*models.ForumReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.replies[id]
	if !ok {
		return nil, apperrors.ErrReplyNotFound
	}
	c := *r
	return &c, nil
}

func (f *fakeForum) ListReplies(_ context.Context, postID int64) ([]models.ForumReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ForumReply
	for _, r := range f.replies {
		if r.PostID == postID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeForum) DeleteReply(_ context.Context, r *models.ForumReply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.replies[r.ID]; !ok {
		return apperrors.ErrReplyNotFound
	}
	delete(f.replies, r.ID)
	if p, ok := f.posts[r.PostID]; ok && p.RepliesCount > 0 {
		p.RepliesCount--
	}
	return nil
}

func (f *fakeForum) ToggleLike(_ context.Context, postID, userID int64) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[postID]
	if !ok {
		return false, 0, apperrors.ErrPostNotFound
	}
	key := [2]int64{postID, userID}
	if f.likes[key] {
		delete(f.likes, key)
		p.LikesCount--
		return false, p.LikesCount, nil
	}
	f.likes[key] = true
	p.LikesCount++
	return true, p.LikesCount, nil
}

func (f *fakeForum) LikedPostIDs(_ context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]bool{}
	for _, id := range postIDs {
		if f.likes[[2]int64{id, userID}] {
			out[id] = true
		}
	}
	return out, nil
}

// --- events ---

type fakeEvents struct {
	mu     sync.Mutex
	events map[int64]*models.Event
	rsvps  map[[2]int64]bool
	nextID int64
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{events: map[int64]*models.Event{}, rsvps: map[[2]int64]bool{}}
}

func (f *fakeEvents) count(id int64) int {
	n := 0
	for k := range f.rsvps {
		if k[0] == id {
			n++
		}
	}
	return n
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	e.ID = f.nextID
	c := *e
	f.events[e.ID] = &c
	return e.ID, nil
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	c := *e
	c.AttendeeCount = f.count(id)
	return &c, nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	c := *e
	f.events[e.ID] = &c
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEvents) List(_ context.Context, filter models.EventFilter, limit, offset uint64) ([]models.Event, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Event
	for _, e := range f.events {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Upcoming && !e.EndsAt.After(filter.Now) {
			continue
		}
		c := *e
		c.AttendeeCount = f.count(e.ID)
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartsAt.Before(all[j].StartsAt) })
	return window(all, limit, offset), int64(len(all)), nil
}

func (f *fakeEvents) RSVP(_ context.Context, eventID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[eventID]; !ok {
		return apperrors.ErrEventNotFound
	}
	key := [2]int64{eventID, userID}
	if f.rsvps[key] {
		return apperrors.ErrAlreadyRSVPed
	}
	f.rsvps[key] = true
	return nil
}

func (f *fakeEvents) CancelRSVP(_ context.Context, eventID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{eventID, userID}
	if !f.rsvps[key] {
		return apperrors.NewResourceNotFoundError("rsvp not found")
	}
	delete(f.rsvps, key)
	return nil
}

func (f *fakeEvents) AttendingEventIDs(_ context.Context, userID int64, ids []int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]bool{}
	for _, id := range ids {
		if f.rsvps[[2]int64{id, userID}] {
			out[id] = true
		}
	}
	return out, nil
}

// --- notifications ---

type fakeNotifications struct {
	mu     sync.Mutex
	items  []models.Notification
	nextID int64
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = testNow
	f.items = append(f.items, *n)
	return n.ID, nil
}

func (f *fakeNotifications) List(_ context.Context, userID int64, unreadOnly bool, limit, offset uint64) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.Notification
	for i := len(f.items) - 1; i >= 0; i-- {
		n := f.items[i]
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		all = append(all, n)
	}
	return window(all, limit, offset), int64(len(all)), nil
}

func (f *fakeNotifications) CountUnread(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.items {
		if f.items[i].UserID == userID && !f.items[i].IsRead {
			f.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

// --- side effects ---

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) to(userID int64) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type published struct {
	userIDs []int64
	event   realtime.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (r *recordingPublisher) Publish(userIDs []int64, ev realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{userIDs: slices.Clone(userIDs), event: ev})
}

func (r *recordingPublisher) last() published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (m *recordingMailer) Send(msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (s *fakeStorage) Save(fh *multipart.FileHeader, subPath string, rules filestorage.UploadRules) (*filestorage.StoredFile, error) {
	if err := filestorage.Check(fh, rules); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path := subPath + "/stored" + strings.ToLower(filepath.Ext(fh.Filename))
	s.saved = append(s.saved, path)
	return &filestorage.StoredFile{
		Path:     path,
		URL:      "http://files.test/" + path,
		FileName: fh.Filename,
		Size:     fh.Size,
		MimeType: "application/pdf",
	}, nil
}

func (s *fakeStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, path)
	return nil
}

// fileHeader builds a real multipart header for name with content
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func actorOf(u *models.User) Actor { return Actor{UserID: u.ID, Role: u.Role} }
