package services

import (
	"context"
	"slices"
	"strings"

	"github.com/yigit/alumniconnect/internal/app/models"
	"github.com/yigit/alumniconnect/internal/app/models/dto"
	"github.com/yigit/alumniconnect/internal/pkg/helpers"
)

// Alumni directory orderings
const (
	SortBatchDesc = "batch_desc"
	SortBatchAsc  = "batch_asc"
	SortName      = "name"
)

// FilterAlumni keeps the profiles matching every set criterion. Search is a case-insensitive
// substring over name, company, job title and expertise.
func FilterAlumni(list []models.AlumniProfile, q dto.AlumniDirectoryRequest) []models.AlumniProfile {
	search := strings.TrimSpace(q.Search)
	out := make([]models.AlumniProfile, 0, len(list))
	for _, p := range list {
		d := p.Details
		if search != "" && !alumniMatches(p, search) {
			continue
		}
		if q.Department != "" && !strings.EqualFold(d.Department, strings.TrimSpace(q.Department)) {
			continue
		}
		if q.Industry != "" && !strings.EqualFold(d.Industry, strings.TrimSpace(q.Industry)) {
			continue
		}
		if q.BatchYear != nil && d.BatchYear != *q.BatchYear {
			continue
		}
		if q.Verified != nil && d.VerificationStatus != *q.Verified {
			continue
		}
		if q.Available != nil && d.AvailableForMentorship != *q.Available {
			continue
		}
		out = append(out, p)
	}
	return out
}

func alumniMatches(p models.AlumniProfile, search string) bool {
	if helpers.ContainsFold(p.User.FullName, search) ||
		helpers.ContainsFold(p.Details.Company, search) ||
		helpers.ContainsFold(p.Details.JobTitle, search) {
		return true
	}
	for _, e := range p.Details.Expertise {
		if helpers.ContainsFold(e, search) {
			return true
		}
	}
	return false
}

// SortAlumni returns a sorted copy. The default is batch year descending with ties by name.
func SortAlumni(list []models.AlumniProfile, order string) []models.AlumniProfile {
	out := slices.Clone(list)
	byName := func(a, b models.AlumniProfile) int {
		return strings.Compare(strings.ToLower(a.User.FullName), strings.ToLower(b.User.FullName))
	}
	switch order {
	case SortName:
		slices.SortStableFunc(out, byName)
	case SortBatchAsc:
		slices.SortStableFunc(out, func(a, b models.AlumniProfile) int {
			if a.Details.BatchYear != b.Details.BatchYear {
				return a.Details.BatchYear - b.Details.BatchYear
			}
			return byName(a, b)
		})
	default:
		slices.SortStableFunc(out, func(a, b models.AlumniProfile) int {
			if a.Details.BatchYear != b.Details.BatchYear {
				return b.Details.BatchYear - a.Details.BatchYear
			}
			return byName(a, b)
		})
	}
	return out
}

// FilterStudents keeps the student profiles matching every set criterion
func FilterStudents(list []models.StudentProfile, q dto.StudentDirectoryRequest) []models.StudentProfile {
	search := strings.TrimSpace(q.Search)
	out := make([]models.StudentProfile, 0, len(list))
	for _, p := range list {
		if search != "" && !studentMatches(p, search) {
			continue
		}
		if q.Department != "" && !strings.EqualFold(p.Details.Department, strings.TrimSpace(q.Department)) {
			continue
		}
		if q.BatchYear != nil && p.Details.BatchYear != *q.BatchYear {
			continue
		}
		out = append(out, p)
	}
	return out
}

func studentMatches(p models.StudentProfile, search string) bool {
	if helpers.ContainsFold(p.User.FullName, search) {
		return true
	}
	for _, i := range p.Details.Interests {
		if helpers.ContainsFold(i, search) {
			return true
		}
	}
	return false
}

// DirectoryService lists alumni and students
type DirectoryService struct {
	profileRepo ProfileStore
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(profileRepo ProfileStore) *DirectoryService {
	return &DirectoryService{profileRepo: profileRepo}
}

// ListAlumni filters, sorts and paginates the alumni directory
func (s *DirectoryService) ListAlumni(ctx context.Context, req dto.AlumniDirectoryRequest) (*dto.ListResponse[dto.AlumniCard], error) {
	all, err := s.profileRepo.ListAlumniProfiles(ctx)
	if err != nil {
		return nil, err
	}

	page, info := helpers.Paginate(SortAlumni(FilterAlumni(all, req), req.Sort), req.Page, req.PageSize)

	cards := make([]dto.AlumniCard, 0, len(page))
	for _, p := range page {
		cards = append(cards, dto.NewAlumniCard(p))
	}
	return &dto.ListResponse[dto.AlumniCard]{Items: cards, Pagination: info}, nil
}

// ListStudents filters and paginates the student directory, ordered by name
func (s *DirectoryService) ListStudents(ctx context.Context, req dto.StudentDirectoryRequest) (*dto.ListResponse[dto.StudentCard], error) {
	all, err := s.profileRepo.ListStudentProfiles(ctx)
	if err != nil {
		return nil, err
	}

	filtered := FilterStudents(all, req)
	slices.SortStableFunc(filtered, func(a, b models.StudentProfile) int {
		return strings.Compare(strings.ToLower(a.User.FullName), strings.ToLower(b.User.FullName))
	})
	page, info := helpers.Paginate(filtered, req.Page, req.PageSize)

	cards := make([]dto.StudentCard, 0, len(page))
	for _, p := range page {
		cards = append(cards, dto.NewStudentCard(p))
	}
	return &dto.ListResponse[dto.StudentCard]{Items: cards, Pagination: info}, nil
}
