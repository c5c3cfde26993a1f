package dto

import "github.com/yigit/alumniconnect/internal/app/models"

// ProfileResponse is a user with the details matching its role
type ProfileResponse struct {
	User    UserResponse           `json:"user"`
	Student *models.StudentDetails `json:"student,omitempty"`
	Alumni  *models.AlumniDetails  `json:"alumni,omitempty"`
}

// UpdateStudentProfileRequest updates the caller's student profile
type UpdateStudentProfileRequest struct {
	FullName string `json:"fullName" binding:"omitempty,min=2,max=100"`
	StudentDetailsInput
}

// UpdateAlumniProfileRequest updates the caller's alumni profile
type UpdateAlumniProfileRequest struct {
	FullName string `json:"fullName" binding:"omitempty,min=2,max=100"`
	AlumniDetailsInput
}

// AlumniDirectoryRequest holds the alumni directory query parameters
type AlumniDirectoryRequest struct {
	Search     string `form:"search"`
	Department string `form:"department"`
	Industry   string `form:"industry"`
	BatchYear  *int   `form:"batchYear"`
	Verified   *bool  `form:"verified"`
	Available  *bool  `form:"available"`
	Sort       string `form:"sort" binding:"omitempty,oneof=batch_desc batch_asc name"`
	PageRequest
}

// StudentDirectoryRequest holds the student directory query parameters
type StudentDirectoryRequest struct {
	Search     string `form:"search"`
	Department string `form:"department"`
	BatchYear  *int   `form:"batchYear"`
	PageRequest
}

// AlumniCard is a directory entry for an alumni
type AlumniCard struct {
	UserID                 int64    `json:"userId"`
	FullName               string   `json:"fullName"`
	AvatarURL              *string  `json:"avatarUrl,omitempty"`
	Company                string   `json:"company"`
	JobTitle               string   `json:"jobTitle"`
	Department             string   `json:"department"`
	BatchYear              int      `json:"batchYear"`
	Industry               string   `json:"industry"`
	Location               string   `json:"location"`
	Expertise              []string `json:"expertise"`
	VerificationStatus     bool     `json:"verificationStatus"`
	AvailableForMentorship bool     `json:"availableForMentorship"`
}

// StudentCard is a directory entry for a student
type StudentCard struct {
	UserID     int64    `json:"userId"`
	FullName   string   `json:"fullName"`
	AvatarURL  *string  `json:"avatarUrl,omitempty"`
	Department string   `json:"department"`
	BatchYear  int      `json:"batchYear"`
	Interests  []string `json:"interests"`
}

// NewAlumniCard maps a joined alumni profile to its directory entry
func NewAlumniCard(p models.AlumniProfile) AlumniCard {
	return AlumniCard{
		UserID:                 p.User.ID,
		FullName:               p.User.FullName,
		AvatarURL:              p.User.AvatarURL,
		Company:                p.Details.Company,
		JobTitle:               p.Details.JobTitle,
		Department:             p.Details.Department,
		BatchYear:              p.Details.BatchYear,
		Industry:               p.Details.Industry,
		Location:               p.Details.Location,
		Expertise:              p.Details.Expertise,
		VerificationStatus:     p.Details.VerificationStatus,
		AvailableForMentorship: p.Details.AvailableForMentorship,
	}
}

// NewStudentCard maps a joined student profile to its directory entry
func NewStudentCard(p models.StudentProfile) StudentCard {
	return StudentCard{
		UserID:     p.User.ID,
		FullName:   p.User.FullName,
		AvatarURL:  p.User.AvatarURL,
		Department: p.Details.Department,
		BatchYear:  p.Details.BatchYear,
		Interests:  p.Details.Interests,
	}
}
