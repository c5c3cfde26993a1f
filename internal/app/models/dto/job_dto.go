package dto

import (
	"time"

	"github.com/yigit/alumniconnect/internal/app/models"
)

// CreateJobRequest posts a job or referral opening
type CreateJobRequest struct {
	Company           string     `json:"company" binding:"required,max=150"`
	Title             string     `json:"title" binding:"required,max=200"`
	Location          string     `json:"location" binding:"max=150"`
	EmploymentType    string     `json:"employmentType" binding:"required,oneof=full_time part_time internship contract"`
	Description       string     `json:"description" binding:"max=10000"`
	ApplyURL          string     `json:"applyUrl" binding:"omitempty,url,max=500"`
	ReferralAvailable bool       `json:"referralAvailable"`
	Deadline          *time.Time `json:"deadline"`
}

// UpdateJobRequest changes the provided fields of a posting
type UpdateJobRequest struct {
	Company           *string    `json:"company" binding:"omitempty,max=150"`
	Title             *string    `json:"title" binding:"omitempty,max=200"`
	Location          *string    `json:"location" binding:"omitempty,max=150"`
	EmploymentType    *string    `json:"employmentType" binding:"omitempty,oneof=full_time part_time internship contract"`
	Description       *string    `json:"description" binding:"omitempty,max=10000"`
	ApplyURL          *string    `json:"applyUrl" binding:"omitempty,url,max=500"`
	ReferralAvailable *bool      `json:"referralAvailable"`
	Deadline          *time.Time `json:"deadline"`
	Status            *string    `json:"status" binding:"omitempty,oneof=open closed"`
}

// JobFilterRequest holds job board query parameters
type JobFilterRequest struct {
	Search        string `form:"search"`
	Type          string `form:"type" binding:"omitempty,oneof=full_time part_time internship contract"`
	Location      string `form:"location"`
	Referral      *bool  `form:"referral"`
	Mine          bool   `form:"mine"`
	IncludeClosed bool   `form:"includeClosed"`
	PageRequest
}

// CreateReferralRequest asks the poster for a referral
type CreateReferralRequest struct {
	Message          string `json:"message" binding:"max=2000"`
	ResumeDocumentID *int64 `json:"resumeDocumentId" binding:"omitempty,gt=0"`
}

// ReviewReferralRequest accepts or rejects a referral request
type ReviewReferralRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

// JobResponse is a posting with its poster
type JobResponse struct {
	models.JobPosting
	Poster *UserSummary `json:"poster,omitempty"`
}

// ReferralResponse is a referral request with the requesting student
type ReferralResponse struct {
	models.ReferralRequest
	Student *UserSummary `json:"student,omitempty"`
}
