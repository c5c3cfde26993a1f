package models

import "time"

// EmploymentType is the kind of position a posting offers
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentInternship EmploymentType = "internship"
	EmploymentContract   EmploymentType = "contract"
)

// JobStatus tells whether a posting accepts applications
type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

// JobPosting is an entry on the job / referral board
type JobPosting struct {
	ID                int64          `json:"id" db:"id"`
	PostedBy          int64          `json:"postedBy" db:"posted_by"`
	Company           string         `json:"company" db:"company"`
	Title             string         `json:"title" db:"title"`
	Location          string         `json:"location" db:"location"`
	EmploymentType    EmploymentType `json:"employmentType" db:"employment_type"`
	Description       string         `json:"description" db:"description"`
	ApplyURL          string         `json:"applyUrl" db:"apply_url"`
	ReferralAvailable bool           `json:"referralAvailable" db:"referral_available"`
	Deadline          *time.Time     `json:"deadline,omitempty" db:"deadline"`
	Status            JobStatus      `json:"status" db:"status"`
	CreatedAt         time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time      `json:"updatedAt" db:"updated_at"`
}

// Expired reports whether the deadline passed at now.
func (j *JobPosting) Expired(now time.Time) bool {
	return j.Deadline != nil && j.Deadline.Before(now)
}

// ReferralStatus is the state of a student's referral request
type ReferralStatus string

const (
	ReferralPending  ReferralStatus = "pending"
	ReferralAccepted ReferralStatus = "accepted"
	ReferralRejected ReferralStatus = "rejected"
)

// ReferralRequest is a student's request for a referral on a posting
type ReferralRequest struct {
	ID               int64          `json:"id" db:"id"`
	JobID            int64          `json:"jobId" db:"job_id"`
	StudentID        int64          `json:"studentId" db:"student_id"`
	Message          string         `json:"message" db:"message"`
	ResumeDocumentID *int64         `json:"resumeDocumentId,omitempty" db:"resume_document_id"`
	Status           ReferralStatus `json:"status" db:"status"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" db:"updated_at"`
}
