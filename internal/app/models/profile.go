package models

// StudentDetails holds the student specific profile ('student_details' table)
type StudentDetails struct {
	UserID       int64    `json:"userId" db:"user_id"`
	EnrollmentNo string   `json:"enrollmentNo" db:"enrollment_no"`
	Department   string   `json:"department" db:"department"`
	BatchYear    int      `json:"batchYear" db:"batch_year"`
	Interests    []string `json:"interests" db:"interests"`
}

// AlumniDetails holds the alumni specific profile ('alumni_details' table)
type AlumniDetails struct {
	UserID                 int64    `json:"userId" db:"user_id"`
	Company                string   `json:"company" db:"company"`
	JobTitle               string   `json:"jobTitle" db:"job_title"`
	Department             string   `json:"department" db:"department"`
	BatchYear              int      `json:"batchYear" db:"batch_year"`
	Industry               string   `json:"industry" db:"industry"`
	Location               string   `json:"location" db:"location"`
	Expertise              []string `json:"expertise" db:"expertise"`
	LinkedInURL            string   `json:"linkedinUrl" db:"linkedin_url"`
	Bio                    string   `json:"bio" db:"bio"`
	VerificationStatus     bool     `json:"verificationStatus" db:"verification_status"`
	AvailableForMentorship bool     `json:"availableForMentorship" db:"available_for_mentorship"`
}

// AlumniProfile joins a user row with its alumni details
type AlumniProfile struct {
	User    User
	Details AlumniDetails
}

// StudentProfile joins a user row with its student details
type StudentProfile struct {
	User    User
	Details StudentDetails
}
