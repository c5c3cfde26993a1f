package models

import "time"

// DocumentType is the kind of uploaded document
type DocumentType string

const (
	DocResume     DocumentType = "resume"
	DocTranscript DocumentType = "transcript"
	DocDegree     DocumentType = "degree_certificate"
	DocIDProof    DocumentType = "id_proof"
	DocOther      DocumentType = "other"
)

// DocumentStatus is the admin review state of a document
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// Document is an uploaded file owned by a user
type Document struct {
	ID         int64          `json:"id" db:"id"`
	OwnerID    int64          `json:"ownerId" db:"owner_id"`
	Title      string         `json:"title" db:"title"`
	DocType    DocumentType   `json:"docType" db:"doc_type"`
	FileName   string         `json:"fileName" db:"file_name"`
	FilePath   string         `json:"-" db:"file_path"`
	FileURL    string         `json:"fileUrl" db:"file_url"`
	FileSize   int64          `json:"fileSize" db:"file_size"`
	MimeType   string         `json:"mimeType" db:"mime_type"`
	Status     DocumentStatus `json:"status" db:"status"`
	ReviewNote *string        `json:"reviewNote,omitempty" db:"review_note"`
	ReviewedBy *int64         `json:"reviewedBy,omitempty" db:"reviewed_by"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at"`
}

// DocumentFilter narrows document listings
type DocumentFilter struct {
	OwnerID *int64
	Status  *DocumentStatus
}
