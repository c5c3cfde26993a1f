// Package models contains the row shapes persisted by the repositories.
package models

// PlatformStats aggregates counts for the admin dashboard
type PlatformStats struct {
	UsersByRole          map[Role]int64          `json:"usersByRole"`
	PendingVerifications int64                   `json:"pendingVerifications"`
	SessionsByStatus     map[SessionStatus]int64 `json:"sessionsByStatus"`
	OpenJobs             int64                   `json:"openJobs"`
	UpcomingWebinars     int64                   `json:"upcomingWebinars"`
	PendingDocuments     int64                   `json:"pendingDocuments"`
	ForumPosts           int64                   `json:"forumPosts"`
}
