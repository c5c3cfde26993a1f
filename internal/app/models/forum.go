package models

import "time"

// ForumPost is a discussion thread
type ForumPost struct {
	ID           int64     `json:"id" db:"id"`
	AuthorID     int64     `json:"authorId" db:"author_id"`
	Title        string    `json:"title" db:"title"`
	Content      string    `json:"content" db:"content"`
	Category     string    `json:"category" db:"category"`
	Tags         []string  `json:"tags" db:"tags"`
	LikesCount   int       `json:"likesCount" db:"likes_count"`
	RepliesCount int       `json:"repliesCount" db:"replies_count"`
	IsPinned     bool      `json:"isPinned" db:"is_pinned"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// ForumReply is a reply inside a thread
type ForumReply struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ForumFilter narrows forum listings
type ForumFilter struct {
	Category string
	Search   string
	AuthorID *int64
}
