package dto

import "github.com/yigit/alumniconnect/internal/app/models"

// CreatePostRequest opens a forum thread
type CreatePostRequest struct {
	Title    string   `json:"title" binding:"required,min=3,max=200"`
	Content  string   `json:"content" binding:"required,max=20000"`
	Category string   `json:"category" binding:"omitempty,max=50"`
	Tags     []string `json:"tags" binding:"max=10,dive,max=30"`
}

// UpdatePostRequest edits the provided fields of a thread
type UpdatePostRequest struct {
	Title    *string  `json:"title" binding:"omitempty,min=3,max=200"`
	Content  *string  `json:"content" binding:"omitempty,max=20000"`
	Category *string  `json:"category" binding:"omitempty,max=50"`
	Tags     []string `json:"tags" binding:"omitempty,max=10,dive,max=30"`
}

// CreateReplyRequest replies to a thread
type CreateReplyRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

// PinPostRequest pins or unpins a thread
type PinPostRequest struct {
	Pinned *bool `json:"pinned" binding:"required"`
}

// ForumFilterRequest holds forum listing query parameters
type ForumFilterRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Sort     string `form:"sort" binding:"omitempty,oneof=recent popular"`
	PageRequest
}

// PostResponse is a thread with its author and the caller's like state
type PostResponse struct {
	models.ForumPost
	Author    *UserSummary `json:"author,omitempty"`
	LikedByMe bool         `json:"likedByMe"`
}

// ReplyResponse is a reply with its author
type ReplyResponse struct {
	models.ForumReply
	Author *UserSummary `json:"author,omitempty"`
}

// PostDetailResponse is a thread with its replies
type PostDetailResponse struct {
	PostResponse
	Replies []ReplyResponse `json:"replies"`
}

// LikeResponse reports the like state after a toggle
type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
