package model

import (
	"errors"
	"time"
)

// Comment is a content unit attached to a video, optionally nested one level.
type Comment struct {
	ID              int64        `db:"id" json:"id"`
	VideoID         int64        `db:"video_id" json:"video_id"`
	UserID          int64        `db:"user_id" json:"-"`
	Content         string       `db:"content" json:"content"`
	ParentCommentID *int64       `db:"parent_comment_id" json:"parent_comment_id,omitempty"`
	LikeCount       int          `db:"like_count" json:"like_count"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	Author          *UserSummary `json:"author,omitempty"` // Joined field

	// ReplyCount is derived on read for top-level listings, never stored.
	ReplyCount int `db:"reply_count" json:"reply_count"`
}

// CreateCommentRequest is the request body for posting a comment or reply.
type CreateCommentRequest struct {
	VideoID         int64  `json:"video_id"`
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

// CreateCommentResponse wraps a freshly posted comment.
type CreateCommentResponse struct {
	Message string   `json:"message"`
	Comment *Comment `json:"comment"`
}

// CommentLikeResponse is returned by the comment like toggle.
type CommentLikeResponse struct {
	Likes     int  `json:"likes"`
	UserLiked bool `json:"userLiked"`
}

// Comment constraints
const (
	MaxCommentLength = 1400
)

// Comment errors
var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("not the author of this comment")
	ErrContentRequired  = errors.New("comment content is required")
	ErrContentTooLong   = errors.New("comment content too long")
	ErrParentMismatch   = errors.New("parent comment does not belong to this video")

	// ErrReplyTooDeep rejects a reply whose parent is itself a reply.
	// Threads are exactly one level deep.
	ErrReplyTooDeep = errors.New("replies to replies are not allowed")
)
