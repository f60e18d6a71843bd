package model

import (
	"errors"
	"time"
)

// Video represents an uploaded video's metadata.
type Video struct {
	ID           int64     `db:"id" json:"id"`
	CreatorID    int64     `db:"creator_id" json:"creator_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	VideoURL     string    `db:"video_url" json:"video_url"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail_url"`
	Duration     int       `db:"duration" json:"duration"` // seconds
	Category     string    `db:"category" json:"category"`
	ViewCount    int64     `db:"view_count" json:"views"`
	LikeCount    int       `db:"like_count" json:"like_count"`
	DislikeCount int       `db:"dislike_count" json:"dislike_count"`
	CommentCount int       `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `db:"created_at" json:"upload_date"`

	// Joined field (not in videos table)
	Creator *UserSummary `json:"creator,omitempty"`
}

// Pagination is the envelope attached to paginated listings.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

// VideoListResponse is the paginated catalog response.
type VideoListResponse struct {
	Videos     []Video    `json:"videos"`
	Pagination Pagination `json:"pagination"`
}

// UploadVideoRequest carries the metadata fields of a multipart upload.
type UploadVideoRequest struct {
	Title       string
	Description string
	Category    string
	Duration    int
}

// UpdateVideoRequest is the request body for editing video metadata.
type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// ReactionKind is a video reactor set: like or dislike.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// VideoReactionResponse is returned by the like/dislike toggles.
// Exactly one of UserLiked/UserDisliked is set, matching the toggled kind.
type VideoReactionResponse struct {
	Likes        int   `json:"likes"`
	Dislikes     int   `json:"dislikes"`
	UserLiked    *bool `json:"userLiked,omitempty"`
	UserDisliked *bool `json:"userDisliked,omitempty"`
}

// Categories allowed for videos. Anything else defaults to CategoryOther
// on upload and behaves as "no filter" in listings.
var Categories = []string{"Music", "Gaming", "Education", "Entertainment", "Sport", "Comedy", "News", "Other"}

const CategoryOther = "Other"

// IsValidCategory reports whether c is one of the known categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Video constraints
const (
	MaxVideoTitleLength  = 100
	MaxSearchQueryLength = 100
	MaxVideoSizeBytes    = 250 * 1024 * 1024 // 250MB upload cap
	VideoFolder          = "videos"
	ThumbnailFolder      = "thumbnails"
	ThumbnailWidth       = 320
	ThumbnailHeight      = 180
	RecommendedLimit     = 10
	RecommendedMinBeforePad = 5
)

// Video errors
var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrNotVideoCreator    = errors.New("not the creator of this video")
	ErrTitleRequired      = errors.New("video title is required")
	ErrTitleTooLong       = errors.New("video title too long")
	ErrDescriptionTooLong = errors.New("video description too long")
	ErrSearchQueryMissing = errors.New("search query required")
	ErrSearchQueryTooLong = errors.New("search query too long")
	ErrNoVideoProvided    = errors.New("no video file provided")
	ErrFileTooLarge       = errors.New("file too large")
	ErrInvalidImageType   = errors.New("unsupported image type")
)

// Allowed thumbnail/avatar content types.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// IsAllowedImageType reports whether the content type may be uploaded as an image.
func IsAllowedImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}

// UploadResult describes an object stored in the media bucket.
type UploadResult struct {
	URL string
	Key string
}
