package model

import "time"

// WatchHistoryEntry records that a user watched a video. Re-watching bumps
// WatchedAt instead of inserting a duplicate.
type WatchHistoryEntry struct {
	VideoID   int64     `db:"video_id" json:"-"`
	WatchedAt time.Time `db:"watched_at" json:"watched_at"`
	Video     *Video    `json:"video"` // Joined field
}

// WatchHistoryCap is the maximum number of history entries kept per user.
// Adding beyond the cap evicts the oldest entry.
const WatchHistoryCap = 100

// AddHistoryRequest is the request body for recording a watch.
type AddHistoryRequest struct {
	VideoID int64 `json:"video_id"`
}

// WatchLaterRequest is the request body for the watch-later toggle.
type WatchLaterRequest struct {
	VideoID int64 `json:"video_id"`
}

// WatchLaterResponse is returned by the watch-later toggle.
type WatchLaterResponse struct {
	Saved bool `json:"saved"`
}

// LibraryResponse bundles a user's uploads with the videos they liked.
type LibraryResponse struct {
	Uploads     []Video `json:"uploads"`
	LikedVideos []Video `json:"likedVideos"`
}
