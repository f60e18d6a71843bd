package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rubenreut/youtube-clone/internal/model"
)

type watchRepository struct {
	db *sqlx.DB
}

func NewWatchRepository(db *sqlx.DB) WatchRepository {
	return &watchRepository{db: db}
}

// UpsertHistory records a watch. Re-watching bumps watched_at, which moves
// the entry to the front of the most-recent-first listing.
func (r *watchRepository) UpsertHistory(ctx context.Context, tx *sqlx.Tx, userID, videoID int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()
	`, userID, videoID)
	if err != nil {
		return fmt.Errorf("upsert history: %w", err)
	}
	return nil
}

// TrimHistory evicts the oldest entries beyond the cap.
func (r *watchRepository) TrimHistory(ctx context.Context, tx *sqlx.Tx, userID int64, cap int) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM watch_history
		WHERE user_id = $1 AND video_id NOT IN (
			SELECT video_id FROM watch_history
			WHERE user_id = $1
			ORDER BY watched_at DESC
			LIMIT $2
		)
	`, userID, cap)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

// GetHistory returns entries most-recent-first with the video and its creator
// joined. The inner join drops entries whose video has since been deleted.
func (r *watchRepository) GetHistory(ctx context.Context, userID int64) ([]model.WatchHistoryEntry, error) {
	query := `
		SELECT h.video_id, h.watched_at,
		       v.id, v.creator_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.category, v.view_count, v.like_count, v.dislike_count, v.comment_count, v.created_at,
		       u.id as "creator.id", u.username as "creator.username",
		       u.channel_name as "creator.channel_name", u.profile_picture_url as "creator.profile_picture_url"
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users u ON u.id = v.creator_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
	`

	type historyRow struct {
		HistoryVideoID int64     `db:"video_id"`
		WatchedAt      time.Time `db:"watched_at"`
		ID             int64     `db:"id"`
		CreatorID      int64     `db:"creator_id"`
		Title          string    `db:"title"`
		Description    string    `db:"description"`
		VideoURL       string    `db:"video_url"`
		ThumbnailURL   string    `db:"thumbnail_url"`
		Duration       int       `db:"duration"`
		Category       string    `db:"category"`
		ViewCount      int64     `db:"view_count"`
		LikeCount      int       `db:"like_count"`
		DislikeCount   int       `db:"dislike_count"`
		CommentCount   int       `db:"comment_count"`
		CreatedAt      time.Time `db:"created_at"`
		CreatorUID     int64     `db:"creator.id"`
		CreatorName    string    `db:"creator.username"`
		CreatorChannel string    `db:"creator.channel_name"`
		CreatorPicture string    `db:"creator.profile_picture_url"`
	}

	rows := []historyRow{}
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	entries := make([]model.WatchHistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = model.WatchHistoryEntry{
			VideoID:   row.HistoryVideoID,
			WatchedAt: row.WatchedAt,
			Video: &model.Video{
				ID:           row.ID,
				CreatorID:    row.CreatorID,
				Title:        row.Title,
				Description:  row.Description,
				VideoURL:     row.VideoURL,
				ThumbnailURL: row.ThumbnailURL,
				Duration:     row.Duration,
				Category:     row.Category,
				ViewCount:    row.ViewCount,
				LikeCount:    row.LikeCount,
				DislikeCount: row.DislikeCount,
				CommentCount: row.CommentCount,
				CreatedAt:    row.CreatedAt,
				Creator: &model.UserSummary{
					ID:                row.CreatorUID,
					Username:          row.CreatorName,
					ChannelName:       row.CreatorChannel,
					ProfilePictureURL: row.CreatorPicture,
				},
			},
		}
	}
	return entries, nil
}

// HasWatchLater reports whether the video is in the user's watch-later set.
func (r *watchRepository) HasWatchLater(ctx context.Context, userID, videoID int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `
		SELECT 1 FROM watch_later WHERE user_id = $1 AND video_id = $2
	`, userID, videoID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check watch later: %w", err)
	}
	return true, nil
}

func (r *watchRepository) AddWatchLater(ctx context.Context, userID, videoID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO watch_later (user_id, video_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, videoID)
	if err != nil {
		return fmt.Errorf("add watch later: %w", err)
	}
	return nil
}

func (r *watchRepository) RemoveWatchLater(ctx context.Context, userID, videoID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM watch_later WHERE user_id = $1 AND video_id = $2
	`, userID, videoID)
	if err != nil {
		return fmt.Errorf("remove watch later: %w", err)
	}
	return nil
}

// GetWatchLater returns the user's saved videos, most recently saved first.
func (r *watchRepository) GetWatchLater(ctx context.Context, userID int64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.SelectContext(ctx, &videos, `
		SELECT v.id, v.creator_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.category, v.view_count, v.like_count, v.dislike_count, v.comment_count, v.created_at
		FROM watch_later wl
		JOIN videos v ON v.id = wl.video_id
		WHERE wl.user_id = $1
		ORDER BY wl.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get watch later: %w", err)
	}
	return videos, nil
}
