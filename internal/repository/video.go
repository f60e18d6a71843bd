package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rubenreut/youtube-clone/internal/cache"
	"github.com/rubenreut/youtube-clone/internal/model"
)

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

const videoColumns = `id, creator_id, title, description, video_url, thumbnail_url,
	duration, category, view_count, like_count, dislike_count, comment_count, created_at`

// Create inserts a new video.
func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	query := `
		INSERT INTO videos (creator_id, title, description, video_url, thumbnail_url, duration, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, view_count, like_count, dislike_count, comment_count, created_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		v.CreatorID, v.Title, v.Description, v.VideoURL, v.ThumbnailURL, v.Duration, v.Category)

	err := row.Scan(&v.ID, &v.ViewCount, &v.LikeCount, &v.DislikeCount, &v.CommentCount, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

// GetByID retrieves a single video.
func (r *videoRepository) GetByID(ctx context.Context, videoID int64) (*model.Video, error) {
	var v model.Video
	err := r.db.GetContext(ctx, &v, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, videoID)
	if err == sql.ErrNoRows {
		return nil, model.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}

// GetByIDs retrieves videos by ID, preserving the input order.
// Used for hydrating the subscriptions feed from cache.
func (r *videoRepository) GetByIDs(ctx context.Context, videoIDs []int64) ([]model.Video, error) {
	if len(videoIDs) == 0 {
		return []model.Video{}, nil
	}

	var videos []model.Video
	err := r.db.SelectContext(ctx, &videos,
		`SELECT `+videoColumns+` FROM videos WHERE id = ANY($1)`, pq.Array(videoIDs))
	if err != nil {
		return nil, fmt.Errorf("get videos by ids: %w", err)
	}

	byID := make(map[int64]model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	ordered := make([]model.Video, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

// IncrementViews bumps the view counter by exactly 1 and returns the updated
// row. A single UPDATE keeps the increment atomic under concurrent fetches.
func (r *videoRepository) IncrementViews(ctx context.Context, videoID int64) (*model.Video, error) {
	query := `
		UPDATE videos SET view_count = view_count + 1
		WHERE id = $1
		RETURNING ` + videoColumns
	var v model.Video
	err := r.db.GetContext(ctx, &v, query, videoID)
	if err == sql.ErrNoRows {
		return nil, model.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	return &v, nil
}

// Update persists editable metadata fields.
func (r *videoRepository) Update(ctx context.Context, v *model.Video) error {
	query := `
		UPDATE videos SET title = $1, description = $2, category = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, v.Title, v.Description, v.Category, v.ID)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

// Delete removes a video. Reactions, comments, history and watch-later rows
// referencing it go with it via ON DELETE CASCADE.
func (r *videoRepository) Delete(ctx context.Context, videoID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

// Exists checks if a video exists.
func (r *videoRepository) Exists(ctx context.Context, videoID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM videos WHERE id = $1)`, videoID)
	if err != nil {
		return false, fmt.Errorf("check video exists: %w", err)
	}
	return exists, nil
}

// List returns a page of the catalog, newest first. An unknown category
// behaves as no filter.
func (r *videoRepository) List(ctx context.Context, category string, offset, limit int) ([]model.Video, error) {
	var videos []model.Video
	var err error
	if category != "" {
		err = r.db.SelectContext(ctx, &videos, `
			SELECT `+videoColumns+` FROM videos
			WHERE category = $1
			ORDER BY created_at DESC, id DESC
			OFFSET $2 LIMIT $3
		`, category, offset, limit)
	} else {
		err = r.db.SelectContext(ctx, &videos, `
			SELECT `+videoColumns+` FROM videos
			ORDER BY created_at DESC, id DESC
			OFFSET $1 LIMIT $2
		`, offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// Count returns the total number of catalog rows matching the filter.
func (r *videoRepository) Count(ctx context.Context, category string) (int64, error) {
	var total int64
	var err error
	if category != "" {
		err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM videos WHERE category = $1`, category)
	} else {
		err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM videos`)
	}
	if err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return total, nil
}

// Search matches the query case-insensitively as a literal substring of the
// title or description, sorted by views descending.
func (r *videoRepository) Search(ctx context.Context, query string, offset, limit int) ([]model.Video, error) {
	pattern := "%" + escapeLike(query) + "%"
	var videos []model.Video
	err := r.db.SelectContext(ctx, &videos, `
		SELECT `+videoColumns+` FROM videos
		WHERE title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
		ORDER BY view_count DESC, id DESC
		OFFSET $2 LIMIT $3
	`, pattern, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	return videos, nil
}

// CountSearch returns the total number of search matches.
func (r *videoRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	pattern := "%" + escapeLike(query) + "%"
	var total int64
	err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(*) FROM videos
		WHERE title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
	`, pattern)
	if err != nil {
		return 0, fmt.Errorf("count search: %w", err)
	}
	return total, nil
}

// GetRelated returns videos sharing the reference video's category or creator,
// excluding the reference itself, by views descending.
func (r *videoRepository) GetRelated(ctx context.Context, videoID int64, category string, creatorID int64, limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.SelectContext(ctx, &videos, `
		SELECT `+videoColumns+` FROM videos
		WHERE id != $1 AND (category = $2 OR creator_id = $3)
		ORDER BY view_count DESC, id DESC
		LIMIT $4
	`, videoID, category, creatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("get related videos: %w", err)
	}
	return videos, nil
}

// GetPopularExcluding returns the most viewed videos not already chosen.
func (r *videoRepository) GetPopularExcluding(ctx context.Context, excludeIDs []int64, limit int) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.SelectContext(ctx, &videos, `
		SELECT `+videoColumns+` FROM videos
		WHERE NOT (id = ANY($1))
		ORDER BY view_count DESC, id DESC
		LIMIT $2
	`, pq.Array(excludeIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("get popular videos: %w", err)
	}
	return videos, nil
}

// GetByCreator returns a creator's uploads, newest first.
func (r *videoRepository) GetByCreator(ctx context.Context, creatorID int64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.SelectContext(ctx, &videos, `
		SELECT `+videoColumns+` FROM videos
		WHERE creator_id = $1
		ORDER BY created_at DESC, id DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("get videos by creator: %w", err)
	}
	return videos, nil
}

// GetLikedBy returns the videos a user has liked, newest first.
func (r *videoRepository) GetLikedBy(ctx context.Context, userID int64) ([]model.Video, error) {
	var videos []model.Video
	err := r.db.SelectContext(ctx, &videos, `
		SELECT `+prefixedVideoColumns("v")+`
		FROM video_reactions vr
		JOIN videos v ON v.id = vr.video_id
		WHERE vr.user_id = $1 AND vr.kind = 'like'
		ORDER BY v.created_at DESC, v.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get liked videos: %w", err)
	}
	return videos, nil
}

// GetRecentByCreator returns recent uploads by a creator (for subscribe backfill).
func (r *videoRepository) GetRecentByCreator(ctx context.Context, creatorID int64, limit int) ([]cache.VideoScore, error) {
	query := `
		SELECT id, EXTRACT(EPOCH FROM created_at)::bigint as timestamp
		FROM videos
		WHERE creator_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	type row struct {
		ID        int64 `db:"id"`
		Timestamp int64 `db:"timestamp"`
	}
	var rows []row
	err := r.db.SelectContext(ctx, &rows, query, creatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent videos: %w", err)
	}

	scores := make([]cache.VideoScore, len(rows))
	for i, r := range rows {
		scores[i] = cache.VideoScore{VideoID: r.ID, Timestamp: r.Timestamp}
	}
	return scores, nil
}

// GetFeedVideoIDs returns video IDs from all subscribed creators (for cache warming).
func (r *videoRepository) GetFeedVideoIDs(ctx context.Context, creatorIDs []int64, limit int) ([]cache.VideoScore, error) {
	if len(creatorIDs) == 0 {
		return []cache.VideoScore{}, nil
	}

	query := `
		SELECT id, EXTRACT(EPOCH FROM created_at)::bigint as timestamp
		FROM videos
		WHERE creator_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	type row struct {
		ID        int64 `db:"id"`
		Timestamp int64 `db:"timestamp"`
	}
	var rows []row
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(creatorIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("get feed video ids: %w", err)
	}

	scores := make([]cache.VideoScore, len(rows))
	for i, r := range rows {
		scores[i] = cache.VideoScore{VideoID: r.ID, Timestamp: r.Timestamp}
	}
	return scores, nil
}

// GetReaction returns the user's current reaction row, locking it for the
// duration of the transaction so concurrent toggles serialize.
func (r *videoRepository) GetReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64) (model.ReactionKind, bool, error) {
	var kind model.ReactionKind
	err := tx.GetContext(ctx, &kind, `
		SELECT kind FROM video_reactions
		WHERE video_id = $1 AND user_id = $2
		FOR UPDATE
	`, videoID, userID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get reaction: %w", err)
	}
	return kind, true, nil
}

func (r *videoRepository) InsertReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, kind model.ReactionKind) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO video_reactions (video_id, user_id, kind) VALUES ($1, $2, $3)
	`, videoID, userID, kind)
	if err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	return nil
}

func (r *videoRepository) UpdateReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, kind model.ReactionKind) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE video_reactions SET kind = $1, created_at = NOW()
		WHERE video_id = $2 AND user_id = $3
	`, kind, videoID, userID)
	if err != nil {
		return fmt.Errorf("update reaction: %w", err)
	}
	return nil
}

// DeleteReaction removes the user's reaction. Zero rows affected is not an
// error: absence simply means there was nothing to remove.
func (r *videoRepository) DeleteReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM video_reactions WHERE video_id = $1 AND user_id = $2
	`, videoID, userID)
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return nil
}

func (r *videoRepository) IncrementReactionCount(ctx context.Context, tx *sqlx.Tx, videoID int64, kind model.ReactionKind, delta int) error {
	column := "like_count"
	if kind == model.ReactionDislike {
		column = "dislike_count"
	}
	query := fmt.Sprintf(`UPDATE videos SET %s = %s + $1 WHERE id = $2`, column, column)
	result, err := tx.ExecContext(ctx, query, delta, videoID)
	if err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

func (r *videoRepository) GetReactionCounts(ctx context.Context, tx *sqlx.Tx, videoID int64) (int, int, error) {
	var counts struct {
		Likes    int `db:"like_count"`
		Dislikes int `db:"dislike_count"`
	}
	err := tx.GetContext(ctx, &counts, `SELECT like_count, dislike_count FROM videos WHERE id = $1`, videoID)
	if err == sql.ErrNoRows {
		return 0, 0, model.ErrVideoNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get reaction counts: %w", err)
	}
	return counts.Likes, counts.Dislikes, nil
}

// IncrementCommentCount atomically updates the comment_count on a video.
func (r *videoRepository) IncrementCommentCount(ctx context.Context, tx *sqlx.Tx, videoID int64, delta int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE videos SET comment_count = comment_count + $1 WHERE id = $2`, delta, videoID)
	if err != nil {
		return fmt.Errorf("update comment count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotFound
	}
	return nil
}

// escapeLike escapes LIKE/ILIKE metacharacters so user input always behaves
// as a literal substring. Without this a query of "%" would match everything
// and "_" any single character.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// prefixedVideoColumns qualifies the shared column list with a table alias.
func prefixedVideoColumns(alias string) string {
	cols := strings.Split(videoColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
