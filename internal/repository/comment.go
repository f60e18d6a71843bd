package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rubenreut/youtube-clone/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment. Runs in the caller's transaction so the
// video's comment counter stays consistent with the insert.
func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	query := `
		INSERT INTO comments (video_id, user_id, content, parent_comment_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, video_id, user_id, content, parent_comment_id, like_count, created_at
	`
	var comment model.Comment
	err := tx.GetContext(ctx, &comment, query, videoID, userID, content, parentID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// GetByID retrieves a single comment.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, video_id, user_id, content, parent_comment_id, like_count, created_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// commentRow scans a comment with its joined author.
type commentRow struct {
	ID              int64     `db:"id"`
	VideoID         int64     `db:"video_id"`
	UserID          int64     `db:"user_id"`
	Content         string    `db:"content"`
	ParentCommentID *int64    `db:"parent_comment_id"`
	LikeCount       int       `db:"like_count"`
	ReplyCount      int       `db:"reply_count"`
	CreatedAt       time.Time `db:"created_at"`
	AuthorID        int64     `db:"author.id"`
	AuthorUsername  string    `db:"author.username"`
	AuthorChannel   string    `db:"author.channel_name"`
	AuthorPicture   string    `db:"author.profile_picture_url"`
}

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:              row.ID,
		VideoID:         row.VideoID,
		UserID:          row.UserID,
		Content:         row.Content,
		ParentCommentID: row.ParentCommentID,
		LikeCount:       row.LikeCount,
		ReplyCount:      row.ReplyCount,
		CreatedAt:       row.CreatedAt,
		Author: &model.UserSummary{
			ID:                row.AuthorID,
			Username:          row.AuthorUsername,
			ChannelName:       row.AuthorChannel,
			ProfilePictureURL: row.AuthorPicture,
		},
	}
}

// ListTopLevel returns a video's top-level comments newest first, each with a
// computed reply count. The count is derived on every read, never stored.
func (r *commentRepository) ListTopLevel(ctx context.Context, videoID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.video_id, c.user_id, c.content, c.parent_comment_id, c.like_count, c.created_at,
		       (SELECT COUNT(*) FROM comments r WHERE r.parent_comment_id = c.id) as reply_count,
		       u.id as "author.id", u.username as "author.username",
		       u.channel_name as "author.channel_name", u.profile_picture_url as "author.profile_picture_url"
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.video_id = $1 AND c.parent_comment_id IS NULL
		ORDER BY c.created_at DESC, c.id DESC
	`

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

// ListReplies returns a comment's replies oldest first. Conversations read
// chronologically; headlines read by recency.
func (r *commentRepository) ListReplies(ctx context.Context, parentID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.video_id, c.user_id, c.content, c.parent_comment_id, c.like_count, c.created_at,
		       0 as reply_count,
		       u.id as "author.id", u.username as "author.username",
		       u.channel_name as "author.channel_name", u.profile_picture_url as "author.profile_picture_url"
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.parent_comment_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

// DeleteThread removes every reply of the comment, then the comment itself.
// Returns the total number of comments removed so the caller can decrement
// the video's counter.
func (r *commentRepository) DeleteThread(ctx context.Context, tx *sqlx.Tx, commentID int64) (int, error) {
	replies, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE parent_comment_id = $1`, commentID)
	if err != nil {
		return 0, fmt.Errorf("delete replies: %w", err)
	}
	replyCount, err := replies.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	if deleted == 0 {
		return 0, model.ErrCommentNotFound
	}

	return int(replyCount + deleted), nil
}

// HasLike reports whether the user currently likes the comment, locking the
// row so concurrent toggles serialize.
func (r *commentRepository) HasLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) (bool, error) {
	var one int
	err := tx.GetContext(ctx, &one, `
		SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2 FOR UPDATE
	`, commentID, userID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check comment like: %w", err)
	}
	return true, nil
}

func (r *commentRepository) InsertLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)`, commentID, userID)
	if err != nil {
		return fmt.Errorf("insert comment like: %w", err)
	}
	return nil
}

func (r *commentRepository) DeleteLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`, commentID, userID)
	if err != nil {
		return fmt.Errorf("delete comment like: %w", err)
	}
	return nil
}

func (r *commentRepository) IncrementLikeCount(ctx context.Context, tx *sqlx.Tx, commentID int64, delta int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE comments SET like_count = like_count + $1 WHERE id = $2`, delta, commentID)
	if err != nil {
		return fmt.Errorf("update comment like count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) GetLikeCount(ctx context.Context, tx *sqlx.Tx, commentID int64) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `SELECT like_count FROM comments WHERE id = $1`, commentID)
	if err == sql.ErrNoRows {
		return 0, model.ErrCommentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get comment like count: %w", err)
	}
	return count, nil
}
