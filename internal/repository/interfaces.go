package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rubenreut/youtube-clone/internal/cache"
	"github.com/rubenreut/youtube-clone/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// GetSummaries batch-loads public projections for joining onto videos (single
	// query with ANY($1), not N+1).
	GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	IncrementSubscriberCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, videoID int64) (*model.Video, error)
	// GetByIDs returns videos in the same order as the input IDs (feed hydration).
	GetByIDs(ctx context.Context, videoIDs []int64) ([]model.Video, error)
	// IncrementViews atomically bumps the view counter by 1 and returns the
	// updated row.
	IncrementViews(ctx context.Context, videoID int64) (*model.Video, error)
	Update(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, videoID int64) error
	Exists(ctx context.Context, videoID int64) (bool, error)

	// Catalog queries
	List(ctx context.Context, category string, offset, limit int) ([]model.Video, error)
	Count(ctx context.Context, category string) (int64, error)
	Search(ctx context.Context, query string, offset, limit int) ([]model.Video, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	GetRelated(ctx context.Context, videoID int64, category string, creatorID int64, limit int) ([]model.Video, error)
	GetPopularExcluding(ctx context.Context, excludeIDs []int64, limit int) ([]model.Video, error)
	GetByCreator(ctx context.Context, creatorID int64) ([]model.Video, error)
	GetLikedBy(ctx context.Context, userID int64) ([]model.Video, error)

	// Feed cache support
	GetRecentByCreator(ctx context.Context, creatorID int64, limit int) ([]cache.VideoScore, error)
	GetFeedVideoIDs(ctx context.Context, creatorIDs []int64, limit int) ([]cache.VideoScore, error)

	// Engagement (reactor sets). All run inside the caller's transaction.
	GetReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64) (model.ReactionKind, bool, error)
	InsertReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, kind model.ReactionKind) error
	UpdateReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, kind model.ReactionKind) error
	DeleteReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64) error
	IncrementReactionCount(ctx context.Context, tx *sqlx.Tx, videoID int64, kind model.ReactionKind, delta int) error
	GetReactionCounts(ctx context.Context, tx *sqlx.Tx, videoID int64) (likes, dislikes int, err error)
	IncrementCommentCount(ctx context.Context, tx *sqlx.Tx, videoID int64, delta int) error
}

type CommentRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, content string, parentID *int64) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// ListTopLevel returns top-level comments newest first, each annotated with
	// its author and a computed reply_count.
	ListTopLevel(ctx context.Context, videoID int64) ([]model.Comment, error)
	// ListReplies returns a comment's replies oldest first with authors joined.
	ListReplies(ctx context.Context, parentID int64) ([]model.Comment, error)
	// DeleteThread deletes every reply of the comment, then the comment itself.
	// Returns the total number of rows removed.
	DeleteThread(ctx context.Context, tx *sqlx.Tx, commentID int64) (int, error)

	// Comment likes
	HasLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) (bool, error)
	InsertLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) error
	DeleteLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) error
	IncrementLikeCount(ctx context.Context, tx *sqlx.Tx, commentID int64, delta int) error
	GetLikeCount(ctx context.Context, tx *sqlx.Tx, commentID int64) (int, error)
}

type SubscriptionRepository interface {
	Exists(ctx context.Context, subscriberID, channelID int64) (bool, error)
	Create(ctx context.Context, tx *sqlx.Tx, subscriberID, channelID int64) (bool, error)
	Delete(ctx context.Context, tx *sqlx.Tx, subscriberID, channelID int64) error
	// GetChannelIDs returns the channels a user is subscribed to.
	GetChannelIDs(ctx context.Context, subscriberID int64) ([]int64, error)
	// GetSubscriberIDs returns the subscribers of a channel (for feed fan-out).
	GetSubscriberIDs(ctx context.Context, channelID int64) ([]int64, error)
	// CheckSubscriptions batch-checks which channels the subscriber follows.
	CheckSubscriptions(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error)
}

type WatchRepository interface {
	// UpsertHistory records a watch, bumping watched_at on re-watch.
	UpsertHistory(ctx context.Context, tx *sqlx.Tx, userID, videoID int64) error
	// TrimHistory evicts the oldest entries beyond the cap.
	TrimHistory(ctx context.Context, tx *sqlx.Tx, userID int64, cap int) error
	// GetHistory returns entries most-recent-first with videos and creators
	// joined. Entries whose video has been deleted are dropped by the join.
	GetHistory(ctx context.Context, userID int64) ([]model.WatchHistoryEntry, error)

	HasWatchLater(ctx context.Context, userID, videoID int64) (bool, error)
	AddWatchLater(ctx context.Context, userID, videoID int64) error
	RemoveWatchLater(ctx context.Context, userID, videoID int64) error
	GetWatchLater(ctx context.Context, userID int64) ([]model.Video, error)
}
