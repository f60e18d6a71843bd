package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/repository"
)

// EngagementService handles the like/dislike toggles on videos and the like
// toggle on comments. Each toggle runs in one transaction with the user's
// current reaction row locked, so concurrent toggles serialize instead of
// double-counting.
type EngagementService struct {
	db          *sqlx.DB
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
}

func NewEngagementService(db *sqlx.DB, videoRepo repository.VideoRepository, commentRepo repository.CommentRepository) *EngagementService {
	return &EngagementService{
		db:          db,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
	}
}

// ToggleVideoReaction flips the user's reaction of the given kind on a video:
//   - no current reaction: the reaction is added
//   - same reaction present: the reaction is removed
//   - opposite reaction present: it is replaced, so a user never holds a like
//     and a dislike on the same video
//
// The returned counts are read inside the same transaction.
func (s *EngagementService) ToggleVideoReaction(ctx context.Context, videoID, userID int64, kind model.ReactionKind) (*model.VideoReactionResponse, error) {
	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check video: %w", err)
	}
	if !exists {
		return nil, model.ErrVideoNotFound
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, found, err := s.videoRepo.GetReaction(ctx, tx, videoID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reaction: %w", err)
	}

	var active bool
	switch {
	case !found:
		if err := s.videoRepo.InsertReaction(ctx, tx, videoID, userID, kind); err != nil {
			return nil, fmt.Errorf("failed to insert reaction: %w", err)
		}
		if err := s.videoRepo.IncrementReactionCount(ctx, tx, videoID, kind, 1); err != nil {
			return nil, fmt.Errorf("failed to bump counter: %w", err)
		}
		active = true

	case current == kind:
		if err := s.videoRepo.DeleteReaction(ctx, tx, videoID, userID); err != nil {
			return nil, fmt.Errorf("failed to delete reaction: %w", err)
		}
		if err := s.videoRepo.IncrementReactionCount(ctx, tx, videoID, kind, -1); err != nil {
			return nil, fmt.Errorf("failed to drop counter: %w", err)
		}
		active = false

	default:
		// Switch sides: both counters move in the same transaction
		if err := s.videoRepo.UpdateReaction(ctx, tx, videoID, userID, kind); err != nil {
			return nil, fmt.Errorf("failed to switch reaction: %w", err)
		}
		if err := s.videoRepo.IncrementReactionCount(ctx, tx, videoID, current, -1); err != nil {
			return nil, fmt.Errorf("failed to drop counter: %w", err)
		}
		if err := s.videoRepo.IncrementReactionCount(ctx, tx, videoID, kind, 1); err != nil {
			return nil, fmt.Errorf("failed to bump counter: %w", err)
		}
		active = true
	}

	likes, dislikes, err := s.videoRepo.GetReactionCounts(ctx, tx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to read counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	resp := &model.VideoReactionResponse{
		Likes:    likes,
		Dislikes: dislikes,
	}
	if kind == model.ReactionLike {
		resp.UserLiked = &active
	} else {
		resp.UserDisliked = &active
	}
	return resp, nil
}

// ToggleCommentLike flips the user's like on a comment and returns the
// resulting count.
func (s *EngagementService) ToggleCommentLike(ctx context.Context, commentID, userID int64) (*model.CommentLikeResponse, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	liked, err := s.commentRepo.HasLike(ctx, tx, commentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load like: %w", err)
	}

	if liked {
		if err := s.commentRepo.DeleteLike(ctx, tx, commentID, userID); err != nil {
			return nil, fmt.Errorf("failed to delete like: %w", err)
		}
		if err := s.commentRepo.IncrementLikeCount(ctx, tx, commentID, -1); err != nil {
			return nil, fmt.Errorf("failed to drop counter: %w", err)
		}
	} else {
		if err := s.commentRepo.InsertLike(ctx, tx, commentID, userID); err != nil {
			return nil, fmt.Errorf("failed to insert like: %w", err)
		}
		if err := s.commentRepo.IncrementLikeCount(ctx, tx, commentID, 1); err != nil {
			return nil, fmt.Errorf("failed to bump counter: %w", err)
		}
	}

	likes, err := s.commentRepo.GetLikeCount(ctx, tx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to read count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &model.CommentLikeResponse{
		Likes:     likes,
		UserLiked: !liked,
	}, nil
}
