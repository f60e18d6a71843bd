package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/repository"
)

// CommentService handles posting, listing and deleting comments.
// Threads are exactly one level deep: a comment may have replies, a reply
// may not.
type CommentService struct {
	db        *sqlx.DB
	repo      repository.CommentRepository
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
}

func NewCommentService(db *sqlx.DB, repo repository.CommentRepository, videoRepo repository.VideoRepository, userRepo repository.UserRepository) *CommentService {
	return &CommentService{
		db:        db,
		repo:      repo,
		videoRepo: videoRepo,
		userRepo:  userRepo,
	}
}

// Create posts a comment or a reply.
func (s *CommentService) Create(ctx context.Context, userID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	exists, err := s.videoRepo.Exists(ctx, req.VideoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check video: %w", err)
	}
	if !exists {
		return nil, model.ErrVideoNotFound
	}

	if req.ParentCommentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.VideoID != req.VideoID {
			return nil, model.ErrParentMismatch
		}
		if parent.ParentCommentID != nil {
			return nil, model.ErrReplyTooDeep
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	comment, err := s.repo.Create(ctx, tx, req.VideoID, userID, content, req.ParentCommentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.videoRepo.IncrementCommentCount(ctx, tx, req.VideoID, 1); err != nil {
		return nil, fmt.Errorf("failed to bump comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	if err := s.attachAuthor(ctx, comment); err != nil {
		log.Printf("[CommentService] Failed to attach author comment=%d: %v", comment.ID, err)
	}

	return comment, nil
}

// ListByVideo returns a video's top-level comments, newest first, each with
// its author and reply count.
func (s *CommentService) ListByVideo(ctx context.Context, videoID int64) ([]model.Comment, error) {
	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check video: %w", err)
	}
	if !exists {
		return nil, model.ErrVideoNotFound
	}

	return s.repo.ListTopLevel(ctx, videoID)
}

// ListReplies returns a comment's replies, oldest first.
func (s *CommentService) ListReplies(ctx context.Context, commentID int64) ([]model.Comment, error) {
	if _, err := s.repo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.repo.ListReplies(ctx, commentID)
}

// Delete removes a comment and all its replies. Only the author may delete.
// The video's comment counter drops by the number of rows removed, so a
// thread of five leaves the counter consistent.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return model.ErrNotCommentAuthor
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	removed, err := s.repo.DeleteThread(ctx, tx, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment thread: %w", err)
	}

	if err := s.videoRepo.IncrementCommentCount(ctx, tx, comment.VideoID, -removed); err != nil {
		return fmt.Errorf("failed to drop comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	log.Printf("[CommentService] Deleted comment id=%d replies=%d", commentID, removed-1)
	return nil
}

func (s *CommentService) attachAuthor(ctx context.Context, comment *model.Comment) error {
	summaries, err := s.userRepo.GetSummaries(ctx, []int64{comment.UserID})
	if err != nil {
		return err
	}
	if summary, ok := summaries[comment.UserID]; ok {
		comment.Author = &summary
	}
	return nil
}
