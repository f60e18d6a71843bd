package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rubenreut/youtube-clone/internal/model"
)

// The toggle state machine itself runs inside a transaction and is covered
// by the integration tests; these check the guards ahead of it.

func TestEngagementService_ToggleVideoReaction_VideoMissing(t *testing.T) {
	videoRepo := &mockVideoRepository{
		existsFn: func(ctx context.Context, videoID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewEngagementService(nil, videoRepo, &mockCommentRepository{})

	_, err := svc.ToggleVideoReaction(context.Background(), 99, 1, model.ReactionLike)
	if !errors.Is(err, model.ErrVideoNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrVideoNotFound)
	}
}

func TestEngagementService_ToggleCommentLike_CommentMissing(t *testing.T) {
	svc := NewEngagementService(nil, &mockVideoRepository{}, &mockCommentRepository{})

	_, err := svc.ToggleCommentLike(context.Background(), 99, 1)
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentNotFound)
	}
}
