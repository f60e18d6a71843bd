package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rubenreut/youtube-clone/internal/model"
)

// The creation and deletion paths that touch the database run inside a
// transaction and are covered by the integration tests; these exercise
// the rules checked before any transaction starts.

func newTestCommentService(commentRepo *mockCommentRepository, videoRepo *mockVideoRepository) *CommentService {
	if commentRepo == nil {
		commentRepo = &mockCommentRepository{}
	}
	if videoRepo == nil {
		videoRepo = &mockVideoRepository{}
	}
	return NewCommentService(nil, commentRepo, videoRepo, &mockUserRepository{})
}

func TestCommentService_Create_Validation(t *testing.T) {
	videoRepo := &mockVideoRepository{
		existsFn: func(ctx context.Context, videoID int64) (bool, error) {
			return videoID == 1, nil
		},
	}

	tests := []struct {
		name    string
		req     model.CreateCommentRequest
		wantErr error
	}{
		{
			name:    "empty content",
			req:     model.CreateCommentRequest{VideoID: 1, Content: "   "},
			wantErr: model.ErrContentRequired,
		},
		{
			name:    "content too long",
			req:     model.CreateCommentRequest{VideoID: 1, Content: strings.Repeat("c", 1401)},
			wantErr: model.ErrContentTooLong,
		},
		{
			name:    "video missing",
			req:     model.CreateCommentRequest{VideoID: 99, Content: "hello"},
			wantErr: model.ErrVideoNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestCommentService(nil, videoRepo)
			_, err := svc.Create(context.Background(), 1, &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommentService_Create_ReplyRules(t *testing.T) {
	topLevelID := int64(10)
	replyID := int64(11)
	otherVideoCommentID := int64(12)

	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			switch commentID {
			case topLevelID:
				return &model.Comment{ID: topLevelID, VideoID: 1}, nil
			case replyID:
				parent := topLevelID
				return &model.Comment{ID: replyID, VideoID: 1, ParentCommentID: &parent}, nil
			case otherVideoCommentID:
				return &model.Comment{ID: otherVideoCommentID, VideoID: 2}, nil
			}
			return nil, model.ErrCommentNotFound
		},
	}
	videoRepo := &mockVideoRepository{
		existsFn: func(ctx context.Context, videoID int64) (bool, error) {
			return true, nil
		},
	}
	svc := newTestCommentService(commentRepo, videoRepo)

	// Replying to a reply is rejected - threads are one level deep
	_, err := svc.Create(context.Background(), 1, &model.CreateCommentRequest{
		VideoID:         1,
		Content:         "nested",
		ParentCommentID: &replyID,
	})
	if !errors.Is(err, model.ErrReplyTooDeep) {
		t.Errorf("reply-to-reply: error = %v, want %v", err, model.ErrReplyTooDeep)
	}

	// Parent must belong to the same video
	_, err = svc.Create(context.Background(), 1, &model.CreateCommentRequest{
		VideoID:         1,
		Content:         "cross-video",
		ParentCommentID: &otherVideoCommentID,
	})
	if !errors.Is(err, model.ErrParentMismatch) {
		t.Errorf("cross-video parent: error = %v, want %v", err, model.ErrParentMismatch)
	}

	// Unknown parent
	missing := int64(404)
	_, err = svc.Create(context.Background(), 1, &model.CreateCommentRequest{
		VideoID:         1,
		Content:         "orphan",
		ParentCommentID: &missing,
	})
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("missing parent: error = %v, want %v", err, model.ErrCommentNotFound)
	}
}

func TestCommentService_Delete_OnlyAuthor(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, VideoID: 1, UserID: 5}, nil
		},
	}
	svc := newTestCommentService(commentRepo, nil)

	if err := svc.Delete(context.Background(), 10, 6); !errors.Is(err, model.ErrNotCommentAuthor) {
		t.Errorf("error = %v, want %v", err, model.ErrNotCommentAuthor)
	}
}

func TestCommentService_ListByVideo_VideoMissing(t *testing.T) {
	videoRepo := &mockVideoRepository{
		existsFn: func(ctx context.Context, videoID int64) (bool, error) {
			return false, nil
		},
	}
	svc := newTestCommentService(nil, videoRepo)

	if _, err := svc.ListByVideo(context.Background(), 99); !errors.Is(err, model.ErrVideoNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrVideoNotFound)
	}
}

func TestCommentService_ListReplies_CommentMissing(t *testing.T) {
	svc := newTestCommentService(&mockCommentRepository{}, nil)

	if _, err := svc.ListReplies(context.Background(), 99); !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentNotFound)
	}
}
