package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rubenreut/youtube-clone/internal/httputil"
	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/service"
	"github.com/rubenreut/youtube-clone/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService    *service.CommentService
	engagementService *service.EngagementService
}

func NewCommentHandler(commentService *service.CommentService, engagementService *service.EngagementService) *CommentHandler {
	return &CommentHandler{
		commentService:    commentService,
		engagementService: engagementService,
	}
}

// ListByVideo handles GET /comments/video/{videoId}
// Returns a video's top-level comments, newest first, with reply counts.
func (h *CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(chi.URLParam(r, "videoId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	comments, err := h.commentService.ListByVideo(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		log.Printf("[ERROR] List comments handler: video=%d err=%v", videoID, err)
		httputil.WriteInternalError(w, "Failed to get comments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

// ListReplies handles GET /comments/{commentId}/replies
// Returns a comment's replies, oldest first.
func (h *CommentHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	replies, err := h.commentService.ListReplies(r.Context(), commentID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			httputil.WriteNotFound(w, "Comment not found")
			return
		}
		log.Printf("[ERROR] List replies handler: comment=%d err=%v", commentID, err)
		httputil.WriteInternalError(w, "Failed to get replies")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"replies": replies})
}

// Create handles POST /comments
// Posts a comment, or a reply when parent_comment_id is set.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Parent comment not found")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Comment content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Comment content too long")
		case errors.Is(err, model.ErrParentMismatch):
			httputil.WriteBadRequest(w, "Parent comment does not belong to this video")
		case errors.Is(err, model.ErrReplyTooDeep):
			httputil.WriteBadRequest(w, "Replies to replies are not allowed")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d video=%d err=%v", userID, req.VideoID, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.CreateCommentResponse{
		Message: "Comment added successfully",
		Comment: comment,
	})
}

// Like handles POST /comments/{id}/like
// Toggles the authenticated user's like on a comment.
func (h *CommentHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	resp, err := h.engagementService.ToggleCommentLike(r.Context(), commentID, userID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			httputil.WriteNotFound(w, "Comment not found")
			return
		}
		log.Printf("[ERROR] Like comment handler: user=%d comment=%d err=%v", userID, commentID, err)
		httputil.WriteInternalError(w, "Failed to toggle like")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /comments/{id}
// Deletes a comment and its replies (only the author can delete).
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentAuthor):
			httputil.WriteForbidden(w, "You can only delete your own comments")
		default:
			log.Printf("[ERROR] Delete comment handler: user=%d comment=%d err=%v", userID, commentID, err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted successfully",
	})
}
