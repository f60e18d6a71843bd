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

type VideoHandler struct {
	videoService      *service.VideoService
	engagementService *service.EngagementService
	mediaService      *service.MediaService
}

func NewVideoHandler(videoService *service.VideoService, engagementService *service.EngagementService, mediaService *service.MediaService) *VideoHandler {
	return &VideoHandler{
		videoService:      videoService,
		engagementService: engagementService,
		mediaService:      mediaService,
	}
}

// List handles GET /videos?page&limit&category
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageParams(r)
	category := r.URL.Query().Get("category")

	resp, err := h.videoService.List(r.Context(), category, page, limit)
	if err != nil {
		log.Printf("[ERROR] List videos handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to list videos")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Search handles GET /videos/search?q&page&limit
func (h *VideoHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageParams(r)
	query := r.URL.Query().Get("q")

	resp, err := h.videoService.Search(r.Context(), query, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSearchQueryMissing):
			httputil.WriteBadRequest(w, "Search query is required")
		case errors.Is(err, model.ErrSearchQueryTooLong):
			httputil.WriteBadRequest(w, "Search query too long")
		default:
			log.Printf("[ERROR] Search videos handler: q=%q err=%v", query, err)
			httputil.WriteInternalError(w, "Failed to search videos")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// GetRecommended handles GET /videos/recommended/{videoId}
func (h *VideoHandler) GetRecommended(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(chi.URLParam(r, "videoId"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	videos, err := h.videoService.GetRecommended(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		log.Printf("[ERROR] Recommended handler: video=%d err=%v", videoID, err)
		httputil.WriteInternalError(w, "Failed to get recommendations")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
}

// Get handles GET /videos/{id}
// Fetching a video counts as a view.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	video, err := h.videoService.Get(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		log.Printf("[ERROR] Get video handler: video=%d err=%v", videoID, err)
		httputil.WriteInternalError(w, "Failed to get video")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, video)
}

// Upload handles POST /videos/upload
// Multipart form: "video" (required), "thumbnail" (optional image), plus
// title/description/category/duration metadata fields.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, model.MaxVideoSizeBytes+10<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	videoFile, videoHeader, err := r.FormFile("video")
	if err != nil {
		httputil.WriteBadRequest(w, "No video file provided")
		return
	}
	defer videoFile.Close()

	uploaded, err := h.mediaService.UploadVideo(r.Context(), videoFile, videoHeader)
	if err != nil {
		if errors.Is(err, model.ErrFileTooLarge) {
			httputil.WriteBadRequest(w, "Video exceeds 250MB limit")
			return
		}
		log.Printf("[ERROR] Upload handler: video upload user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to upload video")
		return
	}

	var thumbnailURL string
	if thumbFile, thumbHeader, err := r.FormFile("thumbnail"); err == nil {
		defer thumbFile.Close()
		thumb, err := h.mediaService.UploadThumbnail(r.Context(), thumbFile, thumbHeader)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrFileTooLarge):
				httputil.WriteBadRequest(w, "Thumbnail too large")
			case errors.Is(err, model.ErrInvalidImageType):
				httputil.WriteBadRequest(w, "Unsupported thumbnail type. Allowed: jpeg, png, webp")
			default:
				log.Printf("[ERROR] Upload handler: thumbnail upload user=%d err=%v", userID, err)
				httputil.WriteInternalError(w, "Failed to upload thumbnail")
			}
			return
		}
		thumbnailURL = thumb.URL
	}

	duration, _ := strconv.Atoi(r.FormValue("duration"))
	req := model.UploadVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Duration:    duration,
	}

	video, err := h.videoService.Create(r.Context(), userID, &req, uploaded.URL, thumbnailURL)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Video title is required")
		case errors.Is(err, model.ErrTitleTooLong):
			httputil.WriteBadRequest(w, "Video title too long")
		case errors.Is(err, model.ErrDescriptionTooLong):
			httputil.WriteBadRequest(w, "Video description too long")
		default:
			log.Printf("[ERROR] Upload handler: create user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Failed to save video")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Video uploaded successfully",
		"video":   video,
	})
}

// Update handles PUT /videos/{id}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	var req model.UpdateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	video, err := h.videoService.Update(r.Context(), videoID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrNotVideoCreator):
			httputil.WriteForbidden(w, "You can only edit your own videos")
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Video title is required")
		case errors.Is(err, model.ErrTitleTooLong):
			httputil.WriteBadRequest(w, "Video title too long")
		case errors.Is(err, model.ErrDescriptionTooLong):
			httputil.WriteBadRequest(w, "Video description too long")
		default:
			log.Printf("[ERROR] Update video handler: user=%d video=%d err=%v", userID, videoID, err)
			httputil.WriteInternalError(w, "Failed to update video")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, video)
}

// Delete handles DELETE /videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	if err := h.videoService.Delete(r.Context(), videoID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			httputil.WriteNotFound(w, "Video not found")
		case errors.Is(err, model.ErrNotVideoCreator):
			httputil.WriteForbidden(w, "You can only delete your own videos")
		default:
			log.Printf("[ERROR] Delete video handler: user=%d video=%d err=%v", userID, videoID, err)
			httputil.WriteInternalError(w, "Failed to delete video")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Video deleted successfully",
	})
}

// Like handles POST /videos/{id}/like
func (h *VideoHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, model.ReactionLike)
}

// Dislike handles POST /videos/{id}/dislike
func (h *VideoHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, model.ReactionDislike)
}

func (h *VideoHandler) toggleReaction(w http.ResponseWriter, r *http.Request, kind model.ReactionKind) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	resp, err := h.engagementService.ToggleVideoReaction(r.Context(), videoID, userID, kind)
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		log.Printf("[ERROR] Toggle %s handler: user=%d video=%d err=%v", kind, userID, videoID, err)
		httputil.WriteInternalError(w, "Failed to toggle reaction")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func parsePageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
