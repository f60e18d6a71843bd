package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rubenreut/youtube-clone/internal/httputil"
	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/service"
	"github.com/rubenreut/youtube-clone/internal/transport/http/middleware"
)

type LibraryHandler struct {
	libraryService *service.LibraryService
	feedService    *service.FeedService
}

func NewLibraryHandler(libraryService *service.LibraryService, feedService *service.FeedService) *LibraryHandler {
	return &LibraryHandler{
		libraryService: libraryService,
		feedService:    feedService,
	}
}

// GetSubscriptionsFeed handles GET /users/me/subscriptions
// Newest uploads from the user's subscribed channels.
func (h *LibraryHandler) GetSubscriptionsFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videos, err := h.feedService.GetSubscriptionsFeed(r.Context(), userID, service.DefaultPageSize)
	if err != nil {
		log.Printf("[ERROR] Subscriptions feed handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get subscriptions feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
}

// GetHistory handles GET /users/me/history
func (h *LibraryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	entries, err := h.libraryService.GetHistory(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Get history handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get watch history")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

// AddHistory handles POST /users/me/history
// Records a watch; re-watching moves the entry to the front.
func (h *LibraryHandler) AddHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.AddHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.VideoID <= 0 {
		httputil.WriteBadRequest(w, "video_id is required")
		return
	}

	if err := h.libraryService.AddToHistory(r.Context(), userID, req.VideoID); err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		log.Printf("[ERROR] Add history handler: user=%d video=%d err=%v", userID, req.VideoID, err)
		httputil.WriteInternalError(w, "Failed to record watch")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Watch recorded",
	})
}

// GetWatchLater handles GET /users/me/watch-later
func (h *LibraryHandler) GetWatchLater(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	videos, err := h.libraryService.GetWatchLater(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Get watch later handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get watch later")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
}

// ToggleWatchLater handles POST /users/me/watch-later
func (h *LibraryHandler) ToggleWatchLater(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.WatchLaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.VideoID <= 0 {
		httputil.WriteBadRequest(w, "video_id is required")
		return
	}

	resp, err := h.libraryService.ToggleWatchLater(r.Context(), userID, req.VideoID)
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		log.Printf("[ERROR] Toggle watch later handler: user=%d video=%d err=%v", userID, req.VideoID, err)
		httputil.WriteInternalError(w, "Failed to toggle watch later")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// GetLibrary handles GET /users/me/library
// Returns the user's uploads and liked videos.
func (h *LibraryHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	library, err := h.libraryService.GetLibrary(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Get library handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to get library")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, library)
}
