package handler

import (
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

type UserHandler struct {
	userService *service.UserService
	subService  *service.SubscriptionService
}

func NewUserHandler(userService *service.UserService, subService *service.SubscriptionService) *UserHandler {
	return &UserHandler{
		userService: userService,
		subService:  subService,
	}
}

// GetChannel handles GET /users/{id}
// Public channel page. If a valid token is present, the profile marks
// whether the viewer is subscribed.
func (h *UserHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	channelID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var viewerID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		viewerID = &id
	}

	channel, err := h.userService.GetChannel(r.Context(), channelID, viewerID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] GetChannel handler: channel=%d err=%v", channelID, err)
		httputil.WriteInternalError(w, "Failed to get channel")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, channel)
}

// Subscribe handles POST /users/{id}/subscribe
// Toggles the authenticated user's subscription to the channel.
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	channelID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	resp, err := h.subService.Toggle(r.Context(), userID, channelID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCannotSubscribeSelf):
			httputil.WriteBadRequest(w, "Cannot subscribe to yourself")
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			log.Printf("[ERROR] Subscribe handler: user=%d channel=%d err=%v", userID, channelID, err)
			httputil.WriteInternalError(w, "Failed to toggle subscription")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
