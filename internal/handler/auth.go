package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rubenreut/youtube-clone/internal/httputil"
	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewAuthHandler(userService *service.UserService, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidUserInput):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, "Username already exists")
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already registered")
		default:
			log.Printf("[ERROR] Register handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to register")
		}
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("[ERROR] Register handler: token generation user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to register")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.AuthResponse{
		Message: "Account created successfully",
		Token:   token,
		User:    summaryOf(user),
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			// Same message whichever of the two is wrong
			httputil.WriteBadRequest(w, "Email or password is wrong")
			return
		}
		log.Printf("[ERROR] Login handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to log in")
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("[ERROR] Login handler: token generation user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to log in")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.AuthResponse{
		Message: "Logged in successfully",
		Token:   token,
		User:    summaryOf(user),
	})
}

func summaryOf(user *model.User) model.UserSummary {
	return model.UserSummary{
		ID:                user.ID,
		Username:          user.Username,
		ChannelName:       user.ChannelName,
		ProfilePictureURL: user.ProfilePictureURL,
	}
}
