package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rubenreut/youtube-clone/internal/handler"
	"github.com/rubenreut/youtube-clone/internal/httputil"
	authmw "github.com/rubenreut/youtube-clone/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	VideoHandler   *handler.VideoHandler
	CommentHandler *handler.CommentHandler
	LibraryHandler *handler.LibraryHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// Public catalog endpoints
	r.Route("/videos", func(r chi.Router) {
		r.Get("/", cfg.VideoHandler.List)
		r.Get("/search", cfg.VideoHandler.Search)
		r.Get("/recommended/{videoId}", cfg.VideoHandler.GetRecommended)
		r.Get("/{id}", cfg.VideoHandler.Get)
	})

	// Public comment listings
	r.Get("/comments/video/{videoId}", cfg.CommentHandler.ListByVideo)
	r.Get("/comments/{commentId}/replies", cfg.CommentHandler.ListReplies)

	// Channel page marks is_subscribed when a valid token is present
	r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/users/{id}", cfg.UserHandler.GetChannel)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Video management and reactions
		r.Post("/videos/upload", cfg.VideoHandler.Upload)
		r.Put("/videos/{id}", cfg.VideoHandler.Update)
		r.Delete("/videos/{id}", cfg.VideoHandler.Delete)
		r.Post("/videos/{id}/like", cfg.VideoHandler.Like)
		r.Post("/videos/{id}/dislike", cfg.VideoHandler.Dislike)

		// Comments
		r.Post("/comments", cfg.CommentHandler.Create)
		r.Post("/comments/{id}/like", cfg.CommentHandler.Like)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

		// Subscriptions
		r.Post("/users/{id}/subscribe", cfg.UserHandler.Subscribe)

		// Library: feed, history, watch later, uploads + liked
		r.Route("/users/me", func(r chi.Router) {
			r.Get("/subscriptions", cfg.LibraryHandler.GetSubscriptionsFeed)
			r.Get("/history", cfg.LibraryHandler.GetHistory)
			r.Post("/history", cfg.LibraryHandler.AddHistory)
			r.Get("/watch-later", cfg.LibraryHandler.GetWatchLater)
			r.Post("/watch-later", cfg.LibraryHandler.ToggleWatchLater)
			r.Get("/library", cfg.LibraryHandler.GetLibrary)
		})
	})

	return r
}
