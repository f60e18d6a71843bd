package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rubenreut/youtube-clone/internal/cache"
	"github.com/rubenreut/youtube-clone/internal/config"
	"github.com/rubenreut/youtube-clone/internal/database"
	"github.com/rubenreut/youtube-clone/internal/handler"
	"github.com/rubenreut/youtube-clone/internal/queue"
	appredis "github.com/rubenreut/youtube-clone/internal/redis"
	"github.com/rubenreut/youtube-clone/internal/repository"
	"github.com/rubenreut/youtube-clone/internal/service"
	"github.com/rubenreut/youtube-clone/internal/worker"
)

func Run() error {
	ctx := context.Background()

	// 1. Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Postgres
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Redis
	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	log.Println("Connected to Redis successfully")

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	watchRepo := repository.NewWatchRepository(db)

	// 5. Queue and feed cache
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)
	feedCache := cache.NewFeedCache(redisClient.Client)

	// 6. Services
	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(userRepo, videoRepo, subRepo, cfg)
	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}
	videoService := service.NewVideoService(videoRepo, userRepo, publisher, cfg)
	engagementService := service.NewEngagementService(db, videoRepo, commentRepo)
	commentService := service.NewCommentService(db, commentRepo, videoRepo, userRepo)
	subscriptionService := service.NewSubscriptionService(db, subRepo, userRepo, publisher)
	feedService := service.NewFeedService(feedCache, videoRepo, userRepo, subRepo)
	libraryService := service.NewLibraryService(db, watchRepo, videoRepo, userRepo)

	// 7. Feed workers
	workerHandler := worker.NewHandler(feedCache, subRepo, videoRepo)
	workerManager := worker.NewManager(consumer, workerHandler, worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := workerManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start feed workers: %w", err)
	}
	defer workerManager.Stop()

	// 8. HTTP handlers and router
	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService),
		UserHandler:    handler.NewUserHandler(userService, subscriptionService),
		VideoHandler:   handler.NewVideoHandler(videoService, engagementService, mediaService),
		CommentHandler: handler.NewCommentHandler(commentService, engagementService),
		LibraryHandler: handler.NewLibraryHandler(libraryService, feedService),
		JWTSecret:      cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// 9. Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("Received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
