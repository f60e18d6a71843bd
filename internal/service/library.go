package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/repository"
)

// LibraryService handles watch history, watch later and the library page.
type LibraryService struct {
	db        *sqlx.DB
	repo      repository.WatchRepository
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
}

func NewLibraryService(db *sqlx.DB, repo repository.WatchRepository, videoRepo repository.VideoRepository, userRepo repository.UserRepository) *LibraryService {
	return &LibraryService{
		db:        db,
		repo:      repo,
		videoRepo: videoRepo,
		userRepo:  userRepo,
	}
}

// AddToHistory records a watch. Re-watching moves the entry to the front
// instead of duplicating it, and the history stays capped.
func (s *LibraryService) AddToHistory(ctx context.Context, userID, videoID int64) error {
	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to check video: %w", err)
	}
	if !exists {
		return model.ErrVideoNotFound
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.UpsertHistory(ctx, tx, userID, videoID); err != nil {
		return fmt.Errorf("failed to record watch: %w", err)
	}
	if err := s.repo.TrimHistory(ctx, tx, userID, model.WatchHistoryCap); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// GetHistory returns the user's watch history, most recent first.
func (s *LibraryService) GetHistory(ctx context.Context, userID int64) ([]model.WatchHistoryEntry, error) {
	entries, err := s.repo.GetHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	videos := make([]*model.Video, 0, len(entries))
	for i := range entries {
		if entries[i].Video != nil {
			videos = append(videos, entries[i].Video)
		}
	}
	if err := s.attachCreatorPtrs(ctx, videos); err != nil {
		return nil, err
	}
	return entries, nil
}

// ToggleWatchLater saves the video for later, or removes it if already saved.
func (s *LibraryService) ToggleWatchLater(ctx context.Context, userID, videoID int64) (*model.WatchLaterResponse, error) {
	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check video: %w", err)
	}
	if !exists {
		return nil, model.ErrVideoNotFound
	}

	saved, err := s.repo.HasWatchLater(ctx, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to check watch later: %w", err)
	}

	if saved {
		if err := s.repo.RemoveWatchLater(ctx, userID, videoID); err != nil {
			return nil, fmt.Errorf("failed to remove watch later: %w", err)
		}
	} else {
		if err := s.repo.AddWatchLater(ctx, userID, videoID); err != nil {
			return nil, fmt.Errorf("failed to add watch later: %w", err)
		}
	}

	return &model.WatchLaterResponse{Saved: !saved}, nil
}

// GetWatchLater returns the user's saved videos, most recently saved first.
func (s *LibraryService) GetWatchLater(ctx context.Context, userID int64) ([]model.Video, error) {
	videos, err := s.repo.GetWatchLater(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load watch later: %w", err)
	}
	if err := s.attachCreatorsSlice(ctx, videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// GetLibrary returns the user's uploads alongside the videos they liked.
func (s *LibraryService) GetLibrary(ctx context.Context, userID int64) (*model.LibraryResponse, error) {
	uploads, err := s.videoRepo.GetByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load uploads: %w", err)
	}

	liked, err := s.videoRepo.GetLikedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load liked videos: %w", err)
	}

	if err := s.attachCreatorsSlice(ctx, uploads); err != nil {
		return nil, err
	}
	if err := s.attachCreatorsSlice(ctx, liked); err != nil {
		return nil, err
	}

	return &model.LibraryResponse{
		Uploads:     uploads,
		LikedVideos: liked,
	}, nil
}

func (s *LibraryService) attachCreatorsSlice(ctx context.Context, videos []model.Video) error {
	ptrs := make([]*model.Video, len(videos))
	for i := range videos {
		ptrs[i] = &videos[i]
	}
	return s.attachCreatorPtrs(ctx, ptrs)
}

func (s *LibraryService) attachCreatorPtrs(ctx context.Context, videos []*model.Video) error {
	if len(videos) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(videos))
	seen := make(map[int64]bool, len(videos))
	for _, v := range videos {
		if !seen[v.CreatorID] {
			seen[v.CreatorID] = true
			ids = append(ids, v.CreatorID)
		}
	}

	summaries, err := s.userRepo.GetSummaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load creators: %w", err)
	}

	for _, v := range videos {
		if summary, ok := summaries[v.CreatorID]; ok {
			s := summary
			v.Creator = &s
		}
	}
	return nil
}
