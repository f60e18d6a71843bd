package service

import (
	"context"
	"fmt"
	"log"

	"github.com/rubenreut/youtube-clone/internal/cache"
	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/repository"
)

// FeedService serves the subscriptions feed from the Redis cache, warming it
// from Postgres when the cache is cold.
type FeedService struct {
	feedCache cache.FeedCache
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	subRepo   repository.SubscriptionRepository
}

func NewFeedService(feedCache cache.FeedCache, videoRepo repository.VideoRepository, userRepo repository.UserRepository, subRepo repository.SubscriptionRepository) *FeedService {
	return &FeedService{
		feedCache: feedCache,
		videoRepo: videoRepo,
		userRepo:  userRepo,
		subRepo:   subRepo,
	}
}

// GetSubscriptionsFeed returns the newest uploads from the user's subscribed
// channels, most recent first.
func (s *FeedService) GetSubscriptionsFeed(ctx context.Context, userID int64, limit int) ([]model.Video, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	exists, err := s.feedCache.Exists(ctx, userID)
	if err != nil {
		log.Printf("[FeedService] Cache check failed user=%d: %v", userID, err)
	}
	if err != nil || !exists {
		if err := s.warmFeed(ctx, userID); err != nil {
			return nil, err
		}
	}

	videoIDs, err := s.feedCache.GetFeed(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed cache: %w", err)
	}
	if len(videoIDs) == 0 {
		return []model.Video{}, nil
	}

	videos, err := s.videoRepo.GetByIDs(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate feed: %w", err)
	}

	if err := s.attachCreators(ctx, videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// warmFeed rebuilds a user's feed cache from their subscriptions.
func (s *FeedService) warmFeed(ctx context.Context, userID int64) error {
	channelIDs, err := s.subRepo.GetChannelIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if len(channelIDs) == 0 {
		return nil
	}

	scores, err := s.videoRepo.GetFeedVideoIDs(ctx, channelIDs, cache.FeedCacheCap)
	if err != nil {
		return fmt.Errorf("failed to load feed videos: %w", err)
	}

	if err := s.feedCache.WarmCache(ctx, userID, scores); err != nil {
		return fmt.Errorf("failed to warm feed cache: %w", err)
	}

	log.Printf("[FeedService] Warmed feed cache user=%d channels=%d videos=%d", userID, len(channelIDs), len(scores))
	return nil
}

func (s *FeedService) attachCreators(ctx context.Context, videos []model.Video) error {
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

	for i := range videos {
		if summary, ok := summaries[videos[i].CreatorID]; ok {
			s := summary
			videos[i].Creator = &s
		}
	}
	return nil
}
