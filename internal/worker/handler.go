package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rubenreut/youtube-clone/internal/cache"
	"github.com/rubenreut/youtube-clone/internal/queue"
)

const (
	// BackfillLimit is how many recent uploads to copy into a new
	// subscriber's feed cache.
	BackfillLimit = 50
)

// SubscriberProvider abstracts the subscription repository so workers don't
// depend on the DB layer directly.
type SubscriberProvider interface {
	// GetSubscriberIDs returns all subscriber IDs for a channel.
	GetSubscriberIDs(ctx context.Context, channelID int64) ([]int64, error)
}

// RecentVideosProvider fetches a channel's recent uploads, used both for
// subscribe backfill and unsubscribe cleanup.
type RecentVideosProvider interface {
	GetRecentByCreator(ctx context.Context, creatorID int64, limit int) ([]cache.VideoScore, error)
}

// Handler processes subscription feed events from the queue.
type Handler struct {
	feedCache      cache.FeedCache
	subscribers    SubscriberProvider
	videosProvider RecentVideosProvider
}

// NewHandler creates a new event handler.
func NewHandler(feedCache cache.FeedCache, subscribers SubscriberProvider, videosProvider RecentVideosProvider) *Handler {
	return &Handler{
		feedCache:      feedCache,
		subscribers:    subscribers,
		videosProvider: videosProvider,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.FeedEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventVideoUploaded:
		err = h.handleVideoUploaded(ctx, event)
	case queue.EventVideoDeleted:
		err = h.handleVideoDeleted(ctx, event)
	case queue.EventChannelSubscribed:
		err = h.handleChannelSubscribed(ctx, event)
	case queue.EventChannelUnsubscribed:
		err = h.handleChannelUnsubscribed(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleVideoUploaded fans out a new upload to all subscribers' feed caches.
func (h *Handler) handleVideoUploaded(ctx context.Context, event queue.FeedEvent) error {
	log.Printf("[Worker] VideoUploaded: video=%d creator=%d", event.VideoID, event.CreatorID)

	subscribers, err := h.subscribers.GetSubscriberIDs(ctx, event.CreatorID)
	if err != nil {
		return fmt.Errorf("get subscribers: %w", err)
	}

	log.Printf("[Worker] VideoUploaded: fanning out to %d subscribers", len(subscribers))

	var failCount int
	for _, subscriberID := range subscribers {
		if err := h.feedCache.AddVideo(ctx, subscriberID, event.VideoID, event.Timestamp); err != nil {
			log.Printf("[Worker] VideoUploaded: failed to add to user=%d err=%v", subscriberID, err)
			failCount++
			// Continue with other subscribers - don't fail the entire fan-out
		}
	}

	// Creators see their own uploads in their feed too
	if err := h.feedCache.AddVideo(ctx, event.CreatorID, event.VideoID, event.Timestamp); err != nil {
		log.Printf("[Worker] VideoUploaded: failed to add to creator's own feed err=%v", err)
		failCount++
	}

	if failCount > 0 {
		return fmt.Errorf("fan-out had %d failures", failCount)
	}
	return nil
}

// handleVideoDeleted removes a video from all subscribers' feed caches.
func (h *Handler) handleVideoDeleted(ctx context.Context, event queue.FeedEvent) error {
	log.Printf("[Worker] VideoDeleted: video=%d creator=%d", event.VideoID, event.CreatorID)

	subscribers, err := h.subscribers.GetSubscriberIDs(ctx, event.CreatorID)
	if err != nil {
		return fmt.Errorf("get subscribers: %w", err)
	}

	var failCount int
	for _, subscriberID := range subscribers {
		if err := h.feedCache.RemoveVideo(ctx, subscriberID, event.VideoID); err != nil {
			log.Printf("[Worker] VideoDeleted: failed to remove from user=%d err=%v", subscriberID, err)
			failCount++
		}
	}

	if err := h.feedCache.RemoveVideo(ctx, event.CreatorID, event.VideoID); err != nil {
		log.Printf("[Worker] VideoDeleted: failed to remove from creator's own feed err=%v", err)
		failCount++
	}

	if failCount > 0 {
		return fmt.Errorf("removal had %d failures", failCount)
	}
	return nil
}

// handleChannelSubscribed backfills the channel's recent uploads into the
// subscriber's feed cache.
func (h *Handler) handleChannelSubscribed(ctx context.Context, event queue.FeedEvent) error {
	log.Printf("[Worker] ChannelSubscribed: subscriber=%d channel=%d", event.SubscriberID, event.ChannelID)

	videos, err := h.videosProvider.GetRecentByCreator(ctx, event.ChannelID, BackfillLimit)
	if err != nil {
		return fmt.Errorf("get recent videos: %w", err)
	}

	if len(videos) == 0 {
		return nil
	}

	if err := h.feedCache.WarmCache(ctx, event.SubscriberID, videos); err != nil {
		return fmt.Errorf("backfill feed cache: %w", err)
	}

	log.Printf("[Worker] ChannelSubscribed: backfilled %d videos", len(videos))
	return nil
}

// handleChannelUnsubscribed removes the channel's videos from the
// subscriber's feed cache.
func (h *Handler) handleChannelUnsubscribed(ctx context.Context, event queue.FeedEvent) error {
	log.Printf("[Worker] ChannelUnsubscribed: subscriber=%d channel=%d", event.SubscriberID, event.ChannelID)

	// The cache holds at most FeedCacheCap entries, so fetching up to the cap
	// covers everything that could be cached.
	videos, err := h.videosProvider.GetRecentByCreator(ctx, event.ChannelID, cache.FeedCacheCap)
	if err != nil {
		return fmt.Errorf("get recent videos: %w", err)
	}

	videoIDs := make([]int64, len(videos))
	for i, v := range videos {
		videoIDs[i] = v.VideoID
	}

	if err := h.feedCache.RemoveVideos(ctx, event.SubscriberID, videoIDs); err != nil {
		return fmt.Errorf("remove channel videos: %w", err)
	}

	log.Printf("[Worker] ChannelUnsubscribed: removed %d videos", len(videoIDs))
	return nil
}
