package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// FeedCachePrefix is the key prefix for per-user subscription feed caches
	FeedCachePrefix = "subfeed:user:"

	// FeedCacheCap is the maximum number of videos cached per user
	FeedCacheCap = 500

	// FeedCacheTTL is the TTL for a feed cache entry (7 days)
	FeedCacheTTL = 7 * 24 * time.Hour
)

// VideoScore is a video with its upload timestamp used as the sort score.
type VideoScore struct {
	VideoID   int64
	Timestamp int64 // Unix timestamp
}

// FeedCache holds each user's subscription feed as a Redis sorted set of
// video IDs scored by upload time. An interface so tests can swap backends.
type FeedCache interface {
	// AddVideo adds a video to a user's feed cache.
	// Pipeline: ZADD + ZREMRANGEBYRANK (maintain cap) + EXPIRE (refresh TTL).
	AddVideo(ctx context.Context, userID, videoID int64, timestamp int64) error

	// RemoveVideo removes a single video from a user's feed cache.
	RemoveVideo(ctx context.Context, userID, videoID int64) error

	// RemoveVideos removes several videos from a user's feed cache at once
	// (unsubscribe removes everything from that channel).
	RemoveVideos(ctx context.Context, userID int64, videoIDs []int64) error

	// GetFeed returns the newest video IDs in a user's feed, up to limit.
	GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error)

	// GetScore returns the timestamp score for a video in a user's feed.
	// found=false if the video is not cached.
	GetScore(ctx context.Context, userID, videoID int64) (score int64, found bool, err error)

	// WarmCache bulk-inserts videos into a user's feed cache.
	WarmCache(ctx context.Context, userID int64, videos []VideoScore) error

	// Size returns the number of videos in a user's feed cache.
	Size(ctx context.Context, userID int64) (int64, error)

	// Exists checks if a user has a feed cache entry. False means a new user
	// or an expired TTL; the service warms the cache in that case.
	Exists(ctx context.Context, userID int64) (bool, error)
}

// RedisFeedCache implements FeedCache using Redis sorted sets.
type RedisFeedCache struct {
	client *redis.Client
}

// NewFeedCache creates a FeedCache backed by Redis.
func NewFeedCache(client *redis.Client) FeedCache {
	return &RedisFeedCache{client: client}
}

func feedKey(userID int64) string {
	return fmt.Sprintf("%s%d", FeedCachePrefix, userID)
}

func (c *RedisFeedCache) AddVideo(ctx context.Context, userID, videoID int64, timestamp int64) error {
	key := feedKey(userID)

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(timestamp), Member: videoID})
	// Trim to cap, dropping the oldest entries
	pipe.ZRemRangeByRank(ctx, key, 0, -(FeedCacheCap + 1))
	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add video to feed cache: %w", err)
	}
	return nil
}

func (c *RedisFeedCache) RemoveVideo(ctx context.Context, userID, videoID int64) error {
	if err := c.client.ZRem(ctx, feedKey(userID), videoID).Err(); err != nil {
		return fmt.Errorf("remove video from feed cache: %w", err)
	}
	return nil
}

func (c *RedisFeedCache) RemoveVideos(ctx context.Context, userID int64, videoIDs []int64) error {
	if len(videoIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(videoIDs))
	for i, id := range videoIDs {
		members[i] = id
	}
	if err := c.client.ZRem(ctx, feedKey(userID), members...).Err(); err != nil {
		return fmt.Errorf("remove videos from feed cache: %w", err)
	}
	return nil
}

func (c *RedisFeedCache) GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	// Newest first
	members, err := c.client.ZRevRange(ctx, feedKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("get feed from cache: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue // skip corrupt members rather than failing the feed
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *RedisFeedCache) GetScore(ctx context.Context, userID, videoID int64) (int64, bool, error) {
	score, err := c.client.ZScore(ctx, feedKey(userID), strconv.FormatInt(videoID, 10)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get feed score: %w", err)
	}
	return int64(score), true, nil
}

func (c *RedisFeedCache) WarmCache(ctx context.Context, userID int64, videos []VideoScore) error {
	if len(videos) == 0 {
		return nil
	}

	key := feedKey(userID)
	members := make([]redis.Z, len(videos))
	for i, v := range videos {
		members[i] = redis.Z{Score: float64(v.Timestamp), Member: v.VideoID}
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, members...)
	pipe.ZRemRangeByRank(ctx, key, 0, -(FeedCacheCap + 1))
	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("warm feed cache: %w", err)
	}
	return nil
}

func (c *RedisFeedCache) Size(ctx context.Context, userID int64) (int64, error) {
	size, err := c.client.ZCard(ctx, feedKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("feed cache size: %w", err)
	}
	return size, nil
}

func (c *RedisFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	n, err := c.client.Exists(ctx, feedKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("feed cache exists: %w", err)
	}
	return n > 0, nil
}
