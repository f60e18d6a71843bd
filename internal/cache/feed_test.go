package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rubenreut/youtube-clone/internal/cache"
)

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx := context.Background()
	client.FlushDB(ctx)
	client.Close()
}

func TestFeedOrderingNewestFirst(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	feedCache := cache.NewFeedCache(client)
	userID := int64(1)

	now := time.Now().Unix()
	// Insert out of order; the sorted set orders by score
	feedCache.AddVideo(ctx, userID, 102, now-1800)
	feedCache.AddVideo(ctx, userID, 103, now-600)
	feedCache.AddVideo(ctx, userID, 101, now-3600)

	ids, err := feedCache.GetFeed(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}

	want := []int64{103, 102, 101}
	if len(ids) != len(want) {
		t.Fatalf("GetFeed returned %d ids, want %d", len(ids), len(want))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("feed[%d] = %d, want %d", i, ids[i], id)
		}
	}
}

func TestFeedGetFeedLimit(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	feedCache := cache.NewFeedCache(client)
	userID := int64(1)

	now := time.Now().Unix()
	for i := int64(0); i < 10; i++ {
		feedCache.AddVideo(ctx, userID, 100+i, now+i)
	}

	ids, err := feedCache.GetFeed(ctx, userID, 3)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("GetFeed returned %d ids, want 3", len(ids))
	}
	// The three newest
	if ids[0] != 109 || ids[1] != 108 || ids[2] != 107 {
		t.Errorf("feed = %v, want [109 108 107]", ids)
	}
}

func TestFeedCapEvictsOldest(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	feedCache := cache.NewFeedCache(client)
	userID := int64(1)

	base := time.Now().Unix()
	for i := int64(0); i < cache.FeedCacheCap+10; i++ {
		if err := feedCache.AddVideo(ctx, userID, 1000+i, base+i); err != nil {
			t.Fatalf("AddVideo failed: %v", err)
		}
	}

	size, err := feedCache.Size(ctx, userID)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != cache.FeedCacheCap {
		t.Errorf("feed size = %d, want %d", size, cache.FeedCacheCap)
	}

	// The oldest entries were trimmed, the newest survive
	_, found, _ := feedCache.GetScore(ctx, userID, 1000)
	if found {
		t.Error("oldest video should have been evicted")
	}
	_, found, _ = feedCache.GetScore(ctx, userID, 1000+cache.FeedCacheCap+9)
	if !found {
		t.Error("newest video should still be cached")
	}
}

func TestFeedWarmCacheAndExists(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	feedCache := cache.NewFeedCache(client)
	userID := int64(1)

	exists, err := feedCache.Exists(ctx, userID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Fatal("feed should not exist before warming")
	}

	now := time.Now().Unix()
	videos := []cache.VideoScore{
		{VideoID: 101, Timestamp: now - 3600},
		{VideoID: 102, Timestamp: now - 1800},
		{VideoID: 103, Timestamp: now - 600},
	}
	if err := feedCache.WarmCache(ctx, userID, videos); err != nil {
		t.Fatalf("WarmCache failed: %v", err)
	}

	exists, _ = feedCache.Exists(ctx, userID)
	if !exists {
		t.Error("feed should exist after warming")
	}

	size, _ := feedCache.Size(ctx, userID)
	if size != 3 {
		t.Errorf("feed size = %d, want 3", size)
	}

	// Warming with an empty slice is a no-op, not an error
	if err := feedCache.WarmCache(ctx, int64(2), nil); err != nil {
		t.Fatalf("WarmCache with no videos failed: %v", err)
	}
	exists, _ = feedCache.Exists(ctx, int64(2))
	if exists {
		t.Error("warming with no videos should not create a key")
	}
}

func TestFeedRemoveVideos(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	feedCache := cache.NewFeedCache(client)
	userID := int64(1)

	now := time.Now().Unix()
	for i := int64(0); i < 5; i++ {
		feedCache.AddVideo(ctx, userID, 100+i, now+i)
	}

	if err := feedCache.RemoveVideos(ctx, userID, []int64{101, 103}); err != nil {
		t.Fatalf("RemoveVideos failed: %v", err)
	}

	size, _ := feedCache.Size(ctx, userID)
	if size != 3 {
		t.Errorf("feed size = %d, want 3", size)
	}
	for _, id := range []int64{101, 103} {
		_, found, _ := feedCache.GetScore(ctx, userID, id)
		if found {
			t.Errorf("video %d should have been removed", id)
		}
	}

	// Removing nothing is fine
	if err := feedCache.RemoveVideos(ctx, userID, nil); err != nil {
		t.Fatalf("RemoveVideos with empty slice failed: %v", err)
	}
}
