package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the subscription feed stream
const (
	EventVideoUploaded      = "video_uploaded"
	EventVideoDeleted       = "video_deleted"
	EventChannelSubscribed  = "channel_subscribed"
	EventChannelUnsubscribed = "channel_unsubscribed"
)

// Stream names
const (
	StreamSubFeed = "stream:subfeed"
)

// Consumer group name for feed workers
const (
	ConsumerGroupSubFeed = "subfeed_workers"
)

// FeedEvent represents an event published to the subscription feed stream.
type FeedEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// Video events (VideoUploaded, VideoDeleted)
	VideoID   int64 `json:"video_id,omitempty"`
	CreatorID int64 `json:"creator_id,omitempty"`

	// Subscription events (ChannelSubscribed, ChannelUnsubscribed)
	SubscriberID int64 `json:"subscriber_id,omitempty"`
	ChannelID    int64 `json:"channel_id,omitempty"`
}

// NewVideoUploadedEvent creates an event for a fresh upload.
// Workers fan the video out to every subscriber's feed cache.
func NewVideoUploadedEvent(videoID, creatorID int64) FeedEvent {
	return FeedEvent{
		Type:      EventVideoUploaded,
		Timestamp: time.Now().Unix(),
		VideoID:   videoID,
		CreatorID: creatorID,
	}
}

// NewVideoDeletedEvent creates an event for a deleted video.
// Workers remove the video from every subscriber's feed cache.
func NewVideoDeletedEvent(videoID, creatorID int64) FeedEvent {
	return FeedEvent{
		Type:      EventVideoDeleted,
		Timestamp: time.Now().Unix(),
		VideoID:   videoID,
		CreatorID: creatorID,
	}
}

// NewChannelSubscribedEvent creates an event for a new subscription.
// Workers backfill the channel's recent uploads into the subscriber's cache.
func NewChannelSubscribedEvent(subscriberID, channelID int64) FeedEvent {
	return FeedEvent{
		Type:         EventChannelSubscribed,
		Timestamp:    time.Now().Unix(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
}

// NewChannelUnsubscribedEvent creates an event for an ended subscription.
// Workers remove the channel's videos from the subscriber's cache.
func NewChannelUnsubscribedEvent(subscriberID, channelID int64) FeedEvent {
	return FeedEvent{
		Type:         EventChannelUnsubscribed,
		Timestamp:    time.Now().Unix(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Streams store field-value pairs, so the payload is JSON in a "data" field.
func (e FeedEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseFeedEvent parses a FeedEvent from Redis stream message values.
func ParseFeedEvent(values map[string]interface{}) (FeedEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return FeedEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event FeedEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return FeedEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
