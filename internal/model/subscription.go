package model

import (
	"errors"
	"time"
)

// Subscription is a follow edge from a subscriber to a channel.
// Both the channel's subscriber set and the user's subscribed-channels set
// are views over this single table, so the two sides cannot diverge.
type Subscription struct {
	SubscriberID int64     `db:"subscriber_id" json:"subscriber_id"`
	ChannelID    int64     `db:"channel_id" json:"channel_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SubscribeResponse is returned by the subscription toggle.
type SubscribeResponse struct {
	Subscribed      bool `json:"subscribed"`
	SubscriberCount int  `json:"subscriberCount"`
}

var (
	// ErrCannotSubscribeSelf rejects subscribing to your own channel.
	ErrCannotSubscribeSelf = errors.New("cannot subscribe to yourself")
)
