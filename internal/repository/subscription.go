package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Exists checks whether the subscriber follows the channel.
func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)
	`, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("check subscription exists: %w", err)
	}
	return exists, nil
}

// Create inserts the edge. Returns false if it already existed: ON CONFLICT
// DO NOTHING makes a duplicate toggle race a no-op instead of a failure.
func (r *subscriptionRepository) Create(ctx context.Context, tx *sqlx.Tx, subscriberID, channelID int64) (bool, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("insert subscription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Delete removes the edge. Absence is not an error.
func (r *subscriptionRepository) Delete(ctx context.Context, tx *sqlx.Tx, subscriberID, channelID int64) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
	`, subscriberID, channelID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// GetChannelIDs returns the channels a user is subscribed to.
func (r *subscriptionRepository) GetChannelIDs(ctx context.Context, subscriberID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `
		SELECT channel_id FROM subscriptions WHERE subscriber_id = $1
	`, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("get channel ids: %w", err)
	}
	return ids, nil
}

// GetSubscriberIDs returns the subscribers of a channel.
func (r *subscriptionRepository) GetSubscriberIDs(ctx context.Context, channelID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `
		SELECT subscriber_id FROM subscriptions WHERE channel_id = $1
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("get subscriber ids: %w", err)
	}
	return ids, nil
}

// CheckSubscriptions batch-checks which of the given channels the subscriber
// follows (single ANY($1) query, not N+1).
func (r *subscriptionRepository) CheckSubscriptions(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		result[id] = false
	}
	if len(channelIDs) == 0 {
		return result, nil
	}

	var subscribed []int64
	err := r.db.SelectContext(ctx, &subscribed, `
		SELECT channel_id FROM subscriptions
		WHERE subscriber_id = $1 AND channel_id = ANY($2)
	`, subscriberID, pq.Array(channelIDs))
	if err != nil {
		return nil, fmt.Errorf("check subscriptions: %w", err)
	}

	for _, id := range subscribed {
		result[id] = true
	}
	return result, nil
}
