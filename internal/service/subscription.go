package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/queue"
	"github.com/rubenreut/youtube-clone/internal/repository"
)

// SubscriptionService handles the subscribe toggle. A subscription is a
// single edge row, so the channel's subscriber set and the user's
// subscribed-channels set cannot drift apart.
type SubscriptionService struct {
	db        *sqlx.DB
	repo      repository.SubscriptionRepository
	userRepo  repository.UserRepository
	publisher queue.Publisher
}

func NewSubscriptionService(db *sqlx.DB, repo repository.SubscriptionRepository, userRepo repository.UserRepository, publisher queue.Publisher) *SubscriptionService {
	return &SubscriptionService{
		db:        db,
		repo:      repo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Toggle subscribes the user to the channel, or unsubscribes if already
// subscribed. The subscriber counter moves in the same transaction as the
// edge row.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID int64) (*model.SubscribeResponse, error) {
	if subscriberID == channelID {
		return nil, model.ErrCannotSubscribeSelf
	}

	if _, err := s.userRepo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var subscribed bool

	exists, err := s.repo.Exists(ctx, subscriberID, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}

	if exists {
		if err := s.repo.Delete(ctx, tx, subscriberID, channelID); err != nil {
			return nil, fmt.Errorf("failed to unsubscribe: %w", err)
		}
		if err := s.userRepo.IncrementSubscriberCount(ctx, tx, channelID, -1); err != nil {
			return nil, fmt.Errorf("failed to drop subscriber count: %w", err)
		}
		subscribed = false
	} else {
		created, err := s.repo.Create(ctx, tx, subscriberID, channelID)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe: %w", err)
		}
		// ON CONFLICT DO NOTHING lost the race - treat as already subscribed
		if created {
			if err := s.userRepo.IncrementSubscriberCount(ctx, tx, channelID, 1); err != nil {
				return nil, fmt.Errorf("failed to bump subscriber count: %w", err)
			}
		}
		subscribed = true
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	// Feed backfill/cleanup is asynchronous; failures must not fail the toggle
	var event queue.FeedEvent
	if subscribed {
		event = queue.NewChannelSubscribedEvent(subscriberID, channelID)
	} else {
		event = queue.NewChannelUnsubscribedEvent(subscriberID, channelID)
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamSubFeed, event); err != nil {
		log.Printf("[SubscriptionService] Failed to publish event subscriber=%d channel=%d: %v", subscriberID, channelID, err)
	}

	// Re-read for the post-toggle count rather than guessing from a stale row
	channel, err := s.userRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	return &model.SubscribeResponse{
		Subscribed:      subscribed,
		SubscriberCount: channel.SubscriberCount,
	}, nil
}
