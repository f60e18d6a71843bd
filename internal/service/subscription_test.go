package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rubenreut/youtube-clone/internal/model"
)

func TestSubscriptionService_Toggle_SelfSubscribe(t *testing.T) {
	svc := NewSubscriptionService(nil, &mockSubscriptionRepository{}, &mockUserRepository{}, &mockPublisher{})

	_, err := svc.Toggle(context.Background(), 3, 3)
	if !errors.Is(err, model.ErrCannotSubscribeSelf) {
		t.Errorf("error = %v, want %v", err, model.ErrCannotSubscribeSelf)
	}
}

func TestSubscriptionService_Toggle_ChannelMissing(t *testing.T) {
	userRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, model.ErrUserNotFound
		},
	}
	svc := NewSubscriptionService(nil, &mockSubscriptionRepository{}, userRepo, &mockPublisher{})

	_, err := svc.Toggle(context.Background(), 3, 99)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}
