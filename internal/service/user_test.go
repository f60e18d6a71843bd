package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rubenreut/youtube-clone/internal/config"
	"github.com/rubenreut/youtube-clone/internal/model"
)

func newTestUserService(userRepo *mockUserRepository, videoRepo *mockVideoRepository, subRepo *mockSubscriptionRepository) *UserService {
	if userRepo == nil {
		userRepo = &mockUserRepository{}
	}
	if videoRepo == nil {
		videoRepo = &mockVideoRepository{}
	}
	if subRepo == nil {
		subRepo = &mockSubscriptionRepository{}
	}
	cfg := &config.Config{DefaultAvatarURL: "https://cdn.example.com/default-avatar.png"}
	return NewUserService(userRepo, videoRepo, subRepo, cfg)
}

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			return nil
		},
	}
	svc := newTestUserService(mockRepo, nil, nil)

	req := &model.RegisterRequest{
		Username:    "testuser",
		Email:       "Test@Example.COM",
		Password:    "securepassword",
		ChannelName: "Test Channel",
	}

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.Username != "testuser" {
		t.Errorf("username = %q, want %q", user.Username, "testuser")
	}

	// Email is normalized to lowercase
	if user.Email != "test@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}

	// New accounts get the placeholder avatar
	if user.ProfilePictureURL == "" {
		t.Error("expected default avatar URL to be set")
	}

	// Password must be hashed, never stored as-is
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Error("password hash should be a valid bcrypt hash")
	}

	if len(mockRepo.createCalls) != 1 {
		t.Errorf("Create called %d times, want 1", len(mockRepo.createCalls))
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{
			name: "username too short",
			req:  model.RegisterRequest{Username: "ab", Email: "a@b.com", Password: "password", ChannelName: "My Channel"},
		},
		{
			name: "username too long",
			req:  model.RegisterRequest{Username: strings.Repeat("a", 31), Email: "a@b.com", Password: "password", ChannelName: "My Channel"},
		},
		{
			name: "invalid email",
			req:  model.RegisterRequest{Username: "validuser", Email: "not-an-email", Password: "password", ChannelName: "My Channel"},
		},
		{
			name: "password too short",
			req:  model.RegisterRequest{Username: "validuser", Email: "a@b.com", Password: "12345", ChannelName: "My Channel"},
		},
		{
			name: "channel name too short",
			req:  model.RegisterRequest{Username: "validuser", Email: "a@b.com", Password: "password", ChannelName: "abcd"},
		},
		{
			name: "channel name too long",
			req:  model.RegisterRequest{Username: "validuser", Email: "a@b.com", Password: "password", ChannelName: strings.Repeat("c", 51)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{}
			svc := newTestUserService(mockRepo, nil, nil)

			_, err := svc.Register(context.Background(), &tt.req)
			if !errors.Is(err, model.ErrInvalidUserInput) {
				t.Errorf("error = %v, want %v", err, model.ErrInvalidUserInput)
			}
			if len(mockRepo.createCalls) != 0 {
				t.Error("Create should not be called on validation failure")
			}
		})
	}
}

func TestUserService_Register_UsernameExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestUserService(mockRepo, nil, nil)

	req := &model.RegisterRequest{
		Username:    "existinguser",
		Email:       "new@example.com",
		Password:    "password123",
		ChannelName: "Some Channel",
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, model.ErrUsernameExists) {
		t.Errorf("error = %v, want %v", err, model.ErrUsernameExists)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when username exists")
	}
}

func TestUserService_Register_EmailExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestUserService(mockRepo, nil, nil)

	req := &model.RegisterRequest{
		Username:    "newuser",
		Email:       "taken@example.com",
		Password:    "password123",
		ChannelName: "Some Channel",
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("error = %v, want %v", err, model.ErrEmailExists)
	}
}

func TestUserService_Login(t *testing.T) {
	validPassword := "correctpassword"
	validHash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), bcrypt.MinCost)

	testUser := &model.User{
		ID:             1,
		Username:       "testuser",
		Email:          "test@example.com",
		PasswordHashed: string(validHash),
	}

	tests := []struct {
		name           string
		email          string
		password       string
		mockGetByEmail func(ctx context.Context, email string) (*model.User, error)
		wantErr        error
		wantUser       bool
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: validPassword,
			mockGetByEmail: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantErr:  nil,
			wantUser: true,
		},
		{
			name:     "email case is normalized",
			email:    "TEST@Example.com",
			password: validPassword,
			mockGetByEmail: func(ctx context.Context, email string) (*model.User, error) {
				if email != "test@example.com" {
					return nil, model.ErrUserNotFound
				}
				return testUser, nil
			},
			wantErr:  nil,
			wantUser: true,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "anypassword",
			mockGetByEmail: func(ctx context.Context, email string) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			wantErr:  model.ErrInvalidCredentials, // Don't reveal the email is unknown
			wantUser: false,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			mockGetByEmail: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantErr:  model.ErrInvalidCredentials,
			wantUser: false,
		},
		{
			name:     "database error",
			email:    "test@example.com",
			password: validPassword,
			mockGetByEmail: func(ctx context.Context, email string) (*model.User, error) {
				return nil, errors.New("database error")
			},
			wantErr:  model.ErrInvalidCredentials, // Don't reveal internal errors
			wantUser: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{
				getByEmailFn: tt.mockGetByEmail,
			}
			svc := newTestUserService(mockRepo, nil, nil)

			user, err := svc.Login(context.Background(), &model.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantUser && user == nil {
				t.Error("expected user, got nil")
			}
			if !tt.wantUser && user != nil {
				t.Error("expected nil user")
			}
		})
	}
}

func TestUserService_GetChannel(t *testing.T) {
	channel := &model.User{
		ID:              5,
		Username:        "creator",
		ChannelName:     "Creator Channel",
		SubscriberCount: 42,
	}

	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if id == 5 {
				return channel, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
	mockVideos := &mockVideoRepository{
		getByCreatorFn: func(ctx context.Context, creatorID int64) ([]model.Video, error) {
			return []model.Video{{ID: 10, CreatorID: creatorID}, {ID: 11, CreatorID: creatorID}}, nil
		},
	}
	mockSubs := &mockSubscriptionRepository{
		existsFn: func(ctx context.Context, subscriberID, channelID int64) (bool, error) {
			return subscriberID == 7, nil
		},
	}
	svc := newTestUserService(mockRepo, mockVideos, mockSubs)

	// Anonymous viewer
	resp, err := svc.GetChannel(context.Background(), 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.IsSubscribed {
		t.Error("anonymous viewer should not be marked subscribed")
	}
	if len(resp.Videos) != 2 {
		t.Errorf("videos = %d, want 2", len(resp.Videos))
	}
	if resp.Videos[0].Creator == nil || resp.Videos[0].Creator.ID != 5 {
		t.Error("channel videos should carry the creator summary")
	}

	// Subscribed viewer
	viewerID := int64(7)
	resp, err = svc.GetChannel(context.Background(), 5, &viewerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.User.IsSubscribed {
		t.Error("subscribed viewer should be marked subscribed")
	}

	// Unknown channel
	if _, err := svc.GetChannel(context.Background(), 999, nil); !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}
