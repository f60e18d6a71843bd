package service

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rubenreut/youtube-clone/internal/config"
	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/repository"
)

// UserService handles account registration, login and channel pages.
type UserService struct {
	repo      repository.UserRepository
	videoRepo repository.VideoRepository
	subRepo   repository.SubscriptionRepository
	config    *config.Config
}

func NewUserService(repo repository.UserRepository, videoRepo repository.VideoRepository, subRepo repository.SubscriptionRepository, cfg *config.Config) *UserService {
	return &UserService{
		repo:      repo,
		videoRepo: videoRepo,
		subRepo:   subRepo,
		config:    cfg,
	}
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	channelName := strings.TrimSpace(req.ChannelName)

	if len(username) < model.MinUsernameLength || len(username) > model.MaxUsernameLength {
		return nil, fmt.Errorf("%w: username must be %d-%d characters",
			model.ErrInvalidUserInput, model.MinUsernameLength, model.MaxUsernameLength)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", model.ErrInvalidUserInput)
	}
	if len(req.Password) < model.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters",
			model.ErrInvalidUserInput, model.MinPasswordLength)
	}
	if len(channelName) < model.MinChannelNameLength || len(channelName) > model.MaxChannelNameLength {
		return nil, fmt.Errorf("%w: channel name must be %d-%d characters",
			model.ErrInvalidUserInput, model.MinChannelNameLength, model.MaxChannelNameLength)
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:          username,
		Email:             email,
		PasswordHashed:    string(hashedPassword),
		ChannelName:       channelName,
		ProfilePictureURL: s.config.DefaultAvatarURL,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[UserService] Registered user id=%d username=%s", user.ID, user.Username)
	return user, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Don't reveal whether the email exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetChannel returns a channel's public profile with its uploads.
// viewerID, when set, is used to mark whether the viewer is subscribed.
func (s *UserService) GetChannel(ctx context.Context, channelID int64, viewerID *int64) (*model.ChannelResponse, error) {
	user, err := s.repo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.GetByCreator(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel videos: %w", err)
	}

	summary := model.UserSummary{
		ID:                user.ID,
		Username:          user.Username,
		ChannelName:       user.ChannelName,
		ProfilePictureURL: user.ProfilePictureURL,
	}
	for i := range videos {
		videos[i].Creator = &summary
	}

	profile := model.ChannelProfile{
		ID:                 user.ID,
		Username:           user.Username,
		ChannelName:        user.ChannelName,
		ChannelDescription: user.ChannelDescription,
		ProfilePictureURL:  user.ProfilePictureURL,
		SubscriberCount:    user.SubscriberCount,
		CreatedAt:          user.CreatedAt,
	}

	if viewerID != nil && *viewerID != channelID {
		subscribed, err := s.subRepo.Exists(ctx, *viewerID, channelID)
		if err == nil {
			profile.IsSubscribed = subscribed
		}
	}

	return &model.ChannelResponse{User: profile, Videos: videos}, nil
}
