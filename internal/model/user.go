package model

import (
	"errors"
	"time"
)

// User represents an account and its channel profile.
type User struct {
	ID                 int64     `db:"id" json:"id"`
	Username           string    `db:"username" json:"username"`
	Email              string    `db:"email" json:"-"`
	PasswordHashed     string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	ChannelName        string    `db:"channel_name" json:"channel_name"`
	ChannelDescription string    `db:"channel_description" json:"channel_description"`
	ProfilePictureURL  string    `db:"profile_picture_url" json:"profile_picture"`
	SubscriberCount    int       `db:"subscriber_count" json:"subscriber_count"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// UserSummary is the public projection joined onto videos and comments.
// It never carries the email or the password hash.
type UserSummary struct {
	ID                int64  `db:"id" json:"id"`
	Username          string `db:"username" json:"username"`
	ChannelName       string `db:"channel_name" json:"channel_name"`
	ProfilePictureURL string `db:"profile_picture_url" json:"profile_picture"`
}

// ChannelProfile is the public channel page payload.
type ChannelProfile struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	ChannelName        string    `json:"channel_name"`
	ChannelDescription string    `json:"channel_description"`
	ProfilePictureURL  string    `json:"profile_picture"`
	SubscriberCount    int       `json:"subscriber_count"`
	IsSubscribed       bool      `json:"is_subscribed"`
	CreatedAt          time.Time `json:"created_at"`
}

// ChannelResponse bundles a channel profile with the creator's uploads.
type ChannelResponse struct {
	User   ChannelProfile `json:"user"`
	Videos []Video        `json:"videos"`
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	ChannelName string `json:"channel_name"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// User field constraints
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 30
	MinPasswordLength    = 6
	MinChannelNameLength = 5
	MaxChannelNameLength = 50
	MaxChannelDescLength = 1000
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to register a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to register a taken email
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("email or password is wrong")

	// ErrInvalidUserInput is returned when a register field fails validation
	ErrInvalidUserInput = errors.New("invalid user input")
)
