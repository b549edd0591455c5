// Package user holds the User entity, the owner identity behind every
// account.
package user

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/moneybuddy/ledger/pkg/utils"
)

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when registering a taken email or username.
	ErrUserExists = errors.New("user already exists")
	// ErrUserUnauthorized is returned when credentials do not check out.
	ErrUserUnauthorized = errors.New("user unauthorized")
)

// User represents a registered user. Email is the unique owner identity
// used to resolve "the caller" at the transport edge.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// New creates a User with a bcrypt-hashed password and current timestamps.
func New(username, email, password string) (*User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if !utils.IsEmail(email) {
		return nil, errors.New("invalid email address")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewFromData rebuilds a User from raw data (DB hydration).
func NewFromData(
	id uuid.UUID,
	username, email, password string,
	created, updated time.Time,
) *User {
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}
