package domain

import (
	"context"
	"encoding/json"
	"time"
)

// User represents a registered learner.
//
// Email is stored canonicalized (trimmed, lowercased), so uniqueness and
// login are case-insensitive. Onboarding is an opaque JSON blob the client
// collects during signup; the backend never interprets it.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	Onboarding   json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
