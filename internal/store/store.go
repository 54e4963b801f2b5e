package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a queried record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a user in the system.
type User struct {
	ID           int64
	Email        string
	Nick         string
	PasswordHash string
	CreatedAt    time.Time
}

// Message represents a persisted chat message.
type Message struct {
	ID        int64
	Room      string
	UserID    int64
	Nick      string
	Text      string
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, email, nick, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByNick retrieves a user by nick.
	GetUserByNick(ctx context.Context, nick string) (*User, error)

	// UpdateNick changes the user's display name.
	UpdateNick(ctx context.Context, id int64, nick string) (*User, error)

	// DeleteUser removes the user record.
	DeleteUser(ctx context.Context, id int64) error
}

// MessageStore is the append-only message log keyed by room name.
type MessageStore interface {
	// AppendMessage persists one message and returns its assigned id.
	AppendMessage(ctx context.Context, msg *Message) (int64, error)

	// ListRecent returns the newest limit messages for a room, reordered
	// oldest to newest.
	ListRecent(ctx context.Context, room string, limit int) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
