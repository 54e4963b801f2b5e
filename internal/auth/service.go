package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/vovakirdan/roomcast-server/internal/core"
	"github.com/vovakirdan/roomcast-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when email/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNickTaken is returned when the nick belongs to another user.
	ErrNickTaken = errors.New("nick already taken")
	// ErrInvalidEmail is returned when the email doesn't parse.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidNick is returned when the nick doesn't meet constraints.
	ErrInvalidNick = errors.New("invalid nick")
	// ErrInvalidPassword is returned when the password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service provides authentication and account operations. Its VerifyToken
// method is the coordinator's credential verifier.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
	}
}

// Register creates a new user with hashed password and returns the user
// with a JWT token.
func (s *Service) Register(ctx context.Context, email, password, nick string) (*store.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	nick = strings.TrimSpace(nick)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, "", ErrInvalidPassword
	}
	if len(nick) < 3 || len(nick) > 32 {
		return nil, "", ErrInvalidNick
	}

	if existing, err := s.store.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", ErrEmailTaken
	}
	if existing, err := s.store.GetUserByNick(ctx, nick); err == nil && existing != nil {
		return nil, "", ErrNickTaken
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, nick, hashedPassword)
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Nick)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// Login validates credentials and returns the user with a JWT token.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if errPwd := ComparePassword(user.PasswordHash, password); errPwd != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Nick)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// UpdateNick changes the user's display name, rejecting nicks taken by
// other users.
func (s *Service) UpdateNick(ctx context.Context, userID int64, nick string) (*store.User, error) {
	nick = strings.TrimSpace(nick)
	if len(nick) < 3 || len(nick) > 32 {
		return nil, ErrInvalidNick
	}

	if existing, err := s.store.GetUserByNick(ctx, nick); err == nil && existing != nil && existing.ID != userID {
		return nil, ErrNickTaken
	}

	user, err := s.store.UpdateNick(ctx, userID, nick)
	if err != nil {
		return nil, fmt.Errorf("update nick: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user record. Tokens issued for the account
// stop verifying once the user row is gone.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// VerifyToken resolves a bearer token to a verified identity. The user is
// re-fetched on every call so deleted accounts lose access immediately.
// Failures map to the coordinator's credential-failure sentinels.
func (s *Service) VerifyToken(ctx context.Context, token string) (core.Identity, error) {
	if token == "" {
		return core.Identity{}, core.ErrMissingToken
	}

	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return core.Identity{}, core.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.Identity{}, core.ErrUserNotFound
		}
		return core.Identity{}, core.ErrInvalidToken
	}

	// The stored nick wins over the token's claim; nick edits take effect
	// without reissuing tokens.
	return core.Identity{UserID: user.ID, Nick: user.Nick}, nil
}

// ValidateClaims validates a JWT token and returns the claims. Used by the
// HTTP middleware where a store round-trip per request is not needed.
func (s *Service) ValidateClaims(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
