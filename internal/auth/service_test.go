package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/roomcast-server/internal/core"
	"github.com/vovakirdan/roomcast-server/internal/store/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return NewService(st, jwtConfig)
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "not-an-email", "password123", "alice"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, err := svc.Register(ctx, "alice@example.com", "12345", "alice"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if _, _, err := svc.Register(ctx, "alice@example.com", "password123", " al "); !errors.Is(err, ErrInvalidNick) {
		t.Fatalf("expected ErrInvalidNick, got %v", err)
	}
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice@example.com", "password123", "alice"); err != nil {
		t.Fatalf("expected registration success, got %v", err)
	}

	if _, _, err := svc.Register(ctx, "alice@example.com", "password123", "alice2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, _, err := svc.Register(ctx, "alice2@example.com", "password123", "alice"); !errors.Is(err, ErrNickTaken) {
		t.Fatalf("expected ErrNickTaken, got %v", err)
	}
}

func TestLogin_ValidatesCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice@example.com", "password123", "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, err := svc.Login(ctx, "Alice@Example.com", "password123")
	if err != nil {
		t.Fatalf("expected login success, got %v", err)
	}
	if token == "" || user.Nick != "alice" {
		t.Fatalf("unexpected login result: user=%+v token=%q", user, token)
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyToken_ResolvesIdentity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@example.com", "password123", "alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	identity, err := svc.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("expected verification success, got %v", err)
	}
	if identity.UserID != user.ID || identity.Nick != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestVerifyToken_FailureModes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.VerifyToken(ctx, ""); !errors.Is(err, core.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := svc.VerifyToken(ctx, "not-a-jwt"); !errors.Is(err, core.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// A valid token for a deleted account stops verifying.
	user, token, err := svc.Register(ctx, "alice@example.com", "password123", "alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.VerifyToken(ctx, token); !errors.Is(err, core.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestVerifyToken_PicksUpNickChanges(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@example.com", "password123", "alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.UpdateNick(ctx, user.ID, "wonderland"); err != nil {
		t.Fatalf("update nick failed: %v", err)
	}

	identity, err := svc.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("verification failed: %v", err)
	}
	if identity.Nick != "wonderland" {
		t.Fatalf("expected refreshed nick, got %q", identity.Nick)
	}
}

func TestUpdateNick_RejectsConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice, _, err := svc.Register(ctx, "alice@example.com", "password123", "alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, "bob@example.com", "password123", "bob"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.UpdateNick(ctx, alice.ID, "bob"); !errors.Is(err, ErrNickTaken) {
		t.Fatalf("expected ErrNickTaken, got %v", err)
	}
	if _, err := svc.UpdateNick(ctx, alice.ID, "x"); !errors.Is(err, ErrInvalidNick) {
		t.Fatalf("expected ErrInvalidNick, got %v", err)
	}

	// Re-saving your own nick is allowed.
	if _, err := svc.UpdateNick(ctx, alice.ID, "alice"); err != nil {
		t.Fatalf("expected own-nick update to succeed, got %v", err)
	}
}
