package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/store"
)

func newTestAuth(t *testing.T) (*AuthService, *store.Store) {
	t.Helper()
	st, err := store.New("")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	auth := NewAuthService(st, "test-secret-key-for-jwt", time.Hour)
	return auth, st
}

func seedUser(t *testing.T, st *store.Store, email, password string, isAdmin bool) *model.User {
	t.Helper()
	user, err := st.Create(context.Background(), email, "", password, isAdmin)
	if err != nil {
		t.Fatalf("seedUser %s: %v", email, err)
	}
	return user
}

func TestTokenRoundTrip(t *testing.T) {
	auth, st := newTestAuth(t)
	user := seedUser(t, st, "alice@example.com", "pw", false)

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	identity, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if identity.Email != "alice@example.com" {
		t.Errorf("Email: got %q, want %q", identity.Email, "alice@example.com")
	}
	if identity.UserID != user.ID {
		t.Errorf("UserID: got %q, want %q", identity.UserID, user.ID)
	}
}

func TestTokenExpired(t *testing.T) {
	st, err := store.New("")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	// Negative TTL produces a token that is already expired.
	auth := NewAuthService(st, "test-secret", -time.Hour)
	user := seedUser(t, st, "old@example.com", "pw", false)

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	_, err = auth.VerifyToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	auth, _ := newTestAuth(t)

	for _, token := range []string{"", "garbage", "not.a.jwt"} {
		if _, err := auth.VerifyToken(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("VerifyToken(%q): expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenTampered(t *testing.T) {
	auth, st := newTestAuth(t)
	user := seedUser(t, st, "bob@example.com", "pw", false)

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Flip the last signature character; the result must fail the signature
	// check, not parse as expired or succeed.
	last := token[len(token)-1]
	flip := byte('A')
	if last == flip {
		flip = 'B'
	}
	tampered := token[:len(token)-1] + string(flip)

	if _, err := auth.VerifyToken(tampered); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestTokenWrongKey(t *testing.T) {
	auth, st := newTestAuth(t)
	user := seedUser(t, st, "eve@example.com", "pw", false)

	other := NewAuthService(st, "a-different-secret", time.Hour)
	token, err := other.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := auth.VerifyToken(token); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	auth, st := newTestAuth(t)
	seedUser(t, st, "carol@example.com", "right-password", false)
	ctx := context.Background()

	token, user, err := auth.Login(ctx, "carol@example.com", "right-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if user.Email != "carol@example.com" {
		t.Errorf("user email = %q, want carol@example.com", user.Email)
	}

	// Wrong password and unknown email both map to the same error.
	if _, _, err := auth.Login(ctx, "carol@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := auth.Login(ctx, "nobody@example.com", "right-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResolveToken(t *testing.T) {
	auth, st := newTestAuth(t)
	user := seedUser(t, st, "dave@example.com", "pw", false)
	ctx := context.Background()

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	resolved, err := auth.ResolveToken(ctx, token)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved ID = %q, want %q", resolved.ID, user.ID)
	}
}

func TestResolveTokenDeletedUser(t *testing.T) {
	auth, st := newTestAuth(t)
	user := seedUser(t, st, "ghost@example.com", "pw", false)
	ctx := context.Background()

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := st.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The token still verifies; resolution fails separately.
	if _, err := auth.VerifyToken(token); err != nil {
		t.Errorf("VerifyToken after delete: %v", err)
	}
	if _, err := auth.ResolveToken(ctx, token); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
}

func TestTokenSubjectIsEmail(t *testing.T) {
	auth, st := newTestAuth(t)
	user := seedUser(t, st, "subject@example.com", "pw", false)

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if parts := strings.Count(token, "."); parts != 2 {
		t.Fatalf("token has %d dots, want 2", parts)
	}

	identity, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if identity.Email != user.Email {
		t.Errorf("subject = %q, want %q", identity.Email, user.Email)
	}
}
