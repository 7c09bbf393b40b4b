package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/store"
)

func TestBootstrapAdminCreates(t *testing.T) {
	st, err := store.New("")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := BootstrapAdmin(ctx, st, logger); err != nil {
		t.Fatalf("BootstrapAdmin: %v", err)
	}

	admin, err := st.GetByEmail(ctx, model.ReservedAdminEmail)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if !admin.IsAdmin {
		t.Error("bootstrap admin should have is_admin set")
	}
	if admin.Name != BootstrapAdminName {
		t.Errorf("name = %q, want %q", admin.Name, BootstrapAdminName)
	}
	if !st.VerifyPassword(admin, BootstrapAdminPassword) {
		t.Error("default password should verify")
	}
}

func TestBootstrapAdminIdempotent(t *testing.T) {
	st, err := store.New("")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for i := 0; i < 2; i++ {
		if err := BootstrapAdmin(ctx, st, logger); err != nil {
			t.Fatalf("BootstrapAdmin run %d: %v", i+1, err)
		}
	}

	count, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("user count after double bootstrap = %d, want 1", count)
	}
}

func TestBootstrapAdminPreservesExisting(t *testing.T) {
	st, err := store.New("")
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Admin already exists with a changed password.
	if _, err := st.Create(ctx, model.ReservedAdminEmail, "Admin User", "rotated-password", true); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := BootstrapAdmin(ctx, st, logger); err != nil {
		t.Fatalf("BootstrapAdmin: %v", err)
	}

	admin, err := st.GetByEmail(ctx, model.ReservedAdminEmail)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if !st.VerifyPassword(admin, "rotated-password") {
		t.Error("bootstrap must not reset an existing admin's password")
	}
}
