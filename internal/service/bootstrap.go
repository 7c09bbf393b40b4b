package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/store"
)

// Default credentials for the bootstrap admin. Operators are expected to
// change the password after first login; the server prints a reminder when
// the account is created.
const (
	BootstrapAdminPassword = "123456"
	BootstrapAdminName     = "Admin User"
)

// BootstrapAdmin ensures the reserved admin account exists. It is idempotent
// and safe to run on every startup. It must complete before the server starts
// accepting requests so that login can observe the new record.
func BootstrapAdmin(ctx context.Context, st *store.Store, logger *slog.Logger) error {
	_, err := st.GetByEmail(ctx, model.ReservedAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	admin, err := st.Create(ctx, model.ReservedAdminEmail, BootstrapAdminName, BootstrapAdminPassword, true)
	if err != nil {
		// Lost a race with a concurrent bootstrap; the account exists.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	logger.Warn("bootstrap admin created with default password - change it after first login",
		"email", admin.Email)
	return nil
}
