package store

import "errors"

var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating a user with an email that is
	// already taken.
	ErrAlreadyExists = errors.New("email already exists")

	// ErrProtected is returned when attempting to delete the bootstrap admin.
	ErrProtected = errors.New("account is protected")
)
