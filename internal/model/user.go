package model

import "time"

// ReservedAdminEmail identifies the bootstrap admin account. This account is
// created at startup if missing and can never be deleted through the API.
const ReservedAdminEmail = "admin@test.com"

// User represents an account that can log in. Passwords are stored as bcrypt
// hashes.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"` // bcrypt hash, never expose
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsReservedAdmin reports whether this is the bootstrap admin account.
func (u *User) IsReservedAdmin() bool {
	return u.Email == ReservedAdminEmail
}
