package models

import "time"

// User is an account record. PasswordHash is nil for OAuth-only accounts
// and GoogleID is nil for password-only accounts; after a successful
// registration or OAuth sign-in at least one of the two is set.
type User struct {
	ID               string
	Email            string
	PasswordHash     *string
	GoogleID         *string
	Name             *string
	Avatar           *string
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
}

// PublicUser is the client-facing view of a User. It never carries the
// password hash or reset-code material.
type PublicUser struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   *string `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// Public returns the client-facing view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar}
}
