package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	KeySalt          string    `json:"keySalt"`
	KeyCheck         string    `json:"keyCheck"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	TwoFactorSecret  *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HasTwoFactorSecret reports whether a TOTP secret is provisioned, whether or
// not it has been confirmed yet.
func (u *User) HasTwoFactorSecret() bool {
	return u.TwoFactorSecret != nil && *u.TwoFactorSecret != ""
}
