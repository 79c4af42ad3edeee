package dto

import "github.com/google/uuid"

type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	KeySalt          string    `json:"keySalt"`
	KeyCheck         string    `json:"keyCheck"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
}

type MeResponse struct {
	User UserResponse `json:"user"`
}
