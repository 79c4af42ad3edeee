package models

import (
	"time"

	"github.com/google/uuid"
)

// VaultItem is one stored credential. Password and Notes hold field
// ciphertext produced by the client; the server never interprets them.
type VaultItem struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	URL       string    `json:"url"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
