package dto

import "github.com/google/uuid"

// VaultItemRequest is used for both create and full replace.
type VaultItemRequest struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
}

type VaultItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	URL       string    `json:"url"`
	Notes     string    `json:"notes"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type VaultListResponse struct {
	Items []VaultItemResponse `json:"items"`
}
