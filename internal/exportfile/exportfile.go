// Package exportfile seals a vault export into a passphrase-encrypted,
// checksummed envelope and opens it again on import.
//
// The envelope data is base64(salt || nonce || AES-GCM ciphertext) with the
// key derived from the passphrase by argon2id. The checksum is the hex SHA-256
// of the data string and is checked before any decryption is attempted.
package exportfile

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/lockbox-api/internal/cryptox"
)

const (
	Type    = "lockbox-vault-export"
	Version = "1.0"
)

var (
	ErrInvalidFormat  = errors.New("invalid export file format")
	ErrIntegrity      = errors.New("file integrity check failed")
	ErrDecrypt        = errors.New("invalid password or corrupted data")
	ErrInvalidPayload = errors.New("invalid export data structure")
)

type Envelope struct {
	Type     string `json:"type"`
	Version  string `json:"version"`
	Data     string `json:"data"`
	Checksum string `json:"checksum"`
}

type Payload struct {
	Version    string    `json:"version"`
	ExportDate time.Time `json:"exportDate"`
	OwnerEmail string    `json:"ownerEmail"`
	Items      []Item    `json:"items"`
}

// Item keeps the field ciphertext exactly as stored.
type Item struct {
	Title     string     `json:"title"`
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	URL       string     `json:"url"`
	Notes     string     `json:"notes"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func Checksum(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func Seal(payload Payload, passphrase string) (*Envelope, error) {
	if passphrase == "" {
		return nil, errors.New("export passphrase is empty")
	}
	if payload.Items == nil {
		payload.Items = []Item{}
	}
	if payload.Version == "" {
		payload.Version = Version
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export payload: %w", err)
	}

	salt, err := cryptox.RandomBytes(cryptox.SaltSize)
	if err != nil {
		return nil, err
	}

	sealed, err := cryptox.Seal(plaintext, cryptox.DeriveKey([]byte(passphrase), salt))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt export payload: %w", err)
	}

	data := base64.StdEncoding.EncodeToString(append(salt, sealed...))
	return &Envelope{
		Type:     Type,
		Version:  Version,
		Data:     data,
		Checksum: Checksum(data),
	}, nil
}

// Open validates and decrypts env. Checks run in a fixed order: type marker,
// checksum, decryption, payload shape.
func Open(env Envelope, passphrase string) (*Payload, error) {
	if env.Type != Type {
		return nil, ErrInvalidFormat
	}

	expected := Checksum(env.Data)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(env.Checksum)) != 1 {
		return nil, ErrIntegrity
	}

	raw, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil || len(raw) <= cryptox.SaltSize {
		return nil, ErrDecrypt
	}

	salt, sealed := raw[:cryptox.SaltSize], raw[cryptox.SaltSize:]
	plaintext, err := cryptox.Open(sealed, cryptox.DeriveKey([]byte(passphrase), salt))
	if err != nil {
		return nil, ErrDecrypt
	}

	var shape struct {
		Version    string          `json:"version"`
		ExportDate time.Time       `json:"exportDate"`
		OwnerEmail string          `json:"ownerEmail"`
		Items      json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(plaintext, &shape); err != nil {
		return nil, ErrDecrypt
	}

	items := bytes.TrimSpace(shape.Items)
	if len(items) == 0 || items[0] != '[' {
		return nil, ErrInvalidPayload
	}

	payload := &Payload{
		Version:    shape.Version,
		ExportDate: shape.ExportDate,
		OwnerEmail: shape.OwnerEmail,
	}
	if err := json.Unmarshal(items, &payload.Items); err != nil {
		return nil, ErrInvalidPayload
	}
	return payload, nil
}
