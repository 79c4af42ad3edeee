// Package fieldcrypt encrypts individual vault item fields on the client
// before they are sent to the server. Keys are derived per user from the
// account password and the user's key salt and are never persisted.
package fieldcrypt

import (
	"encoding/base64"
	"errors"

	"github.com/dimitrije/lockbox-api/internal/cryptox"
)

// ErrDecryptFailed is returned for a wrong key or corrupted ciphertext.
var ErrDecryptFailed = errors.New("field decryption failed")

var (
	errInvalidSalt = errors.New("invalid key salt")
	errNoKey       = errors.New("field key not initialised")
)

type Key struct {
	raw []byte
}

// DeriveKey derives the field key for one account. keySalt is the
// base64 value returned by the server with the user record.
func DeriveKey(password, keySalt string) (Key, error) {
	salt, err := base64.StdEncoding.DecodeString(keySalt)
	if err != nil || len(salt) < cryptox.SaltSize {
		return Key{}, errInvalidSalt
	}
	return Key{raw: cryptox.DeriveKey([]byte(password), salt)}, nil
}

func (k Key) valid() bool {
	return len(k.raw) == cryptox.KeySize
}

func EncryptField(plaintext string, key Key) (string, error) {
	if !key.valid() {
		return "", errNoKey
	}
	sealed, err := cryptox.Seal([]byte(plaintext), key.raw)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func DecryptField(ciphertext string, key Key) (string, error) {
	if !key.valid() {
		return "", errNoKey
	}
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptFailed
	}
	plain, err := cryptox.Open(sealed, key.raw)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}

// keyCheckPlaintext is sealed under the field key at signup. A key that
// opens it back to this value belongs to the account.
const keyCheckPlaintext = "lockbox-field-key-check-v1"

var (
	// ErrWrongKey means the key was derived from a password other than the
	// account's current one.
	ErrWrongKey = errors.New("field key does not match this account")
	// ErrNoKeyCheck means the account carries no key check to compare with.
	ErrNoKeyCheck = errors.New("account has no key check")
)

// NewKeyCheck seals the key-check value under key.
func NewKeyCheck(key Key) (string, error) {
	return EncryptField(keyCheckPlaintext, key)
}

// Verify reports whether k is the key keyCheck was sealed with.
func (k Key) Verify(keyCheck string) error {
	if keyCheck == "" {
		return ErrNoKeyCheck
	}
	plain, err := DecryptField(keyCheck, k)
	if err != nil || plain != keyCheckPlaintext {
		return ErrWrongKey
	}
	return nil
}
