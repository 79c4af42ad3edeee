package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/dimitrije/lockbox-api/internal/fieldcrypt"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plaintext password of every user CreateUser makes.
const FixturePassword = "fixture-password"

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user whose password is FixturePassword
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	hash, err := services.NewPasswordHasher(bcrypt.MinCost).Hash(FixturePassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", f.counter),
		Name:         fmt.Sprintf("Test User %d", f.counter),
		PasswordHash: hash,
		KeySalt:      "c2FsdHNhbHRzYWx0c2FsdA==",
	}

	for _, opt := range opts {
		opt(user)
	}

	key, err := fieldcrypt.DeriveKey(FixturePassword, user.KeySalt)
	if err != nil {
		t.Fatalf("failed to derive field key: %v", err)
	}
	keyCheck, err := fieldcrypt.NewKeyCheck(key)
	if err != nil {
		t.Fatalf("failed to seal key check: %v", err)
	}

	created, err := services.NewUserService(f.db).Create(context.Background(), services.NewUser{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		KeySalt:      user.KeySalt,
		KeyCheck:     keyCheck,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return created
}

// UserOption configures a test user
type UserOption func(*models.User)

func WithEmail(email string) UserOption {
	return func(u *models.User) { u.Email = email }
}

func WithName(name string) UserOption {
	return func(u *models.User) { u.Name = name }
}

// CreateVaultItem stores an item for ownerID with placeholder ciphertext
func (f *Fixtures) CreateVaultItem(t *testing.T, ownerID uuid.UUID, title string) *models.VaultItem {
	t.Helper()

	item, err := services.NewVaultService(f.db).Create(context.Background(), ownerID, services.VaultItemInput{
		Title:    title,
		Username: "user",
		Password: "Y2lwaGVydGV4dA==",
	})
	if err != nil {
		t.Fatalf("failed to create vault item: %v", err)
	}
	return item
}

// TOTPCode returns the six digit code for secret at the given instant.
func TOTPCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}
