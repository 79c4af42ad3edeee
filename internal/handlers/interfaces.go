package handlers

import (
	"context"

	"github.com/dimitrije/lockbox-api/internal/exportfile"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/google/uuid"
)

// AuthServiceInterface defines the methods used by handlers from AuthService
type AuthServiceInterface interface {
	Signup(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password, code string) (*services.AuthResult, error)
}

// SessionServiceInterface defines the methods used by handlers from SessionService
type SessionServiceInterface interface {
	Revoke(ctx context.Context, claims *services.Claims) error
}

// TwoFactorServiceInterface defines the methods used by handlers from TwoFactorService
type TwoFactorServiceInterface interface {
	Setup(ctx context.Context, user *models.User) (*services.TwoFactorSetup, error)
	Verify(ctx context.Context, user *models.User, code string) error
	Disable(ctx context.Context, user *models.User) error
}

// VaultServiceInterface defines the methods used by handlers from VaultService
type VaultServiceInterface interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultItem, error)
	Create(ctx context.Context, ownerID uuid.UUID, in services.VaultItemInput) (*models.VaultItem, error)
	Update(ctx context.Context, ownerID, itemID uuid.UUID, in services.VaultItemInput) (*models.VaultItem, error)
	Delete(ctx context.Context, ownerID, itemID uuid.UUID) error
}

// TransferServiceInterface defines the methods used by handlers from TransferService
type TransferServiceInterface interface {
	Export(ctx context.Context, owner *models.User, passphrase string) (*services.ExportResult, error)
	Import(ctx context.Context, ownerID uuid.UUID, env exportfile.Envelope, passphrase string, replace bool) (*services.ImportResult, error)
}
