package testutil

import (
	"context"

	"github.com/dimitrije/lockbox-api/internal/exportfile"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password, code string) (*services.AuthResult, error) {
	args := m.Called(ctx, email, password, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

// MockSessionService mocks the SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Authenticate(ctx context.Context, token string) (*models.User, *services.Claims, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	claims, _ := args.Get(1).(*services.Claims)
	return user, claims, args.Error(2)
}

func (m *MockSessionService) Revoke(ctx context.Context, claims *services.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

// MockTwoFactorService mocks the TwoFactorService
type MockTwoFactorService struct {
	mock.Mock
}

func (m *MockTwoFactorService) Setup(ctx context.Context, user *models.User) (*services.TwoFactorSetup, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TwoFactorSetup), args.Error(1)
}

func (m *MockTwoFactorService) Verify(ctx context.Context, user *models.User, code string) error {
	args := m.Called(ctx, user, code)
	return args.Error(0)
}

func (m *MockTwoFactorService) Disable(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockVaultService mocks the VaultService
type MockVaultService struct {
	mock.Mock
}

func (m *MockVaultService) List(ctx context.Context, ownerID uuid.UUID) ([]models.VaultItem, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VaultItem), args.Error(1)
}

func (m *MockVaultService) Create(ctx context.Context, ownerID uuid.UUID, in services.VaultItemInput) (*models.VaultItem, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VaultItem), args.Error(1)
}

func (m *MockVaultService) Update(ctx context.Context, ownerID, itemID uuid.UUID, in services.VaultItemInput) (*models.VaultItem, error) {
	args := m.Called(ctx, ownerID, itemID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VaultItem), args.Error(1)
}

func (m *MockVaultService) Delete(ctx context.Context, ownerID, itemID uuid.UUID) error {
	args := m.Called(ctx, ownerID, itemID)
	return args.Error(0)
}

// MockTransferService mocks the TransferService
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Export(ctx context.Context, owner *models.User, passphrase string) (*services.ExportResult, error) {
	args := m.Called(ctx, owner, passphrase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportResult), args.Error(1)
}

func (m *MockTransferService) Import(ctx context.Context, ownerID uuid.UUID, env exportfile.Envelope, passphrase string, replace bool) (*services.ImportResult, error) {
	args := m.Called(ctx, ownerID, env, passphrase, replace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImportResult), args.Error(1)
}
