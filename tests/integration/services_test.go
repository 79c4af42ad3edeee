package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/dimitrije/lockbox-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Integration_EmailUnique(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	fixtures.CreateUser(t, testutil.WithEmail("dup@example.com"))

	_, err := services.NewUserService(tdb.DB).Create(context.Background(), services.NewUser{
		Name: "Again", Email: "dup@example.com", PasswordHash: "hash", KeySalt: "salt",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestTwoFactor_Integration_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	ctx := context.Background()
	users := services.NewUserService(tdb.DB)
	twoFactor := services.NewTwoFactorService(users, "Lockbox")

	user := testutil.NewFixtures(tdb.DB).CreateUser(t)

	setup, err := twoFactor.Setup(ctx, user)
	require.NoError(t, err)

	provisioning, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, provisioning.TwoFactorEnabled)
	require.True(t, provisioning.HasTwoFactorSecret())

	assert.ErrorIs(t, twoFactor.Verify(ctx, provisioning, "000000"), services.ErrInvalidTwoFactorCode)

	code, err := testutil.TOTPCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, twoFactor.Verify(ctx, provisioning, code))

	enabled, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, enabled.TwoFactorEnabled)

	_, err = twoFactor.Setup(ctx, enabled)
	assert.ErrorIs(t, err, services.ErrTwoFactorAlreadyActive)

	require.NoError(t, twoFactor.Disable(ctx, enabled))

	disabled, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, disabled.TwoFactorEnabled)
	assert.False(t, disabled.HasTwoFactorSecret())
}

func TestVaultService_Integration_NewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	user := fixtures.CreateUser(t)

	fixtures.CreateVaultItem(t, user.ID, "first")
	fixtures.CreateVaultItem(t, user.ID, "second")

	items, err := services.NewVaultService(tdb.DB).List(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Title)
	assert.Equal(t, "first", items[1].Title)

	other := fixtures.CreateUser(t, testutil.WithEmail("other@example.com"))
	err = services.NewVaultService(tdb.DB).Delete(context.Background(), other.ID, items[0].ID)
	assert.ErrorIs(t, err, services.ErrVaultItemNotFound)
	assert.Equal(t, 2, tdb.CountVaultItems(t, user.ID))
}
