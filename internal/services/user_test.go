package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{
	"id", "name", "email", "password_hash", "key_salt", "key_check", "two_factor_enabled", "two_factor_secret", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &database.DB{Pool: mock}, mock
}

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewUserService(db), mock
}

func userRows(id uuid.UUID, email, hash string, enabled bool, secret *string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userRowColumns).
		AddRow(id, "Alice", email, hash, "c2FsdHNhbHRzYWx0c2FsdA==", "key-check", enabled, secret, now, now)
}

func newAlice() NewUser {
	return NewUser{Name: "Alice", Email: "alice@x.com", PasswordHash: "hash", KeySalt: "salt", KeyCheck: "check"}
}

func TestUserService_Create(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice", "alice@x.com", "hash", "salt", "check").
		WillReturnRows(userRows(userID, "alice@x.com", "hash", false, nil))

	user, err := svc.Create(ctx, newAlice())

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.False(t, user.TwoFactorEnabled)
	assert.Nil(t, user.TwoFactorSecret)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice", "alice@x.com", "hash", "salt", "check").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Create(ctx, newAlice())

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create_DatabaseError(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice", "alice@x.com", "hash", "salt", "check").
		WillReturnError(errors.New("connection refused"))

	_, err := svc.Create(ctx, newAlice())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	assert.Contains(t, err.Error(), "failed to create user")
}

func TestUserService_GetByID(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	secret := "JBSWY3DPEHPK3PXP"

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(userID).
		WillReturnRows(userRows(userID, "alice@x.com", "hash", true, &secret))

	user, err := svc.GetByID(ctx, userID)

	require.NoError(t, err)
	assert.True(t, user.TwoFactorEnabled)
	assert.True(t, user.HasTwoFactorSecret())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(ctx, userID)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByEmail(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("alice@x.com").
		WillReturnRows(userRows(userID, "alice@x.com", "hash", false, nil))

	user, err := svc.GetByEmail(ctx, "alice@x.com")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SetKeyCheck(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectExec(`UPDATE users SET key_check = \$1, updated_at = NOW\(\)\s+WHERE id = \$2 AND key_check = ''`).
		WithArgs("check", userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, svc.SetKeyCheck(context.Background(), userID, "check"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SetTwoFactorSecret(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectExec(`UPDATE users SET two_factor_secret = \$1`).
		WithArgs("SECRET", userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := svc.SetTwoFactorSecret(ctx, userID, "SECRET")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SetTwoFactorSecret_AlreadyEnabled(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectExec(`UPDATE users SET two_factor_secret = \$1`).
		WithArgs("SECRET", userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := svc.SetTwoFactorSecret(ctx, userID, "SECRET")

	assert.ErrorIs(t, err, ErrTwoFactorAlreadyActive)
}

func TestUserService_EnableTwoFactor_SecretChanged(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectExec(`UPDATE users SET two_factor_enabled = TRUE`).
		WithArgs(userID, "OLD").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := svc.EnableTwoFactor(ctx, userID, "OLD")

	assert.ErrorIs(t, err, ErrTwoFactorNotSetUp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_DisableTwoFactor(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	mock.ExpectExec(`UPDATE users SET two_factor_enabled = FALSE, two_factor_secret = NULL`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := svc.DisableTwoFactor(ctx, userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
