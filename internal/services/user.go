package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, name, email, password_hash, key_salt, key_check, two_factor_enabled, two_factor_secret, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.KeySalt, &user.KeyCheck,
		&user.TwoFactorEnabled, &user.TwoFactorSecret, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// NewUser is everything signup stores for an account.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	KeySalt      string
	KeyCheck     string
}

func (s *UserService) Create(ctx context.Context, in NewUser) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, key_salt, key_check)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		in.Name, in.Email, in.PasswordHash, in.KeySalt, in.KeyCheck,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
}

// SetTwoFactorSecret provisions a secret without enabling it.
func (s *UserService) SetTwoFactorSecret(ctx context.Context, id uuid.UUID, secret string) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET two_factor_secret = $1, updated_at = NOW()
		WHERE id = $2 AND two_factor_enabled = FALSE
	`, secret, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTwoFactorAlreadyActive
	}
	return nil
}

// SetKeyCheck stores a key check for an account that has none yet.
func (s *UserService) SetKeyCheck(ctx context.Context, id uuid.UUID, keyCheck string) error {
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET key_check = $1, updated_at = NOW()
		WHERE id = $2 AND key_check = ''
	`, keyCheck, id)
	return err
}

// EnableTwoFactor flips the flag only if the confirmed secret is still the
// one on record.
func (s *UserService) EnableTwoFactor(ctx context.Context, id uuid.UUID, secret string) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET two_factor_enabled = TRUE, updated_at = NOW()
		WHERE id = $1 AND two_factor_secret = $2
	`, id, secret)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTwoFactorNotSetUp
	}
	return nil
}

func (s *UserService) DisableTwoFactor(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET two_factor_enabled = FALSE, two_factor_secret = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
