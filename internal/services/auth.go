package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/lockbox-api/internal/cryptox"
	"github.com/dimitrije/lockbox-api/internal/fieldcrypt"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/rs/zerolog"
)

const (
	loginAttemptWindow   = 15 * time.Minute
	loginAttemptCapacity = 10000
)

type AuthResult struct {
	User  *models.User
	Token *SessionToken
}

type AuthService struct {
	users     *UserService
	hasher    *PasswordHasher
	jwt       *JWTService
	twoFactor *TwoFactorService
	limiter   *loginLimiter
	log       zerolog.Logger
}

func NewAuthService(
	users *UserService,
	hasher *PasswordHasher,
	jwt *JWTService,
	twoFactor *TwoFactorService,
	maxAttempts int,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		jwt:       jwt,
		twoFactor: twoFactor,
		limiter:   newLoginLimiter(loginAttemptCapacity, maxAttempts, loginAttemptWindow),
		log:       log,
	}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if err := CheckPolicy(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	salt, err := cryptox.RandomBytes(cryptox.SaltSize)
	if err != nil {
		return nil, err
	}
	keySalt := base64.StdEncoding.EncodeToString(salt)

	key, err := fieldcrypt.DeriveKey(password, keySalt)
	if err != nil {
		return nil, err
	}
	keyCheck, err := fieldcrypt.NewKeyCheck(key)
	if err != nil {
		return nil, fmt.Errorf("failed to seal key check: %w", err)
	}

	user, err := s.users.Create(ctx, NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		KeySalt:      keySalt,
		KeyCheck:     keyCheck,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks the password and, when enabled, the TOTP code. A missing code
// returns ErrTwoFactorRequired; a wrong one is indistinguishable from a wrong
// password.
func (s *AuthService) Login(ctx context.Context, email, password, code string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	if err := s.limiter.Allow(email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		s.hasher.Burn(password)
		return nil, s.recordFailure(email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, s.recordFailure(email)
	}

	if user.TwoFactorEnabled {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, ErrTwoFactorRequired
		}
		if !user.HasTwoFactorSecret() || !s.twoFactor.Validate(*user.TwoFactorSecret, code) {
			return nil, s.recordFailure(email)
		}
	}

	s.limiter.Reset(email)
	s.backfillKeyCheck(ctx, user, password)

	token, err := s.jwt.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &AuthResult{User: user, Token: token}, nil
}

// backfillKeyCheck gives accounts created before key checks existed one,
// using the password that was just verified. A failure is logged and the
// login goes ahead.
func (s *AuthService) backfillKeyCheck(ctx context.Context, user *models.User, password string) {
	if user.KeyCheck != "" || user.KeySalt == "" {
		return
	}
	if err := s.storeKeyCheck(ctx, user, password); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to backfill key check")
	}
}

func (s *AuthService) storeKeyCheck(ctx context.Context, user *models.User, password string) error {
	key, err := fieldcrypt.DeriveKey(password, user.KeySalt)
	if err != nil {
		return err
	}
	keyCheck, err := fieldcrypt.NewKeyCheck(key)
	if err != nil {
		return err
	}
	if err := s.users.SetKeyCheck(ctx, user.ID, keyCheck); err != nil {
		return err
	}
	user.KeyCheck = keyCheck
	return nil
}

// recordFailure counts a failed attempt and returns the error to report.
// A limiter that cannot track the attempt refuses the login.
func (s *AuthService) recordFailure(email string) error {
	err := s.limiter.Fail(email)
	if errors.Is(err, ErrTooManyLoginAttempts) {
		s.log.Warn().Msg("login limiter full, refusing attempt")
		return err
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to record login attempt")
	}
	return ErrInvalidCredentials
}
