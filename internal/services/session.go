package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/dimitrije/lockbox-api/internal/models"
)

const revokedTokenCacheSize = 10000

// SessionService resolves a session token to its user. Tokens revoked by
// logout are recorded in revoked_sessions until they would have expired; a
// local cache of recently revoked ids only short-circuits the lookup.
type SessionService struct {
	db      *database.DB
	jwt     *JWTService
	revoked gcache.Cache
}

func NewSessionService(db *database.DB, jwt *JWTService) *SessionService {
	return &SessionService{
		db:      db,
		jwt:     jwt,
		revoked: gcache.New(revokedTokenCacheSize).LRU().Build(),
	}
}

// Authenticate verifies signature and expiry, then loads the user only if
// the token id has not been revoked. Every token problem, including a
// deleted user, collapses to ErrUnauthenticated; only store failures come
// back as-is.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.User, *Claims, error) {
	if token == "" {
		return nil, nil, ErrUnauthenticated
	}

	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	if s.revoked.Has(claims.ID) {
		return nil, nil, ErrUnauthenticated
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM revoked_sessions WHERE jti = $2)
	`, claims.UserID, claims.ID))
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, err
	}

	return user, claims, nil
}

// Revoke records the token id until the token would have expired anyway and
// drops revocations that have run out.
func (s *SessionService) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin revocation: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO revoked_sessions (jti, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING
	`, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM revoked_sessions WHERE expires_at < NOW()`); err != nil {
		return fmt.Errorf("failed to prune revoked sessions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit revocation: %w", err)
	}

	_ = s.revoked.SetWithExpire(claims.ID, struct{}{}, ttl)
	return nil
}
