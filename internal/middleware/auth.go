package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

const (
	SessionCookieName = "authToken"

	UserKey   = "user"
	ClaimsKey = "claims"
)

// SessionAuthenticator resolves a raw session token to its user.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *services.Claims, error)
}

// Auth reads the session from the authToken cookie and falls back to a
// Bearer header for non-browser clients.
func Auth(sessions SessionAuthenticator, log zerolog.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		token := SessionToken(c.Request)
		if token == "" {
			c.Unauthorized("not authenticated")
			return
		}

		user, claims, err := sessions.Authenticate(c.Request.Context(), token)
		if errors.Is(err, services.ErrUnauthenticated) {
			c.Unauthorized("not authenticated")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to authenticate session")
			c.InternalServerError("internal server error")
			return
		}

		c.Set(UserKey, user)
		c.Set(ClaimsKey, claims)

		c.Next()
	}
}

// OptionalAuth attaches the session when one is valid and otherwise lets the
// request through untouched.
func OptionalAuth(sessions SessionAuthenticator) drift.HandlerFunc {
	return func(c *drift.Context) {
		if token := SessionToken(c.Request); token != "" {
			if user, claims, err := sessions.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(UserKey, user)
				c.Set(ClaimsKey, claims)
			}
		}
		c.Next()
	}
}

// SessionToken returns the cookie token if present, otherwise the Bearer token.
func SessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func CurrentUser(c *drift.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func SessionClaims(c *drift.Context) *services.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*services.Claims); ok {
			return claims
		}
	}
	return nil
}

func GetUserID(c *drift.Context) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}
