package handlers

import (
	"net/http"
	"time"

	"github.com/dimitrije/lockbox-api/internal/config"
	"github.com/dimitrije/lockbox-api/internal/middleware"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/dimitrije/lockbox-api/internal/validation"
	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	cfg            *config.Config
	authService    AuthServiceInterface
	sessionService SessionServiceInterface
	log            zerolog.Logger
}

func NewAuthHandler(
	cfg *config.Config,
	authService AuthServiceInterface,
	sessionService SessionServiceInterface,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		cfg:            cfg,
		authService:    authService,
		sessionService: sessionService,
		log:            log,
	}
}

func (h *AuthHandler) Signup(c *drift.Context) {
	var req dto.SignupRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, h.log, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, result.Token.Value, h.cfg.SessionTTL)
	_ = c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "user created successfully",
		User:    toUserResponse(result.User),
	})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, h.log, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, req.TOTPToken)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setSessionCookie(c, result.Token.Value, h.cfg.SessionTTL)
	_ = c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "login successful",
		User:    toUserResponse(result.User),
		Token:   result.Token.Value,
	})
}

// Logout always clears the cookie. A valid session is also revoked so the
// token cannot be replayed through the Bearer fallback; if that fails the
// caller gets a 500 rather than a false confirmation.
func (h *AuthHandler) Logout(c *drift.Context) {
	h.setSessionCookie(c, "", 0)

	if claims := middleware.SessionClaims(c); claims != nil {
		if err := h.sessionService.Revoke(c.Request.Context(), claims); err != nil {
			respondError(c, h.log, err)
			return
		}
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out successfully"})
}

func (h *AuthHandler) Me(c *drift.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MeResponse{User: toUserResponse(user)})
}

// setSessionCookie writes the authToken cookie. A zero ttl expires it.
func (h *AuthHandler) setSessionCookie(c *drift.Context, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	} else {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	c.Response.Header().Add("Set-Cookie", cookie.String())
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		KeySalt:          user.KeySalt,
		KeyCheck:         user.KeyCheck,
		TwoFactorEnabled: user.TwoFactorEnabled,
	}
}
