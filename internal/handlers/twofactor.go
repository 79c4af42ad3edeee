package handlers

import (
	"net/http"

	"github.com/dimitrije/lockbox-api/internal/middleware"
	"github.com/dimitrije/lockbox-api/internal/validation"
	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

type TwoFactorHandler struct {
	twoFactorService TwoFactorServiceInterface
	log              zerolog.Logger
}

func NewTwoFactorHandler(twoFactorService TwoFactorServiceInterface, log zerolog.Logger) *TwoFactorHandler {
	return &TwoFactorHandler{twoFactorService: twoFactorService, log: log}
}

func (h *TwoFactorHandler) Setup(c *drift.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	setup, err := h.twoFactorService.Setup(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.TwoFactorSetupResponse{
		Secret:         setup.Secret,
		QRCode:         setup.QRCode,
		ManualEntryKey: setup.ManualEntryKey,
		OTPAuthURL:     setup.OTPAuthURL,
	})
}

func (h *TwoFactorHandler) Verify(c *drift.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.TwoFactorVerifyRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.twoFactorService.Verify(c.Request.Context(), user, req.Token); err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "2FA enabled successfully"})
}

func (h *TwoFactorHandler) Disable(c *drift.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.twoFactorService.Disable(c.Request.Context(), user); err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "2FA disabled successfully"})
}
