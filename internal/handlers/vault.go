package handlers

import (
	"net/http"
	"time"

	"github.com/dimitrije/lockbox-api/internal/middleware"
	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

type VaultHandler struct {
	vaultService VaultServiceInterface
	log          zerolog.Logger
}

func NewVaultHandler(vaultService VaultServiceInterface, log zerolog.Logger) *VaultHandler {
	return &VaultHandler{vaultService: vaultService, log: log}
}

func (h *VaultHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	items, err := h.vaultService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.VaultListResponse{Items: make([]dto.VaultItemResponse, 0, len(items))}
	for i := range items {
		resp.Items = append(resp.Items, toVaultItemResponse(&items[i]))
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *VaultHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.VaultItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	item, err := h.vaultService.Create(c.Request.Context(), userID, toVaultItemInput(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusCreated, toVaultItemResponse(item))
}

// Update replaces every mutable field of an item the caller owns. Items owned
// by someone else are reported as missing.
func (h *VaultHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid vault item id")
		return
	}

	var req dto.VaultItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	item, err := h.vaultService.Update(c.Request.Context(), userID, itemID, toVaultItemInput(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, toVaultItemResponse(item))
}

func (h *VaultHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid vault item id")
		return
	}

	if err := h.vaultService.Delete(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "vault item deleted successfully"})
}

func toVaultItemInput(req dto.VaultItemRequest) services.VaultItemInput {
	return services.VaultItemInput{
		Title:    req.Title,
		Username: req.Username,
		Password: req.Password,
		URL:      req.URL,
		Notes:    req.Notes,
	}
}

func toVaultItemResponse(item *models.VaultItem) dto.VaultItemResponse {
	return dto.VaultItemResponse{
		ID:        item.ID,
		Title:     item.Title,
		Username:  item.Username,
		Password:  item.Password,
		URL:       item.URL,
		Notes:     item.Notes,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
}
