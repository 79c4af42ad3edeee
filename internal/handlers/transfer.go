package handlers

import (
	"fmt"
	"net/http"

	"github.com/dimitrije/lockbox-api/internal/exportfile"
	"github.com/dimitrije/lockbox-api/internal/middleware"
	"github.com/dimitrije/lockbox-api/internal/validation"
	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

type TransferHandler struct {
	transferService TransferServiceInterface
	log             zerolog.Logger
}

func NewTransferHandler(transferService TransferServiceInterface, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{transferService: transferService, log: log}
}

func (h *TransferHandler) Export(c *drift.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.ExportRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, h.log, err)
		return
	}

	result, err := h.transferService.Export(c.Request.Context(), user, req.ExportPassword)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.ExportResponse{
		ExportData: dto.ExportEnvelope{
			Type:     result.Envelope.Type,
			Version:  result.Envelope.Version,
			Data:     result.Envelope.Data,
			Checksum: result.Envelope.Checksum,
		},
		ItemCount: result.ItemCount,
	})
}

func (h *TransferHandler) Import(c *drift.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.ImportRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, h.log, err)
		return
	}

	env := exportfile.Envelope{
		Type:     req.ImportData.Type,
		Version:  req.ImportData.Version,
		Data:     req.ImportData.Data,
		Checksum: req.ImportData.Checksum,
	}

	result, err := h.transferService.Import(c.Request.Context(), user.ID, env, req.ImportPassword, req.ReplaceExisting)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.ImportResponse{
		Message:  fmt.Sprintf("imported %d of %d items", result.Imported, result.Total),
		Imported: result.Imported,
		Total:    result.Total,
		Results:  make([]dto.ImportItemResult, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		resp.Results = append(resp.Results, dto.ImportItemResult{
			Index:    r.Index,
			Title:    r.Title,
			Imported: r.Imported,
			Reason:   r.Reason,
		})
	}
	_ = c.JSON(http.StatusOK, resp)
}
