package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/lockbox-api/internal/exportfile"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/dimitrije/lockbox-api/internal/validation"
	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto HTTP responses. Anything it does not
// recognise is logged and reported as a generic 500.
func respondError(c *drift.Context, log zerolog.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		fields := make([]dto.FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, dto.FieldError{Field: f.Field, Message: f.Message})
		}
		_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: verr.Error(), Fields: fields})

	case errors.Is(err, services.ErrTwoFactorRequired):
		_ = c.JSON(http.StatusUnauthorized, dto.TwoFactorRequiredResponse{
			Error:       "2FA token required",
			Requires2FA: true,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		c.Unauthorized("not authenticated")
	case errors.Is(err, services.ErrTooManyLoginAttempts):
		_ = c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "too many login attempts, try again later"})
	case errors.Is(err, services.ErrEmailTaken):
		_ = c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "user already exists"})

	case errors.Is(err, services.ErrTwoFactorAlreadyActive):
		_ = c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrTwoFactorNotSetUp),
		errors.Is(err, services.ErrInvalidTwoFactorCode):
		c.BadRequest(err.Error())

	case errors.Is(err, services.ErrVaultItemNotFound):
		c.NotFound("vault item not found")

	case errors.Is(err, exportfile.ErrInvalidFormat),
		errors.Is(err, exportfile.ErrIntegrity),
		errors.Is(err, exportfile.ErrDecrypt),
		errors.Is(err, exportfile.ErrInvalidPayload):
		c.BadRequest(err.Error())

	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.InternalServerError("internal server error")
	}
}
