package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/orchestrator"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/verification"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/pix"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, verification.ErrInvalidUser),
		errors.Is(err, pix.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrNotOpen),
		errors.Is(err, charge.ErrChargeNotFound):
		return http.StatusNotFound
	case errors.Is(err, verification.ErrAlreadyVerified),
		errors.Is(err, orchestrator.ErrAlreadyOpen),
		errors.Is(err, orchestrator.ErrInvalidStep),
		errors.Is(err, orchestrator.ErrClosing),
		errors.Is(err, orchestrator.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, orchestrator.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
