package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/pix"
)

// PixHandler exposes the simulated charge backend over the JSON contract
// pix.Client speaks, plus a pay endpoint standing in for the payer.
type PixHandler struct {
	Simulator *pix.Simulator
}

type createPixRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *PixHandler) Create(c *gin.Context) {
	var req createPixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.Simulator.CreatePix(c.Request.Context(), req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *PixHandler) Status(c *gin.Context) {
	res, err := h.Simulator.CheckStatus(c.Request.Context(), c.Param("txid"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PixHandler) Pay(c *gin.Context) {
	if err := h.Simulator.MarkPaid(c.Param("txid")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusAccepted)
}
