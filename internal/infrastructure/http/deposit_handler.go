package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/verification"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
)

type DepositHandler struct {
	Service *verification.Service
}

type SnapshotResponse struct {
	session.Snapshot
	AmountDisplay string `json:"amount_display,omitempty"`
}

func newSnapshotResponse(snap session.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{Snapshot: snap}
	if snap.Charge != nil {
		resp.AmountDisplay = charge.FormatBRL(snap.Charge.Amount)
	}
	return resp
}

func (h *DepositHandler) Open(c *gin.Context) {
	snap, err := h.Service.Open(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSnapshotResponse(snap))
}

func (h *DepositHandler) Generate(c *gin.Context) {
	userID := c.Param("id")

	if _, err := h.Service.Generate(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSnapshotResponse(h.Service.Snapshot(userID)))
}

func (h *DepositHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, newSnapshotResponse(h.Service.Snapshot(c.Param("id"))))
}

func (h *DepositHandler) Close(c *gin.Context) {
	if err := h.Service.Close(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DepositHandler) Profile(c *gin.Context) {
	p, err := h.Service.Profile(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
