package handler

import (
	"net/http"
	"strconv"

	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct{ svc service.WalletService }

func NewWalletHandler(svc service.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// RecordMovement POST /v1/users/:id/wallet/movements
func (h *WalletHandler) RecordMovement(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RecordMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordMovement(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Balance GET /v1/users/:id/wallet/balance
func (h *WalletHandler) Balance(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.AvailableBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExpiringCredits GET /v1/users/:id/wallet/expiring?within_days=30
func (h *WalletHandler) ExpiringCredits(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	withinDays, err := strconv.Atoi(c.DefaultQuery("within_days", "30"))
	if err != nil {
		withinDays = 30
	}
	resp, err := h.svc.ExpiringCredits(c.Request.Context(), userID, withinDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMovements GET /v1/users/:id/wallet/movements
func (h *WalletHandler) ListMovements(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetBlocked PATCH /v1/users/:id/wallet/blocked
func (h *WalletHandler) SetBlocked(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Blocked bool `json:"blocked"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetBlocked(c.Request.Context(), userID, req.Blocked); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
