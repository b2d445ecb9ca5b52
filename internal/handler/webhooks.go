package handler

import (
	"net/http"

	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type WebhooksHandler struct{ orders service.OrderService }

func NewWebhooksHandler(orders service.OrderService) *WebhooksHandler {
	return &WebhooksHandler{orders: orders}
}

// MercadoPago POST /v1/webhooks/mercadopago
//
// Always answers 200 on payloads we cannot act on; the gateway retries
// anything else and a malformed body will never improve.
func (h *WebhooksHandler) MercadoPago(c *gin.Context) {
	var n dto.PaymentNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		log.Warn().Err(err).Msg("webhook: cuerpo ilegible, descartado")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.orders.HandleWebhook(c.Request.Context(), n); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
