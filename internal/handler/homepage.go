package handler

import (
	"net/http"
	"strconv"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type HomepageHandler struct{ svc service.HomepageService }

func NewHomepageHandler(svc service.HomepageService) *HomepageHandler {
	return &HomepageHandler{svc: svc}
}

// Get GET /v1/homepage
func (h *HomepageHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetSlot PUT /v1/homepage/slots
func (h *HomepageHandler) SetSlot(c *gin.Context) {
	var req dto.SetHomepageSlotRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetSlot(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClearSlot DELETE /v1/homepage/slots/:section/:position
func (h *HomepageHandler) ClearSlot(c *gin.Context) {
	section := c.Param("section")
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 0 {
		c.JSON(http.StatusBadRequest, apierror.New("posición inválida"))
		return
	}
	if err := h.svc.ClearSlot(c.Request.Context(), section, position); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
