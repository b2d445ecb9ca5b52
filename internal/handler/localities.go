package handler

import (
	"net/http"

	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type LocalitiesHandler struct{ svc service.LocalityService }

func NewLocalitiesHandler(svc service.LocalityService) *LocalitiesHandler {
	return &LocalitiesHandler{svc: svc}
}

// CreateProvince POST /v1/provinces
func (h *LocalitiesHandler) CreateProvince(c *gin.Context) {
	var req dto.CreateProvinceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProvince(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListProvinces GET /v1/provinces
func (h *LocalitiesHandler) ListProvinces(c *gin.Context) {
	resp, err := h.svc.ListProvinces(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteProvince DELETE /v1/provinces/:id — 409 while localities reference it.
func (h *LocalitiesHandler) DeleteProvince(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProvince(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// CreateLocality POST /v1/localities
func (h *LocalitiesHandler) CreateLocality(c *gin.Context) {
	var req dto.CreateLocalityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLocality(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListLocalities GET /v1/localities
func (h *LocalitiesHandler) ListLocalities(c *gin.Context) {
	resp, err := h.svc.ListLocalities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteLocality DELETE /v1/localities/:id
func (h *LocalitiesHandler) DeleteLocality(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteLocality(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// CreateAddress POST /v1/addresses
func (h *LocalitiesHandler) CreateAddress(c *gin.Context) {
	var req dto.CreateAddressRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAddress(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListAddresses GET /v1/users/:id/addresses
func (h *LocalitiesHandler) ListAddresses(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
