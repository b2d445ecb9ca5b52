package handler

import (
	"net/http"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogsHandler struct{ svc service.PricingService }

func NewCatalogsHandler(svc service.PricingService) *CatalogsHandler {
	return &CatalogsHandler{svc: svc}
}

// Create POST /v1/catalogs
func (h *CatalogsHandler) Create(c *gin.Context) {
	var req dto.CreateCatalogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCatalog(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/catalogs
func (h *CatalogsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListCatalogs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PUT /v1/catalogs/:id
func (h *CatalogsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCatalogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCatalog(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/catalogs/:id — prices and locality links go with it.
func (h *CatalogsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCatalog(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// LinkLocality POST /v1/catalogs/:id/localities
func (h *CatalogsHandler) LinkLocality(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.LinkLocalityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	localityID, err := uuid.Parse(req.LocalityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("locality_id inválido"))
		return
	}
	if err := h.svc.LinkLocality(c.Request.Context(), id, localityID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// UnlinkLocality DELETE /v1/catalogs/:id/localities/:locality_id
func (h *CatalogsHandler) UnlinkLocality(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	localityID, err := uuid.Parse(c.Param("locality_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("locality_id inválido"))
		return
	}
	if err := h.svc.UnlinkLocality(c.Request.Context(), id, localityID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// SetPrice PUT /v1/prices — upserts the (option, catalog) price.
func (h *CatalogsHandler) SetPrice(c *gin.Context) {
	var req dto.SetPriceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetPrice(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOptionPrices GET /v1/variant-options/:id/prices
func (h *CatalogsHandler) ListOptionPrices(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListOptionPrices(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResolvePrice GET /v1/prices/resolve?option_id=&locality_id= — storefront
// price lookup; 404 with kind price_not_found when the option is not
// purchasable in that locality.
func (h *CatalogsHandler) ResolvePrice(c *gin.Context) {
	optionID, err := uuid.Parse(c.Query("option_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("option_id inválido"))
		return
	}
	localityID, err := uuid.Parse(c.Query("locality_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("locality_id inválido"))
		return
	}

	price, err := h.svc.ResolvePrice(c.Request.Context(), optionID, localityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ResolvedPriceResponse{
		ProductVariantOptionID: optionID,
		LocalityID:             localityID,
		Price:                  price,
	})
}
