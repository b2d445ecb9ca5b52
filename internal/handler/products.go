package handler

import (
	"net/http"
	"strconv"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct {
	svc     service.ProductService
	catalog service.CatalogService
}

func NewProductsHandler(svc service.ProductService, catalog service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc, catalog: catalog}
}

// List GET /v1/products?name=&category_id=&active=&page=&limit=
func (h *ProductsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := dto.ProductFilter{
		Name:       c.Query("name"),
		CategoryID: c.Query("category_id"),
		Active:     c.Query("active"),
		Page:       page,
		Limit:      limit,
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get GET /v1/products/:id — with ?locality_id= resolves per-option prices.
func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if loc := c.Query("locality_id"); loc != "" {
		localityID, err := uuid.Parse(loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("locality_id inválido"))
			return
		}
		resp, err := h.svc.GetForLocality(c.Request.Context(), id, localityID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create POST /v1/products
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update PUT /v1/products/:id
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/products/:id
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// AddVariant POST /v1/products/:id/variants
func (h *ProductsHandler) AddVariant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateVariantRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddVariant(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteVariant DELETE /v1/variants/:id
func (h *ProductsHandler) DeleteVariant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVariant(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// AddVariantOption POST /v1/variants/:id/options
func (h *ProductsHandler) AddVariantOption(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateVariantOptionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddVariantOption(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteVariantOption DELETE /v1/variant-options/:id
func (h *ProductsHandler) DeleteVariantOption(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVariantOption(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// AdjustStock PATCH /v1/variant-options/:id/stock
func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AdjustStock(c.Request.Context(), id, req.Delta); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AssignSubcategories POST /v1/products/:id/subcategories
func (h *ProductsHandler) AssignSubcategories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignSubcategoriesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.catalog.AssignSubcategories(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSubcategories GET /v1/products/:id/subcategories
func (h *ProductsHandler) ListSubcategories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.catalog.ListSubcategories(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
