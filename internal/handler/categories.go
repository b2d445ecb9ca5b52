package handler

import (
	"net/http"

	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct{ svc service.CatalogService }

func NewCategoriesHandler(svc service.CatalogService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// Create POST /v1/categories
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Tree GET /v1/categories — the full tree, roots ordered, children nested.
func (h *CategoriesHandler) Tree(c *gin.Context) {
	resp, err := h.svc.ListTree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Subtree GET /v1/categories/:id/tree
func (h *CategoriesHandler) Subtree(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ResolveSubtree(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get GET /v1/categories/:id
func (h *CategoriesHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PUT /v1/categories/:id
func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/categories/:id
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// CreateOption POST /v1/categories/:id/options
func (h *CategoriesHandler) CreateOption(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCategoryOptionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateOption(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteOption DELETE /v1/category-options/:id
func (h *CategoriesHandler) DeleteOption(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteOption(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
