package handler

import (
	"net/http"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/middleware"
	"github.com/bausingcode/bausing-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de administrador
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.Error
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Admin users ──────────────────────────────────────────────────────────────

type AdminUsersHandler struct{ svc service.AuthService }

func NewAdminUsersHandler(svc service.AuthService) *AdminUsersHandler {
	return &AdminUsersHandler{svc: svc}
}

// Create POST /v1/admin-users
func (h *AdminUsersHandler) Create(c *gin.Context) {
	var req dto.CreateAdminUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAdminUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/admin-users
func (h *AdminUsersHandler) List(c *gin.Context) {
	resp, err := h.svc.ListAdminUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate DELETE /v1/admin-users/:id — an admin cannot deactivate itself.
func (h *AdminUsersHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims != nil {
		if self, err := uuid.Parse(claims.AdminID); err == nil && self == id {
			c.JSON(http.StatusConflict, apierror.New("No puede desactivar su propio usuario"))
			return
		}
	}
	if err := h.svc.DeactivateAdminUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
