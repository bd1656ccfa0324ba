package handler

import (
	"net/http"

	"membership-backend/internal/apps/admin/models"
	"membership-backend/internal/apps/admin/service"
	"membership-backend/internal/common/apperrors"
	"membership-backend/internal/common/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles HTTP requests for admin sessions
type AdminHandler struct {
	service service.AdminService
}

// NewAdminHandler creates a new instance of AdminHandler
func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Login handles POST /api/v1/admin/auth/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("admin login failed")
		}
		c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Logout handles POST /api/v1/admin/auth/logout. Tokens are stateless; the
// client discards its copy.
func (h *AdminHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/v1/admin/auth/me
func (h *AdminHandler) Me(c *gin.Context) {
	id, err := uuid.Parse(c.GetString(middleware.AdminIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthorized.Error()})
		return
	}

	resp, err := h.service.GetAdminByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
