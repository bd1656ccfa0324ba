package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"membership-backend/internal/apps/membership/models"
	"membership-backend/internal/apps/membership/service"
	"membership-backend/internal/common/apperrors"
	"membership-backend/internal/common/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ApplicationHandler handles HTTP endpoints for membership applications
type ApplicationHandler struct {
	service service.ApplicationService
}

// NewApplicationHandler creates a new instance of ApplicationHandler
func NewApplicationHandler(service service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// SubmitApplication handles POST /api/v1/applications
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req models.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.SubmitApplication(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// CheckRegistration handles GET /api/v1/applications/check
func (h *ApplicationHandler) CheckRegistration(c *gin.Context) {
	phoneNumber := c.Query("phone_number")
	if phoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone_number is required"})
		return
	}

	registered, err := h.service.IsRegistered(c.Request.Context(), phoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models.CheckRegistrationResponse{Registered: registered}})
}

// ListDistricts handles GET /api/v1/applications/districts
func (h *ApplicationHandler) ListDistricts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": models.Constituencies})
}

// ListApplications handles GET /api/v1/admin/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := models.ApplicationFilter{
		District: c.Query("district"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if status := c.Query("status"); status != "" && status != "all" {
		filter.Status = models.ApplicationStatus(status)
	}

	var err error
	if filter.From, err = parseTimeQuery(c.Query("from"), false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from: use RFC3339 or YYYY-MM-DD"})
		return
	}
	if filter.To, err = parseTimeQuery(c.Query("to"), true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to: use RFC3339 or YYYY-MM-DD"})
		return
	}

	resp, err := h.service.ListApplications(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetApplicationStats handles GET /api/v1/admin/applications/stats
func (h *ApplicationHandler) GetApplicationStats(c *gin.Context) {
	stats, err := h.service.GetApplicationStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GetApplication handles GET /api/v1/admin/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}

	resp, err := h.service.GetApplication(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// UpdateStatus handles PATCH /api/v1/admin/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.SetApplicationStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Info().
		Str("application_id", id.String()).
		Str("status", string(req.Status)).
		Str("admin_id", c.GetString(middleware.AdminIDKey)).
		Msg("application status changed")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// parseTimeQuery accepts RFC3339 or a bare date. A bare end date covers the whole day.
func parseTimeQuery(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("application request failed")
	}

	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(status, gin.H{"error": err.Error(), "fields": vErr.Fields})
		return
	}
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}
