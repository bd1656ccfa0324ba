package handler

import (
	"net/http"

	"membership-backend/internal/apps/otp/models"
	"membership-backend/internal/apps/otp/service"
	"membership-backend/internal/common/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PhoneOTPHandler handles HTTP endpoints for Phone OTP
type PhoneOTPHandler struct {
	service service.PhoneOTPService
}

// NewPhoneOTPHandler creates a new instance of PhoneOTPHandler
func NewPhoneOTPHandler(service service.PhoneOTPService) *PhoneOTPHandler {
	return &PhoneOTPHandler{service: service}
}

// IssueOTP handles POST /api/v1/otp/phone
func (h *PhoneOTPHandler) IssueOTP(c *gin.Context) {
	var req models.CreatePhoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	otp, err := h.service.IssueOTP(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": otp})
}

// VerifyOTP handles POST /api/v1/otp/phone/verify
func (h *PhoneOTPHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyPhoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTPCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("otp request failed")
	}
	c.JSON(status, gin.H{"error": apperrors.PublicMessage(err)})
}
