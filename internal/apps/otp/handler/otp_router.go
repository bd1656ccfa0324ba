package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterOTPRoutes registers all OTP routes
func RegisterOTPRoutes(router *gin.RouterGroup, phoneOTPHandler *PhoneOTPHandler, middlewares ...gin.HandlerFunc) {
	otp := router.Group("/otp", middlewares...)
	{
		phone := otp.Group("/phone")
		{
			phone.POST("", phoneOTPHandler.IssueOTP)
			phone.POST("/verify", phoneOTPHandler.VerifyOTP)
		}
	}
}
