package handler

import "github.com/gin-gonic/gin"

// RegisterAdminRoutes registers admin session routes
func RegisterAdminRoutes(router *gin.RouterGroup, handler *AdminHandler, auth gin.HandlerFunc, loginLimit gin.HandlerFunc) {
	admin := router.Group("/admin/auth")
	{
		admin.POST("/login", loginLimit, handler.Login)
		admin.POST("/logout", auth, handler.Logout)
		admin.GET("/me", auth, handler.Me)
	}
}
