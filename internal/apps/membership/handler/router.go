package handler

import "github.com/gin-gonic/gin"

// RegisterApplicationRoutes registers the public application routes
func RegisterApplicationRoutes(router *gin.RouterGroup, handler *ApplicationHandler, middlewares ...gin.HandlerFunc) {
	applications := router.Group("/applications", middlewares...)
	{
		applications.POST("", handler.SubmitApplication)
		applications.GET("/check", handler.CheckRegistration)
		applications.GET("/districts", handler.ListDistricts)
	}
}

// RegisterAdminApplicationRoutes registers the admin review routes behind auth
func RegisterAdminApplicationRoutes(router *gin.RouterGroup, handler *ApplicationHandler, auth gin.HandlerFunc) {
	applications := router.Group("/admin/applications", auth)
	{
		applications.GET("", handler.ListApplications)
		applications.GET("/stats", handler.GetApplicationStats)
		applications.GET("/:id", handler.GetApplication)
		applications.PATCH("/:id/status", handler.UpdateStatus)
	}
}
