package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the auth endpoints on router.
func RegisterRoutes(router *gin.RouterGroup, store *Store, authMW gin.HandlerFunc) {
	controller := NewController(store)

	public := router.Group("/auth")
	{
		public.POST("/register", controller.Register)
		public.POST("/login", controller.Login)
	}

	protected := router.Group("/auth")
	protected.Use(authMW)
	{
		protected.GET("/profile", controller.GetProfile)
		protected.POST("/logout", controller.Logout)
	}
}
