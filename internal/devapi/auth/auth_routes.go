package auth

import (
	"go-hrm/internal/devapi/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/signin", middleware.RateLimitByIP(1, 10), handler.SignIn)
		auth.GET("/me", middleware.Auth(jwtSecret), middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
