package routes

import (
	"github.com/gin-gonic/gin"

	"civiclens-be/controllers"
	"civiclens-be/middlewares"
)

// AuthRoutes sets up the authentication routes.
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController, jwtSecret string) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ac.Register)
		auth.POST("/login", ac.Login)
		auth.POST("/logout", ac.Logout)
		auth.GET("/me", middlewares.AuthMiddleware(jwtSecret), ac.Me)
	}
}
