package routes

import (
	userControllers "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/user"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers /users/* endpoints. Requires a token.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	users := r.Group("/users")
	users.Use(d.Guard.Authenticate())
	{
		users.GET("/me", userControllers.GetUser(d.Store, d.Log))
	}
}
