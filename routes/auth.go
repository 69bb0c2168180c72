package routes

import (
	"github.com/Pranay9392/ecommerce-mernstack-backend/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers /register and /login.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	h := auth.NewHandlers(d.Store, d.Issuer, d.Log)
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
}
