package userControllers

import (
	"errors"
	"net/http"

	"github.com/Pranay9392/ecommerce-mernstack-backend/middleware"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /users/me
func GetUser(users store.Users, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.MustClaims(c)
		user, err := users.FindUserByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			log.Error("find user", zap.String("user_id", claims.UserID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
