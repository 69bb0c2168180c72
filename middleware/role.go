package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Pranay9392/ecommerce-mernstack-backend/models"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Role int

const (
	RoleUser Role = iota
	RoleAdmin
	RoleDeliveryAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleDeliveryAdmin:
		return "delivery-admin"
	default:
		return "user"
	}
}

var (
	ErrForbidden             = errors.New("forbidden")
	ErrAdminRequired         = fmt.Errorf("%w: Access denied. Admin only", ErrForbidden)
	ErrDeliveryAdminRequired = fmt.Errorf("%w: Access denied. Delivery admin only", ErrForbidden)
)

// CheckRole reports whether the flags satisfy role.
func CheckRole(flags models.RoleFlags, role Role) error {
	switch role {
	case RoleAdmin:
		if !flags.IsAdmin {
			return ErrAdminRequired
		}
	case RoleDeliveryAdmin:
		if !flags.IsDeliveryAdmin {
			return ErrDeliveryAdminRequired
		}
	}
	return nil
}

// RequireRole must run after Authenticate.
func (g *Guard) RequireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		flags := claims.RoleFlags
		if g.users != nil {
			user, err := g.users.FindUserByID(c.Request.Context(), claims.UserID)
			if errors.Is(err, store.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
				return
			}
			if err != nil {
				g.log.Error("role lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			flags = user.Roles()
		}

		if err := CheckRole(flags, role); err != nil {
			g.log.Info("role check denied",
				zap.String("user_id", claims.UserID),
				zap.Stringer("required", role),
				zap.String("path", c.FullPath()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": forbiddenMessage(err)})
			return
		}
		c.Next()
	}
}

func forbiddenMessage(err error) string {
	switch {
	case errors.Is(err, ErrAdminRequired):
		return "Access denied. Admin only."
	case errors.Is(err, ErrDeliveryAdminRequired):
		return "Access denied. Delivery admin only."
	default:
		return "Access denied."
	}
}
