package routes

import (
	orderControllers "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/order"
	"github.com/Pranay9392/ecommerce-mernstack-backend/middleware"
	"github.com/gin-gonic/gin"
)

// SetupDeliveryRoutes registers all /delivery/* endpoints.
func SetupDeliveryRoutes(r *gin.Engine, d Deps) {
	delivery := r.Group("/delivery")
	delivery.Use(d.Guard.Authenticate(), d.Guard.RequireRole(middleware.RoleDeliveryAdmin))
	{
		delivery.GET("/orders", orderControllers.ListOrdersHandler(d.Ledger, false))
		delivery.PUT("/orders/:id/status", orderControllers.UpdateOrderStatusHandler(d.Ledger))
	}
}
