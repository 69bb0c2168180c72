package routes

import (
	adminController "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/admin"
	orderControllers "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/order"
	"github.com/Pranay9392/ecommerce-mernstack-backend/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all /admin/* endpoints.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	admin := r.Group("/admin")
	admin.Use(middleware.TokenFromQuery(), d.Guard.Authenticate(), d.Guard.RequireRole(middleware.RoleAdmin))
	{
		admin.GET("/dashboard", adminController.DashboardHandler(d.Ledger))
		admin.GET("/orders", orderControllers.ListOrdersHandler(d.Ledger, true))
		admin.GET("/orders/export", adminController.ExportOrdersToExcel(d.Ledger))
		admin.GET("/orders/ws", d.Hub.ServeWS)
	}
}
