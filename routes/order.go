package routes

import (
	orderControllers "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/order"
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers the customer order endpoints. Every route
// needs a valid token; ownership is checked per order.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(d.Guard.Authenticate())
	{
		orders.POST("", orderControllers.PlaceOrderHandler(d.Ledger))
		orders.POST("/pay", orderControllers.PayOrderHandler(d.Ledger))
		orders.GET("/my-orders", orderControllers.MyOrdersHandler(d.Ledger))
		orders.GET("/:id", orderControllers.GetOrderHandler(d.Ledger))
		orders.PUT("/:id/cancel", orderControllers.CancelOrderHandler(d.Ledger))
	}
}
