package routes

import (
	"github.com/Pranay9392/ecommerce-mernstack-backend/auth"
	orderControllers "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/order"
	"github.com/Pranay9392/ecommerce-mernstack-backend/middleware"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is every service handle the routes need, built once in main.
type Deps struct {
	Store  store.Store
	Issuer *auth.TokenIssuer
	Guard  *middleware.Guard
	Ledger *orderControllers.Ledger
	Hub    *orderControllers.Hub
	Log    *zap.Logger
}

// SetupRoutes is the single entry-point that wires every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public auth routes
	SetupAuthRoutes(r, d)

	// Signed-in user's profile
	SetupUserRoutes(r, d)

	// Catalog: reads are public, writes are admin-only
	SetupProductRoutes(r, d)

	// Customer orders
	SetupOrderRoutes(r, d)

	// Admin dashboard and reporting
	SetupAdminRoutes(r, d)

	// Delivery fulfilment
	SetupDeliveryRoutes(r, d)
}
