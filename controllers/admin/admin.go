package adminController

import (
	"net/http"

	orderControllers "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/order"
	"github.com/gin-gonic/gin"
)

// GET /admin/dashboard
func DashboardHandler(l *orderControllers.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := l.DashboardSummary(c.Request.Context())
		if err != nil {
			orderControllers.RespondError(c, l.Logger(), err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
