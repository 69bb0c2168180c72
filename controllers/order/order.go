package orderControllers

import (
	"net/http"

	"github.com/Pranay9392/ecommerce-mernstack-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	OrderItems []ItemInput      `json:"orderItems"`
	TotalPrice *decimal.Decimal `json:"totalPrice"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Handlers --------

// POST /orders: no payment handshake, lands in Pending.
func PlaceOrderHandler(l *Ledger) gin.HandlerFunc {
	return createHandler(l, false)
}

// POST /orders/pay: opens a payment session, lands in Processing.
func PayOrderHandler(l *Ledger) gin.HandlerFunc {
	return createHandler(l, true)
}

func createHandler(l *Ledger, withPayment bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		result, err := l.CreateOrder(c.Request.Context(), CreateOrderInput{
			UserID:      middleware.MustClaims(c).UserID,
			Items:       req.OrderItems,
			TotalPrice:  req.TotalPrice,
			WithPayment: withPayment,
		})
		if err != nil {
			RespondError(c, l.Logger(), err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /orders/my-orders
func MyOrdersHandler(l *Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := l.ListOrdersForUser(c.Request.Context(), middleware.MustClaims(c).UserID)
		if err != nil {
			RespondError(c, l.Logger(), err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:id
func GetOrderHandler(l *Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := l.GetOrder(c.Request.Context(), c.Param("id"), middleware.MustClaims(c).UserID)
		if err != nil {
			RespondError(c, l.Logger(), err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:id/cancel
func CancelOrderHandler(l *Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := l.CancelOrder(c.Request.Context(), c.Param("id"), middleware.MustClaims(c).UserID)
		if err != nil {
			RespondError(c, l.Logger(), err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /delivery/orders/:id/status
func UpdateOrderStatusHandler(l *Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		order, err := l.SetDeliveryStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			RespondError(c, l.Logger(), err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /delivery/orders and GET /admin/orders; admins also see who
// placed each order.
func ListOrdersHandler(l *Ledger, includeUserDetail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := l.ListAllOrders(c.Request.Context(), includeUserDetail)
		if err != nil {
			RespondError(c, l.Logger(), err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
