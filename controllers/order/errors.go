package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidItem       = errors.New("invalid order item")
	ErrTotalMismatch     = errors.New("total price does not match items")
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("not authorized for this order")
	ErrInvalidState      = errors.New("order status does not allow this change")
	ErrConflict          = errors.New("order was updated concurrently")
	ErrPaymentInitFailed = errors.New("payment initiation failed")
)

// RespondError writes the status code and short message for a ledger
// error. Anything unrecognised is logged and reported as a generic 500.
func RespondError(c *gin.Context, log *zap.Logger, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"
	switch {
	case errors.Is(err, ErrEmptyCart):
		status, msg = http.StatusBadRequest, "No order items"
	case errors.Is(err, ErrInvalidItem):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrTotalMismatch):
		status, msg = http.StatusBadRequest, "Total price does not match order items"
	case errors.Is(err, ErrInvalidState):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrNotFound):
		status, msg = http.StatusNotFound, "Order not found"
	case errors.Is(err, ErrForbidden):
		status, msg = http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, ErrConflict):
		status, msg = http.StatusConflict, "Order was updated by another request, please retry"
	case errors.Is(err, ErrPaymentInitFailed):
		msg = "Failed to initiate payment"
		log.Error("payment initiation failed", zap.String("path", c.FullPath()), zap.Error(err))
	default:
		log.Error("order request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}
