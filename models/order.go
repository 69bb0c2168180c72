package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"    // Created without a payment handshake
	OrderStatusProcessing OrderStatus = "Processing" // Payment session opened
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusReturned   OrderStatus = "Returned"
	OrderStatusCanceled   OrderStatus = "Canceled"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusDelivered,
	OrderStatusReturned,
	OrderStatusCanceled,
}

// ParseOrderStatus accepts an exact status name.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Order struct {
	ID               string          `gorm:"primaryKey" json:"id"`
	UserID           string          `gorm:"index;not null" json:"userId"`
	User             *UserSummary    `gorm:"-" json:"user,omitempty"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"items"`
	TotalPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalPrice"`
	PaymentSessionID string          `gorm:"index" json:"paymentSessionId,omitempty"`
	Status           OrderStatus     `gorm:"type:VARCHAR(20);not null;index" json:"status"`
	Version          int             `gorm:"not null;default:1" json:"-"`
	CreatedAt        time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   string          `gorm:"index" json:"-"`
	ProductID string          `gorm:"not null" json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

// LineTotal is price × quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
