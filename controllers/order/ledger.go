package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Pranay9392/ecommerce-mernstack-backend/models"
	"github.com/Pranay9392/ecommerce-mernstack-backend/payment"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// -------- Inputs & results --------

type ItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"qty"`
}

type CreateOrderInput struct {
	UserID string
	Items  []ItemInput
	// Optional client-side total; must equal the computed one when set.
	TotalPrice  *decimal.Decimal
	WithPayment bool
}

type CreateOrderResult struct {
	Order   *models.Order    `json:"order"`
	Payment *payment.Session `json:"payment,omitempty"`
}

type DashboardSummary struct {
	ProductCount     int64 `json:"productCount"`
	TotalOrders      int64 `json:"totalOrders"`
	PendingOrders    int64 `json:"pendingOrders"`
	ProcessingOrders int64 `json:"processingOrders"`
	DeliveredOrders  int64 `json:"deliveredOrders"`
	ReturnedOrders   int64 `json:"returnedOrders"`
}

// Publisher receives every ledger change.
type Publisher interface {
	Publish(event OrderEvent)
}

type OrderEvent struct {
	Type  string        `json:"type"` // created, canceled, status_changed
	Order *models.Order `json:"order"`
}

// -------- Ledger --------

type LedgerConfig struct {
	Currency       string
	PaymentTimeout time.Duration
}

// Ledger owns orders and their status transitions.
type Ledger struct {
	orders   store.Orders
	products store.Products
	users    store.Users
	gateway  payment.Gateway
	events   Publisher
	log      *zap.Logger

	currency       string
	paymentTimeout time.Duration
	now            func() time.Time
	newID          func() string
}

func NewLedger(st store.Store, gateway payment.Gateway, events Publisher, log *zap.Logger, cfg LedgerConfig) *Ledger {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = 10 * time.Second
	}
	return &Ledger{
		orders:         st,
		products:       st,
		users:          st,
		gateway:        gateway,
		events:         events,
		log:            log,
		currency:       cfg.Currency,
		paymentTimeout: cfg.PaymentTimeout,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

func (l *Ledger) Logger() *zap.Logger { return l.log }

// CreateOrder captures catalog names and prices into a new order. With
// payment, a gateway session is opened first and the order is written
// only if that succeeds.
func (l *Ledger) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items, total, err := l.priceItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	if in.TotalPrice != nil && !in.TotalPrice.Equal(total) {
		return nil, fmt.Errorf("%w: got %s, items sum to %s", ErrTotalMismatch, in.TotalPrice, total)
	}

	order := &models.Order{
		ID:         l.newID(),
		UserID:     in.UserID,
		Items:      items,
		TotalPrice: total,
		Status:     models.OrderStatusPending,
		CreatedAt:  l.now(),
	}

	var session *payment.Session
	if in.WithPayment {
		session, err = l.openSession(ctx, in.UserID, total)
		if err != nil {
			return nil, err
		}
		order.Status = models.OrderStatusProcessing
		order.PaymentSessionID = session.ID
	}

	if err := l.orders.CreateOrder(ctx, order); err != nil {
		if session != nil {
			// The gateway session expires unused on its own.
			l.log.Warn("order not saved after payment session opened",
				zap.String("payment_session_id", session.ID), zap.Error(err))
		}
		return nil, fmt.Errorf("save order: %w", err)
	}

	l.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("status", string(order.Status)),
		zap.String("total", order.TotalPrice.StringFixed(2)),
	)
	l.publish("created", order)
	return &CreateOrderResult{Order: order, Payment: session}, nil
}

func (l *Ledger) priceItems(ctx context.Context, in []ItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, it := range in {
		if it.ProductID == "" {
			return nil, decimal.Zero, fmt.Errorf("%w: missing product", ErrInvalidItem)
		}
		if it.Quantity < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidItem)
		}
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}

	products, err := l.products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(in))
	total := decimal.Zero
	for _, it := range in {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: unknown product %s", ErrInvalidItem, it.ProductID)
		}
		item := models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			Price:     p.Price,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}
	return items, total, nil
}

func (l *Ledger) openSession(ctx context.Context, userID string, total decimal.Decimal) (*payment.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, l.paymentTimeout)
	defer cancel()

	session, err := l.gateway.CreateSession(ctx, payment.SessionRequest{
		Amount:   payment.ToMinorUnits(total),
		Currency: l.currency,
		Receipt:  payment.ReceiptFor(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitFailed, err)
	}
	return session, nil
}

// GetOrder returns an order to its owner.
func (l *Ledger) GetOrder(ctx context.Context, orderID, requesterID string) (*models.Order, error) {
	order, err := l.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID {
		return nil, ErrForbidden
	}
	return order, nil
}

// CancelOrder lets the owner cancel a Pending or Processing order.
func (l *Ledger) CancelOrder(ctx context.Context, orderID, requesterID string) (*models.Order, error) {
	order, err := l.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID {
		return nil, ErrForbidden
	}
	if !canOwnerCancel(order.Status) {
		return nil, fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidState, order.Status)
	}

	updated, err := l.swapStatus(ctx, order, models.OrderStatusCanceled)
	if err != nil {
		return nil, err
	}
	l.log.Info("order canceled", zap.String("order_id", updated.ID), zap.String("user_id", requesterID))
	l.publish("canceled", updated)
	return updated, nil
}

// SetDeliveryStatus moves an order along the delivery transition table.
func (l *Ledger) SetDeliveryStatus(ctx context.Context, orderID, newStatus string) (*models.Order, error) {
	order, err := l.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	target, ok := models.ParseOrderStatus(newStatus)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidState, newStatus)
	}
	if !canDeliveryTransition(order.Status, target) {
		return nil, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidState, order.Status, target)
	}

	updated, err := l.swapStatus(ctx, order, target)
	if err != nil {
		return nil, err
	}
	l.log.Info("order status changed",
		zap.String("order_id", updated.ID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(target)),
	)
	l.publish("status_changed", updated)
	return updated, nil
}

// ListOrdersForUser returns the user's orders, newest first.
func (l *Ledger) ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := l.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return nonNil(orders), nil
}

// ListAllOrders returns every order, newest first, optionally with the
// owner's name and email attached.
func (l *Ledger) ListAllOrders(ctx context.Context, includeUserDetail bool) ([]models.Order, error) {
	orders, err := l.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if !includeUserDetail || len(orders) == 0 {
		return nonNil(orders), nil
	}

	ids := make([]string, 0, len(orders))
	seen := make(map[string]bool)
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}
	users, err := l.users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load order owners: %w", err)
	}
	byID := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	for i := range orders {
		if u, ok := byID[orders[i].UserID]; ok {
			orders[i].User = &u
		}
	}
	return orders, nil
}

// DashboardSummary counts the catalog and the ledger as they are now.
func (l *Ledger) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	products, err := l.products.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	counts, err := l.orders.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return &DashboardSummary{
		ProductCount:     products,
		TotalOrders:      total,
		PendingOrders:    counts[models.OrderStatusPending],
		ProcessingOrders: counts[models.OrderStatusProcessing],
		DeliveredOrders:  counts[models.OrderStatusDelivered],
		ReturnedOrders:   counts[models.OrderStatusReturned],
	}, nil
}

// -------- Helpers --------

func (l *Ledger) find(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := l.orders.FindOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

func (l *Ledger) swapStatus(ctx context.Context, order *models.Order, to models.OrderStatus) (*models.Order, error) {
	updated, err := l.orders.UpdateOrderStatus(ctx, order.ID, order.Version, to)
	switch {
	case errors.Is(err, store.ErrConflict):
		return nil, ErrConflict
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return updated, nil
}

func (l *Ledger) publish(kind string, order *models.Order) {
	if l.events == nil {
		return
	}
	l.events.Publish(OrderEvent{Type: kind, Order: order})
}

func nonNil(orders []models.Order) []models.Order {
	if orders == nil {
		return []models.Order{}
	}
	return orders
}
