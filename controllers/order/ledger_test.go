package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Pranay9392/ecommerce-mernstack-backend/models"
	"github.com/Pranay9392/ecommerce-mernstack-backend/payment"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type fakeGateway struct {
	mu       sync.Mutex
	err      error
	delay    time.Duration
	requests []payment.SessionRequest
}

func (g *fakeGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	n := len(g.requests)
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	return &payment.Session{
		ID:       fmt.Sprintf("pay_%d", n),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

type recordingPublisher struct {
	events []OrderEvent
}

func (p *recordingPublisher) Publish(e OrderEvent) { p.events = append(p.events, e) }

type LedgerTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.MemoryStore
	gateway *fakeGateway
	events  *recordingPublisher
	ledger  *Ledger
	clock   time.Time
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewMemoryStore()
	s.gateway = &fakeGateway{}
	s.events = &recordingPublisher{}
	s.ledger = NewLedger(s.store, s.gateway, s.events, zap.NewNop(), LedgerConfig{
		Currency:       "INR",
		PaymentTimeout: 100 * time.Millisecond,
	})

	// Each order is one minute newer than the last.
	s.clock = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.ledger.now = func() time.Time {
		s.clock = s.clock.Add(time.Minute)
		return s.clock
	}

	s.addProduct("p10", "Mug", "10")
	s.addProduct("p25", "Tee", "2.50")
	s.addProduct("p-odd", "Sticker", "0.99")

	s.addUser("alice", "Alice", false, false)
	s.addUser("bob", "Bob", false, false)
}

func (s *LedgerTestSuite) addProduct(id, name, price string) {
	s.Require().NoError(s.store.CreateProduct(s.ctx, &models.Product{
		ID: id, Name: name, Price: decimal.RequireFromString(price),
	}))
}

func (s *LedgerTestSuite) addUser(id, name string, admin, delivery bool) {
	s.Require().NoError(s.store.CreateUser(s.ctx, &models.User{
		ID: id, Name: name, Email: id + "@example.com", IsAdmin: admin, IsDeliveryAdmin: delivery,
	}))
}

func (s *LedgerTestSuite) create(user string, pay bool, items ...ItemInput) *models.Order {
	res, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{UserID: user, Items: items, WithPayment: pay})
	s.Require().NoError(err)
	return res.Order
}

func (s *LedgerTestSuite) orderCount() int {
	all, err := s.store.ListOrders(s.ctx)
	s.Require().NoError(err)
	return len(all)
}

func (s *LedgerTestSuite) TestTotalIsSumOfLines() {
	order := s.create("alice", false,
		ItemInput{ProductID: "p10", Quantity: 2},
		ItemInput{ProductID: "p25", Quantity: 3},
		ItemInput{ProductID: "p-odd", Quantity: 7},
	)
	// 20 + 7.50 + 6.93
	s.True(order.TotalPrice.Equal(decimal.RequireFromString("34.43")), order.TotalPrice.String())

	sum := decimal.Zero
	for _, it := range order.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	s.True(sum.Equal(order.TotalPrice))
	s.Equal("Mug", order.Items[0].Name)
}

func (s *LedgerTestSuite) TestEmptyCartWritesNothing() {
	for _, pay := range []bool{false, true} {
		_, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{UserID: "alice", WithPayment: pay})
		s.ErrorIs(err, ErrEmptyCart)
	}
	s.Zero(s.orderCount())
	s.Empty(s.gateway.requests)
}

func (s *LedgerTestSuite) TestInvalidItems() {
	cases := map[string]ItemInput{
		"zero quantity":   {ProductID: "p10", Quantity: 0},
		"negative":        {ProductID: "p10", Quantity: -1},
		"no product":      {Quantity: 1},
		"unknown product": {ProductID: "nope", Quantity: 1},
	}
	for name, item := range cases {
		_, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{UserID: "alice", Items: []ItemInput{item}})
		s.ErrorIs(err, ErrInvalidItem, name)
	}
	s.Zero(s.orderCount())
}

func (s *LedgerTestSuite) TestClientTotalMustMatch() {
	wrong := decimal.NewFromInt(5)
	_, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{
		UserID: "alice", Items: []ItemInput{{ProductID: "p10", Quantity: 2}}, TotalPrice: &wrong,
	})
	s.ErrorIs(err, ErrTotalMismatch)

	right := decimal.RequireFromString("20.00")
	res, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{
		UserID: "alice", Items: []ItemInput{{ProductID: "p10", Quantity: 2}}, TotalPrice: &right,
	})
	s.Require().NoError(err)
	s.Equal(1, s.orderCount())
	s.True(res.Order.TotalPrice.Equal(right))
}

func (s *LedgerTestSuite) TestDirectCreateIsPending() {
	res, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{UserID: "alice", Items: []ItemInput{{ProductID: "p10", Quantity: 2}}})
	s.Require().NoError(err)
	s.Equal(models.OrderStatusPending, res.Order.Status)
	s.True(res.Order.TotalPrice.Equal(decimal.NewFromInt(20)))
	s.Nil(res.Payment)
	s.Empty(res.Order.PaymentSessionID)
	s.Empty(s.gateway.requests)
}

func (s *LedgerTestSuite) TestPayCreateIsProcessingWithSession() {
	res, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{
		UserID: "alice", Items: []ItemInput{{ProductID: "p10", Quantity: 2}}, WithPayment: true,
	})
	s.Require().NoError(err)
	s.Equal(models.OrderStatusProcessing, res.Order.Status)
	s.Require().NotNil(res.Payment)
	s.Equal(res.Payment.ID, res.Order.PaymentSessionID)

	s.Require().Len(s.gateway.requests, 1)
	req := s.gateway.requests[0]
	s.Equal(int64(2000), req.Amount)
	s.Equal("INR", req.Currency)
	s.Equal("receipt_order_alice", req.Receipt)

	stored, err := s.store.FindOrder(s.ctx, res.Order.ID)
	s.Require().NoError(err)
	s.Equal(res.Payment.ID, stored.PaymentSessionID)
}

func (s *LedgerTestSuite) TestPaymentFailureWritesNothing() {
	s.gateway.err = errors.New("gateway down")
	_, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{
		UserID: "alice", Items: []ItemInput{{ProductID: "p10", Quantity: 1}}, WithPayment: true,
	})
	s.ErrorIs(err, ErrPaymentInitFailed)
	s.Zero(s.orderCount())
	s.Empty(s.events.events)
}

func (s *LedgerTestSuite) TestPaymentTimeoutIsPaymentFailure() {
	s.gateway.delay = time.Second
	start := time.Now()
	_, err := s.ledger.CreateOrder(s.ctx, CreateOrderInput{
		UserID: "alice", Items: []ItemInput{{ProductID: "p10", Quantity: 1}}, WithPayment: true,
	})
	s.ErrorIs(err, ErrPaymentInitFailed)
	s.Less(time.Since(start), 900*time.Millisecond)
	s.Zero(s.orderCount())
}

func (s *LedgerTestSuite) TestCancelScenario() {
	order := s.create("alice", true, ItemInput{ProductID: "p10", Quantity: 2})
	s.True(order.TotalPrice.Equal(decimal.NewFromInt(20)))
	s.Equal(models.OrderStatusProcessing, order.Status)

	_, err := s.ledger.CancelOrder(s.ctx, order.ID, "bob")
	s.ErrorIs(err, ErrForbidden)

	canceled, err := s.ledger.CancelOrder(s.ctx, order.ID, "alice")
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCanceled, canceled.Status)

	_, err = s.ledger.CancelOrder(s.ctx, order.ID, "alice")
	s.ErrorIs(err, ErrInvalidState)
}

func (s *LedgerTestSuite) TestCancelMatrix() {
	for _, status := range models.OrderStatuses {
		order := s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})
		if status != models.OrderStatusPending {
			_, err := s.store.UpdateOrderStatus(s.ctx, order.ID, order.Version, status)
			s.Require().NoError(err)
		}

		_, err := s.ledger.CancelOrder(s.ctx, order.ID, "bob")
		s.ErrorIs(err, ErrForbidden, "non-owner on %s", status)

		_, err = s.ledger.CancelOrder(s.ctx, order.ID, "alice")
		if status == models.OrderStatusPending || status == models.OrderStatusProcessing {
			s.NoError(err, "owner on %s", status)
		} else {
			s.ErrorIs(err, ErrInvalidState, "owner on %s", status)
		}
	}
}

func (s *LedgerTestSuite) TestCancelUnknownOrder() {
	_, err := s.ledger.CancelOrder(s.ctx, "missing", "alice")
	s.ErrorIs(err, ErrNotFound)
}

func (s *LedgerTestSuite) TestDeliveryStatusTransitions() {
	pending := s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})
	delivered, err := s.ledger.SetDeliveryStatus(s.ctx, pending.ID, "Delivered")
	s.Require().NoError(err)
	s.Equal(models.OrderStatusDelivered, delivered.Status)

	returned, err := s.ledger.SetDeliveryStatus(s.ctx, pending.ID, "Returned")
	s.Require().NoError(err)
	s.Equal(models.OrderStatusReturned, returned.Status)

	_, err = s.ledger.SetDeliveryStatus(s.ctx, pending.ID, "Delivered")
	s.ErrorIs(err, ErrInvalidState, "returned is final")

	processing := s.create("alice", true, ItemInput{ProductID: "p10", Quantity: 1})
	_, err = s.ledger.SetDeliveryStatus(s.ctx, processing.ID, "Pending")
	s.ErrorIs(err, ErrInvalidState, "no way back to pending")
	_, err = s.ledger.SetDeliveryStatus(s.ctx, processing.ID, "Processing")
	s.ErrorIs(err, ErrInvalidState, "same status")
	_, err = s.ledger.SetDeliveryStatus(s.ctx, processing.ID, "Shipped")
	s.ErrorIs(err, ErrInvalidState, "unknown status")
	_, err = s.ledger.SetDeliveryStatus(s.ctx, processing.ID, "delivered")
	s.ErrorIs(err, ErrInvalidState, "status names are exact")

	_, err = s.ledger.SetDeliveryStatus(s.ctx, "missing", "Delivered")
	s.ErrorIs(err, ErrNotFound)
}

func (s *LedgerTestSuite) TestStaleVersionIsConflict() {
	order := s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})

	// Another writer moves the order first.
	_, err := s.store.UpdateOrderStatus(s.ctx, order.ID, order.Version, models.OrderStatusProcessing)
	s.Require().NoError(err)

	_, err = s.ledger.swapStatus(s.ctx, order, models.OrderStatusCanceled)
	s.ErrorIs(err, ErrConflict)

	stored, err := s.store.FindOrder(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusProcessing, stored.Status)
}

func (s *LedgerTestSuite) TestConcurrentCancelsApplyOnce() {
	order := s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ledger.CancelOrder(s.ctx, order.ID, "alice"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, successes)
}

func (s *LedgerTestSuite) TestGetOrderOwnerOnly() {
	order := s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})

	got, err := s.ledger.GetOrder(s.ctx, order.ID, "alice")
	s.Require().NoError(err)
	s.Equal(order.ID, got.ID)

	_, err = s.ledger.GetOrder(s.ctx, order.ID, "bob")
	s.ErrorIs(err, ErrForbidden)
	_, err = s.ledger.GetOrder(s.ctx, "missing", "alice")
	s.ErrorIs(err, ErrNotFound)
}

func (s *LedgerTestSuite) TestListings() {
	first := s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})
	second := s.create("bob", false, ItemInput{ProductID: "p10", Quantity: 1})
	third := s.create("alice", false, ItemInput{ProductID: "p25", Quantity: 1})

	mine, err := s.ledger.ListOrdersForUser(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal(third.ID, mine[0].ID)
	s.Equal(first.ID, mine[1].ID)

	none, err := s.ledger.ListOrdersForUser(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)

	plain, err := s.ledger.ListAllOrders(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(plain, 3)
	s.Equal([]string{third.ID, second.ID, first.ID}, []string{plain[0].ID, plain[1].ID, plain[2].ID})
	s.Nil(plain[0].User)

	detailed, err := s.ledger.ListAllOrders(s.ctx, true)
	s.Require().NoError(err)
	s.Require().NotNil(detailed[1].User)
	s.Equal("Bob", detailed[1].User.Name)
	s.Equal("bob@example.com", detailed[1].User.Email)
}

func (s *LedgerTestSuite) TestDashboardSummary() {
	a := s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})
	s.create("alice", true, ItemInput{ProductID: "p10", Quantity: 1})
	c := s.create("bob", true, ItemInput{ProductID: "p10", Quantity: 1})
	d := s.create("bob", false, ItemInput{ProductID: "p10", Quantity: 1})

	_, err := s.ledger.SetDeliveryStatus(s.ctx, a.ID, "Delivered")
	s.Require().NoError(err)
	_, err = s.ledger.CancelOrder(s.ctx, c.ID, "bob")
	s.Require().NoError(err)
	_, err = s.ledger.SetDeliveryStatus(s.ctx, d.ID, "Delivered")
	s.Require().NoError(err)
	_, err = s.ledger.SetDeliveryStatus(s.ctx, d.ID, "Returned")
	s.Require().NoError(err)

	sum, err := s.ledger.DashboardSummary(s.ctx)
	s.Require().NoError(err)
	s.Equal(&DashboardSummary{
		ProductCount:     3,
		TotalOrders:      4,
		PendingOrders:    0,
		ProcessingOrders: 1,
		DeliveredOrders:  1,
		ReturnedOrders:   1,
	}, sum)

	// No caching: a new order shows up immediately.
	s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})
	sum, err = s.ledger.DashboardSummary(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5), sum.TotalOrders)
	s.Equal(int64(1), sum.PendingOrders)
}

func (s *LedgerTestSuite) TestEventsArePublished() {
	order := s.create("alice", false, ItemInput{ProductID: "p10", Quantity: 1})
	_, err := s.ledger.SetDeliveryStatus(s.ctx, order.ID, "Processing")
	s.Require().NoError(err)
	_, err = s.ledger.CancelOrder(s.ctx, order.ID, "alice")
	s.Require().NoError(err)

	var kinds []string
	for _, e := range s.events.events {
		kinds = append(kinds, e.Type)
	}
	s.Equal([]string{"created", "status_changed", "canceled"}, kinds)
}
