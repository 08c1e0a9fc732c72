package services

import (
	"context"
	"errors"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/database"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/sender"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrderService defines the order ledger.
type OrderService interface {
	// CreateOrder places an order. The bool reports that the order was returned
	// from an earlier request with the same idempotency key.
	CreateOrder(ctx context.Context, buyer Actor, req *models.CreateOrderRequest, idempotencyKey string) (*models.Order, bool, error)
	UpdateStatus(ctx context.Context, actor Actor, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, error)
	ListSellerOrders(ctx context.Context, email string) ([]*models.Order, error)
	ListUserOrders(ctx context.Context, email string) ([]*models.Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID string) (*models.Order, error)
	SendConfirmation(ctx context.Context, actor Actor, orderID string) error
}

type orderServiceImpl struct {
	items       repository.ItemRepository
	orders      repository.OrderRepository
	outbox      repository.OutboxRepository
	tx          database.TxRunner
	mailer      Mailer
	idempotency IdempotencyStore
	cache       ItemCache
	metrics     *awspkg.MetricsClient
	logger      *zap.Logger
}

// OrderDeps groups the collaborators of the order service.
type OrderDeps struct {
	Items       repository.ItemRepository
	Orders      repository.OrderRepository
	Outbox      repository.OutboxRepository
	Tx          database.TxRunner
	Mailer      Mailer
	Idempotency IdempotencyStore
	Cache       ItemCache
	Metrics     *awspkg.MetricsClient
}

func NewOrderService(deps OrderDeps, logger *zap.Logger) OrderService {
	tx := deps.Tx
	if tx == nil {
		tx = database.DirectTx{}
	}
	return &orderServiceImpl{
		items:       deps.Items,
		orders:      deps.Orders,
		outbox:      deps.Outbox,
		tx:          tx,
		mailer:      deps.Mailer,
		idempotency: deps.Idempotency,
		cache:       deps.Cache,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, buyer Actor, req *models.CreateOrderRequest, idempotencyKey string) (*models.Order, bool, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, false, apperrors.Validation("quantity must be at least 1")
	}
	itemID, err := repository.ParseID(req.ItemID)
	if err != nil {
		return nil, false, apperrors.Validation("invalid item id")
	}

	if idempotencyKey != "" && s.idempotency != nil {
		existingID, reserved, err := s.idempotency.Reserve(ctx, idempotencyKey)
		if err != nil {
			return nil, false, apperrors.Internal("failed to check idempotency key", err)
		}
		if !reserved {
			return s.replay(ctx, buyer, existingID)
		}
	}

	order, err := s.placeOrder(ctx, buyer, itemID, qty, req)
	if idempotencyKey != "" && s.idempotency != nil {
		if err != nil {
			if relErr := s.idempotency.Release(ctx, idempotencyKey); relErr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
			}
		} else if compErr := s.idempotency.Complete(ctx, idempotencyKey, order.ID.Hex()); compErr != nil {
			s.logger.Warn("Failed to record idempotency key", zap.Error(compErr))
		}
	}
	if err != nil {
		return nil, false, err
	}
	return order, false, nil
}

func (s *orderServiceImpl) replay(ctx context.Context, buyer Actor, orderID string) (*models.Order, bool, error) {
	if orderID == "" {
		return nil, false, apperrors.Conflict("an order with this idempotency key is still being processed")
	}
	oid, err := repository.ParseID(orderID)
	if err != nil {
		return nil, false, apperrors.Internal("corrupt idempotency record", err)
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil, false, apperrors.Internal("failed to load original order", err)
	}
	if order.UserEmail != buyer.Email {
		return nil, false, apperrors.Conflict("idempotency key already used")
	}
	return order, true, nil
}

func (s *orderServiceImpl) placeOrder(ctx context.Context, buyer Actor, itemID primitive.ObjectID, qty int, req *models.CreateOrderRequest) (*models.Order, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("item not found")
		}
		return nil, apperrors.Internal("failed to get item", err)
	}
	if !item.InStock(qty) {
		s.recordOutOfStock(ctx)
		return nil, apperrors.Validation("out of stock")
	}

	var order *models.Order
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		before, err := s.items.DecrementStock(ctx, itemID, qty)
		if err != nil {
			return err
		}

		order = buildOrder(buyer.Email, before, qty, req)
		if err := s.orders.Create(ctx, order); err != nil {
			s.restock(ctx, itemID, qty)
			return err
		}

		if err := appendEvent(ctx, s.outbox, models.EventOrderCreated, order.ID.Hex(), orderEvent(order)); err != nil {
			if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
				s.logger.Error("Failed to remove order after outbox failure", zap.String("order_id", order.ID.Hex()), zap.Error(delErr))
			}
			s.restock(ctx, itemID, qty)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrOutOfStock) {
			s.recordOutOfStock(ctx)
			return nil, apperrors.Validation("out of stock")
		}
		return nil, apperrors.Internal("failed to create order", err)
	}

	if s.cache != nil {
		s.cache.InvalidateItem(ctx, itemID.Hex())
	}
	if s.metrics.IsEnabled() {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricOrdersCreated, nil)
	}
	s.logger.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("item_id", itemID.Hex()),
		zap.Int("quantity", qty),
		zap.Float64("total", order.TotalAmount),
	)
	return order, nil
}

// restock undoes a decrement. Inside a transaction the abort discards it along with everything else.
func (s *orderServiceImpl) restock(ctx context.Context, itemID primitive.ObjectID, qty int) {
	if err := s.items.IncrementStock(ctx, itemID, qty); err != nil {
		s.logger.Error("Failed to restore stock", zap.String("item_id", itemID.Hex()), zap.Int("quantity", qty), zap.Error(err))
	}
}

func (s *orderServiceImpl) recordOutOfStock(ctx context.Context) {
	if s.metrics.IsEnabled() {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricOrdersOutOfStock, nil)
	}
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, actor Actor, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	oid, err := repository.ParseID(orderID)
	if err != nil {
		return nil, apperrors.Validation("invalid order id")
	}
	if !req.Status.Valid() {
		return nil, apperrors.Validation("invalid order status")
	}

	existing, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to get order", err)
	}
	if !actor.CanActFor(existing.SellerEmail) {
		return nil, apperrors.Forbidden("only the seller of this order can change its status")
	}

	var updated *models.Order
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		if updated, err = s.orders.UpdateStatus(ctx, oid, req.Status); err != nil {
			return err
		}
		event := orderEvent(updated)
		event.Notify = req.SendNotification
		return appendEvent(ctx, s.outbox, models.EventOrderStatusChanged, orderID, event)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to update order status", err)
	}

	if s.metrics.IsEnabled() {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricOrderStatusChanged, map[string]string{"Status": string(req.Status)})
	}
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(existing.OrderStatus)),
		zap.String("to", string(req.Status)),
	)

	if req.SendNotification {
		s.notifyStatus(ctx, updated, req)
	}
	return updated, nil
}

// notifyStatus emails the buyer. Omitted request fields fall back to the stored
// order. Failures are logged and never fail the update.
func (s *orderServiceImpl) notifyStatus(ctx context.Context, order *models.Order, req *models.UpdateOrderStatusRequest) {
	if s.mailer == nil {
		return
	}
	to := firstNonEmpty(req.BuyerEmail, order.UserEmail)
	data := map[string]interface{}{
		"OrderID":     order.ID.Hex(),
		"ItemTitle":   firstNonEmpty(req.ItemTitle, order.ItemDetails.Title),
		"SellerEmail": firstNonEmpty(req.SellerEmail, order.SellerEmail),
		"Status":      string(order.OrderStatus),
	}
	if err := s.mailer.Send(ctx, sender.TemplateOrderStatus, to, data); err != nil {
		s.logger.Warn("Failed to send order status email", zap.String("order_id", order.ID.Hex()), zap.Error(err))
	}
}

func (s *orderServiceImpl) ListSellerOrders(ctx context.Context, email string) ([]*models.Order, error) {
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	orders, err := s.orders.FindBySeller(ctx, email)
	if err != nil {
		return nil, apperrors.Internal("failed to list orders", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) ListUserOrders(ctx context.Context, email string) ([]*models.Order, error) {
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	orders, err := s.orders.FindByUser(ctx, email)
	if err != nil {
		return nil, apperrors.Internal("failed to list orders", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, actor Actor, orderID string) (*models.Order, error) {
	oid, err := repository.ParseID(orderID)
	if err != nil {
		return nil, apperrors.Validation("invalid order id")
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("failed to get order", err)
	}
	if !actor.CanActFor(order.UserEmail) && !actor.CanActFor(order.SellerEmail) {
		return nil, apperrors.Forbidden("you cannot view this order")
	}
	return order, nil
}

func (s *orderServiceImpl) SendConfirmation(ctx context.Context, actor Actor, orderID string) error {
	order, err := s.GetOrder(ctx, actor, orderID)
	if err != nil {
		return err
	}
	if s.mailer == nil {
		return apperrors.Internal("email is not configured", nil)
	}

	data := map[string]interface{}{
		"OrderID":     order.ID.Hex(),
		"Name":        order.ShippingDetails.Name,
		"ItemTitle":   order.ItemDetails.Title,
		"Quantity":    order.ItemDetails.Quantity,
		"TotalAmount": order.TotalAmount,
		"Address":     order.ShippingDetails.Address,
		"City":        order.ShippingDetails.City,
		"ZipCode":     order.ShippingDetails.ZipCode,
	}
	to := firstNonEmpty(order.ShippingDetails.Email, order.UserEmail)
	if err := s.mailer.Send(ctx, sender.TemplateOrderConfirmation, to, data); err != nil {
		return apperrors.Internal("failed to send confirmation email", err)
	}
	return nil
}

// buildOrder snapshots item as it was at purchase time.
func buildOrder(buyerEmail string, item *models.Item, qty int, req *models.CreateOrderRequest) *models.Order {
	var image string
	if len(item.Images) > 0 {
		image = item.Images[0]
	}
	return &models.Order{
		UserEmail:   buyerEmail,
		SellerEmail: item.Email,
		ItemID:      item.ID,
		ItemDetails: models.ItemSnapshot{
			Title:    item.Title,
			Price:    item.Price,
			Image:    image,
			Quantity: qty,
		},
		ShippingDetails: req.ShippingDetails,
		PaymentDetails: models.PaymentDetails{
			CardLast4:  lastFour(req.PaymentDetails.CardNumber),
			ExpiryDate: req.PaymentDetails.ExpiryDate,
		},
		OrderStatus:  models.OrderPending,
		ShippingCost: item.ShippingCost,
		TotalAmount:  OrderTotal(item.Price, qty, item.ShippingCost),
	}
}

// OrderTotal is price × quantity + shipping, rounded to cents.
func OrderTotal(price float64, qty int, shipping float64) float64 {
	total := decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(qty))).
		Add(decimal.NewFromFloat(shipping)).
		Round(2)
	f, _ := total.Float64()
	return f
}

func orderEvent(o *models.Order) models.OrderEvent {
	return models.OrderEvent{
		OrderID:     o.ID.Hex(),
		UserEmail:   o.UserEmail,
		SellerEmail: o.SellerEmail,
		ItemTitle:   o.ItemDetails.Title,
		Quantity:    o.ItemDetails.Quantity,
		TotalAmount: o.TotalAmount,
		Status:      o.OrderStatus,
	}
}

func lastFour(card string) string {
	if len(card) <= 4 {
		return card
	}
	return card[len(card)-4:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
