// Package orders places orders from carts and moves them through their
// lifecycle on behalf of the admin.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashendes/bec-market/internal/metrics"
	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/store"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// IDPrefix starts every order id.
const IDPrefix = "ORD-"

// Service manages order operations
type Service struct {
	orders           store.OrderStore
	promptPayAccount string
	now              func() time.Time
}

// NewService creates an order service that issues PromptPay instructions
// for the given account.
func NewService(orders store.OrderStore, promptPayAccount string) *Service {
	return &Service{
		orders:           orders,
		promptPayAccount: promptPayAccount,
		now:              time.Now,
	}
}

// NewOrderID returns a unique id that sorts by creation time.
func NewOrderID() string {
	return IDPrefix + uuid.Must(uuid.NewV7()).String()
}

// Checkout turns the purchaser's cart into a pending order and persists it.
// The caller clears the cart only after this returns without error.
func (s *Service) Checkout(ctx context.Context, user *models.UserProfile, items []models.CartItem, shipping *models.ShippingInfo) (models.Order, error) {
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return models.Order{}, models.ErrUnauthenticated
	}

	// FAIL FAST: reject before anything is written
	if err := validateCheckout(items, shipping); err != nil {
		metrics.OrdersTotal.WithLabelValues("validation_failed").Inc()
		return models.Order{}, err
	}

	total, err := models.ItemsTotal(items)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("validation_failed").Inc()
		return models.Order{}, err
	}

	order := models.Order{
		ID:        NewOrderID(),
		UserEmail: store.NormalizeEmail(user.Email),
		UserName:  user.Name,
		Date:      s.now().UTC(),
		Items:     append([]models.CartItem(nil), items...),
		Total:     total,
		Status:    models.OrderStatusPending,
		Shipping:  shipping,
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		log.WithFields(log.Fields{
			"order_id": order.ID,
			"user":     order.UserEmail,
			"error":    err.Error(),
		}).Error("Failed to persist order")
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}

	metrics.OrdersTotal.WithLabelValues(string(models.OrderStatusPending)).Inc()
	metrics.OrderValue.Observe(float64(created.Total))

	log.WithFields(log.Fields{
		"order_id": created.ID,
		"user":     created.UserEmail,
		"items":    len(created.Items),
		"total":    created.Total,
	}).Info("Order placed")

	return created, nil
}

// Payment returns the PromptPay instructions for order.
func (s *Service) Payment(order models.Order) models.PaymentInstructions {
	return models.NewPromptPayInstructions(s.promptPayAccount, order.Total)
}

// UpdateStatus applies ev to the stored order and persists the new status.
func (s *Service) UpdateStatus(ctx context.Context, id string, ev models.OrderEvent, shipment *models.Shipment) (models.Order, error) {
	current, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	next, err := current.Apply(ev, shipment)
	if err != nil {
		metrics.OrderTransitionsRejected.WithLabelValues(string(ev)).Inc()
		log.WithFields(log.Fields{
			"order_id": id,
			"status":   current.Status,
			"event":    ev,
			"reason":   err.Error(),
		}).Warn("Order transition rejected")
		return models.Order{}, err
	}

	if err := s.orders.UpdateOrderStatus(ctx, id, next.Status, next.Shipment()); err != nil {
		return models.Order{}, fmt.Errorf("update order %s: %w", id, err)
	}

	metrics.OrdersTotal.WithLabelValues(string(next.Status)).Inc()

	log.WithFields(log.Fields{
		"order_id": id,
		"from":     current.Status,
		"to":       next.Status,
	}).Info("Order status updated")

	return next, nil
}

// ListForUser returns the purchaser's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, user *models.UserProfile) ([]models.Order, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	return s.orders.ListOrdersByUser(ctx, user.Email)
}

// ListAll returns every order, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListAllOrders(ctx)
}

// Stats summarises all orders. Cancelled orders do not count towards sales.
func (s *Service) Stats(ctx context.Context) (models.OrderStats, error) {
	orders, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		return models.OrderStats{}, err
	}
	return Summarise(orders), nil
}

// Summarise computes dashboard figures for orders.
func Summarise(orders []models.Order) models.OrderStats {
	stats := models.OrderStats{
		TotalOrders: len(orders),
		ByStatus:    make(map[models.OrderStatus]int, len(models.OrderStatuses)),
	}
	for _, status := range models.OrderStatuses {
		stats.ByStatus[status] = 0
	}
	for _, o := range orders {
		stats.ByStatus[o.Status]++
		if o.Status != models.OrderStatusCancelled {
			stats.TotalSales += o.Total
		}
	}
	stats.PendingOrders = stats.ByStatus[models.OrderStatusPending]
	return stats
}

// validateCheckout implements fail-fast validation
func validateCheckout(items []models.CartItem, shipping *models.ShippingInfo) error {
	if len(items) == 0 {
		return models.NewValidationError("cart is empty")
	}

	for _, item := range items {
		if item.ID == "" {
			return models.NewValidationError("cart line without product id")
		}
		if item.Quantity < 1 || item.Quantity > models.MaxLineQuantity {
			return models.NewValidationError("invalid quantity %d for product %s", item.Quantity, item.ID)
		}
		if item.Price < 0 {
			return models.NewValidationError("invalid price for product %s", item.ID)
		}
	}

	if shipping != nil {
		var missing []string
		if strings.TrimSpace(shipping.Name) == "" {
			missing = append(missing, "name")
		}
		if strings.TrimSpace(shipping.Phone) == "" {
			missing = append(missing, "phone")
		}
		if strings.TrimSpace(shipping.Address) == "" {
			missing = append(missing, "address")
		}
		if len(missing) > 0 {
			return models.NewValidationError("shipping details missing %s", strings.Join(missing, ", "))
		}
	}

	return nil
}
