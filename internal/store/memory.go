package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ashendes/bec-market/internal/models"
)

// Memory is a process-local Store used for development and tests.
type Memory struct {
	orders   map[string]models.Order
	products []models.Product
	accounts map[string]models.UserAccount
	mutex    sync.RWMutex
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		orders:   make(map[string]models.Order),
		accounts: make(map[string]models.UserAccount),
	}
}

func (m *Memory) CreateOrder(_ context.Context, order models.Order) (models.Order, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.orders[order.ID]; exists {
		return models.Order{}, fmt.Errorf("order %s: %w", order.ID, models.ErrConflict)
	}
	m.orders[order.ID] = order
	return order, nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (models.Order, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	order, exists := m.orders[id]
	if !exists {
		return models.Order{}, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	return order, nil
}

func (m *Memory) ListOrdersByUser(_ context.Context, email string) ([]models.Order, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	orders := []models.Order{}
	for _, order := range m.orders {
		if NormalizeEmail(order.UserEmail) == NormalizeEmail(email) {
			orders = append(orders, order)
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (m *Memory) ListAllOrders(_ context.Context) ([]models.Order, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	orders := make([]models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		orders = append(orders, order)
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (m *Memory) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus, shipment *models.Shipment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	order, exists := m.orders[id]
	if !exists {
		return fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	order.Status = status
	if shipment != nil {
		order.ShippingCompany = shipment.Company
		order.TrackingNumber = shipment.TrackingNumber
	}
	m.orders[id] = order
	return nil
}

func (m *Memory) ListProducts(_ context.Context) ([]models.Product, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]models.Product{}, m.products...), nil
}

func (m *Memory) CreateProduct(_ context.Context, product models.Product) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.productIndex(product.ID) >= 0 {
		return fmt.Errorf("product %s: %w", product.ID, models.ErrConflict)
	}
	m.products = append(m.products, product)
	return nil
}

func (m *Memory) UpdateProduct(_ context.Context, product models.Product) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	i := m.productIndex(product.ID)
	if i < 0 {
		return fmt.Errorf("product %s: %w", product.ID, models.ErrNotFound)
	}
	m.products[i] = product
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	i := m.productIndex(id)
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return nil
}

func (m *Memory) productIndex(id string) int {
	for i, p := range m.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) FindAccount(_ context.Context, email string) (models.UserAccount, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	account, exists := m.accounts[NormalizeEmail(email)]
	if !exists {
		return models.UserAccount{}, fmt.Errorf("account %s: %w", email, models.ErrNotFound)
	}
	return account, nil
}

func (m *Memory) CreateAccount(_ context.Context, account models.UserAccount) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := NormalizeEmail(account.Email)
	if _, exists := m.accounts[key]; exists {
		return fmt.Errorf("account %s: %w", account.Email, models.ErrConflict)
	}
	m.accounts[key] = account
	return nil
}

func (m *Memory) ListUsers(_ context.Context) ([]models.UserProfile, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	users := make([]models.UserProfile, 0, len(m.accounts))
	for _, account := range m.accounts {
		users = append(users, account.UserProfile)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Date.Equal(orders[j].Date) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].Date.After(orders[j].Date)
	})
}

// NormalizeEmail is the canonical form used as the account key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
