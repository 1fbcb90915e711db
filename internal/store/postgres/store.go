// Package postgres implements the shop's persistence boundary on a
// self-hosted PostgreSQL database laid out like the hosted Supabase
// project.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/patterns"
	"github.com/ashendes/bec-market/internal/store"
	"github.com/ashendes/bec-market/internal/store/schema"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const uniqueViolation = "23505"

// Store runs every statement through a Guard.
type Store struct {
	db    *gorm.DB
	guard *patterns.Guard
}

var _ store.Store = (*Store)(nil)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts patterns.GuardOptions) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db, opts), nil
}

// OpenConn wraps an existing connection pool.
func OpenConn(conn *sql.DB, opts patterns.GuardOptions) (*Store, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return New(db, opts), nil
}

func New(db *gorm.DB, opts patterns.GuardOptions) *Store {
	return &Store{
		db:    db,
		guard: patterns.NewGuard("postgres", "shop-service", opts),
	}
}

// Migrate creates or extends the users, orders and custom_products tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.guard.Do(ctx, func(ctx context.Context) error {
		return s.db.WithContext(ctx).AutoMigrate(&schema.User{}, &schema.Order{}, &schema.Product{})
	})
}

// Close releases the pool.
func (s *Store) Close() error {
	pool, err := s.db.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

func (s *Store) exec(ctx context.Context, what string, fn func(tx *gorm.DB) error) error {
	return s.guard.Do(ctx, func(ctx context.Context) error {
		err := fn(s.db.WithContext(ctx))
		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", what, models.ErrConflict)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s: %w", what, models.ErrNotFound)
		}
		log.WithFields(log.Fields{
			"operation": what,
			"error":     err.Error(),
		}).Warn("Postgres statement failed")
		return fmt.Errorf("%s: %w", what, err)
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// expectOne turns a statement that matched no row into gorm.ErrRecordNotFound.
func expectOne(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	row := schema.FromOrder(order)
	err := s.exec(ctx, "create order "+order.ID, func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var row schema.Order
	err := s.exec(ctx, "order "+id, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return row.Model(), nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, email string) ([]models.Order, error) {
	return s.listOrders(ctx, "orders of "+email, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(`lower("userEmail") = ?`, store.NormalizeEmail(email))
	})
}

func (s *Store) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, "all orders", func(tx *gorm.DB) *gorm.DB { return tx })
}

func (s *Store) listOrders(ctx context.Context, what string, scope func(*gorm.DB) *gorm.DB) ([]models.Order, error) {
	var rows []schema.Order
	err := s.exec(ctx, what, func(tx *gorm.DB) error {
		return tx.Scopes(scope).Order("date desc").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.Model())
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, shipment *models.Shipment) error {
	changes := map[string]interface{}{"status": string(status)}
	if shipment != nil {
		changes["shippingCompany"] = shipment.Company
		changes["trackingNumber"] = shipment.TrackingNumber
	}
	return s.exec(ctx, "update order "+id, func(tx *gorm.DB) error {
		return expectOne(tx.Model(&schema.Order{}).Where("id = ?", id).Updates(changes))
	})
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []schema.Product
	err := s.exec(ctx, "list products", func(tx *gorm.DB) error {
		return tx.Order("id").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.Model())
	}
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, p models.Product) error {
	row := schema.FromProduct(p)
	return s.exec(ctx, "create product "+p.ID, func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
}

// UpdateProduct rewrites every column, zero values included.
func (s *Store) UpdateProduct(ctx context.Context, p models.Product) error {
	row := schema.FromProduct(p)
	changes := map[string]interface{}{
		"name":          row.Name,
		"price":         row.Price,
		"category":      row.Category,
		"description":   row.Description,
		"image":         row.Image,
		"stock":         row.Stock,
		"level":         row.Level,
		"isRecommended": row.IsRecommended,
	}
	return s.exec(ctx, "update product "+p.ID, func(tx *gorm.DB) error {
		return expectOne(tx.Model(&schema.Product{}).Where("id = ?", p.ID).Updates(changes))
	})
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.exec(ctx, "delete product "+id, func(tx *gorm.DB) error {
		return expectOne(tx.Where("id = ?", id).Delete(&schema.Product{}))
	})
}

func (s *Store) FindAccount(ctx context.Context, email string) (models.UserAccount, error) {
	var row schema.User
	err := s.exec(ctx, "account "+email, func(tx *gorm.DB) error {
		return tx.Where("email = ?", store.NormalizeEmail(email)).First(&row).Error
	})
	if err != nil {
		return models.UserAccount{}, err
	}
	return row.Account(), nil
}

func (s *Store) CreateAccount(ctx context.Context, account models.UserAccount) error {
	account.Email = store.NormalizeEmail(account.Email)
	row := schema.FromAccount(account)
	return s.exec(ctx, "create account "+account.Email, func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
}

func (s *Store) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	var rows []schema.User
	err := s.exec(ctx, "list users", func(tx *gorm.DB) error {
		return tx.Order("email").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	users := make([]models.UserProfile, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.Account().UserProfile)
	}
	return users, nil
}
