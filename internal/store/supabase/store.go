// Package supabase implements the shop's persistence boundary against a
// hosted Supabase project through its PostgREST interface.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/patterns"
	"github.com/ashendes/bec-market/internal/store"
	"github.com/ashendes/bec-market/internal/store/schema"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const (
	tableOrders   = "/" + schema.TableOrders
	tableProducts = "/" + schema.TableProducts
	tableUsers    = "/" + schema.TableUsers

	uniqueViolation = "23505"
)

// Config locates the Supabase project
type Config struct {
	URL    string
	APIKey string
	Guard  patterns.GuardOptions
}

// Store talks to PostgREST with a single resty client. Every call runs
// through a Guard; nothing is retried.
type Store struct {
	client *resty.Client
	guard  *patterns.Guard
}

var _ store.Store = (*Store)(nil)

// New creates a Store for the project at cfg.URL.
func New(cfg Config) *Store {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.URL, "/")+"/rest/v1").
		SetHeader("apikey", cfg.APIKey).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Guard.Timeout).
		SetRetryCount(0)

	return &Store{
		client: client,
		guard:  patterns.NewGuard("supabase", "shop-service", cfg.Guard),
	}
}

// apiError is the PostgREST error body
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (s *Store) do(ctx context.Context, method, path string, build func(*resty.Request)) error {
	return s.guard.Do(ctx, func(ctx context.Context) error {
		req := s.client.R().SetContext(ctx).SetError(&apiError{})
		build(req)

		resp, err := req.Execute(method, path)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		if resp.IsError() {
			return classify(method, path, resp)
		}
		return nil
	})
}

func classify(method, path string, resp *resty.Response) error {
	apiErr, _ := resp.Error().(*apiError)
	if apiErr != nil && apiErr.Code == uniqueViolation {
		return fmt.Errorf("%s %s: %s: %w", method, path, apiErr.Message, models.ErrConflict)
	}

	msg := resp.String()
	if apiErr != nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	log.WithFields(log.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode(),
	}).Warn("Supabase request failed")
	return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode(), msg)
}

func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	var rows []schema.Order
	err := s.do(ctx, http.MethodPost, tableOrders, func(r *resty.Request) {
		r.SetHeader("Prefer", "return=representation").
			SetBody([]schema.Order{schema.FromOrder(order)}).
			SetResult(&rows)
	})
	if err != nil {
		return models.Order{}, err
	}
	if len(rows) == 0 {
		return order, nil
	}
	return rows[0].Model(), nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var rows []schema.Order
	err := s.do(ctx, http.MethodGet, tableOrders, func(r *resty.Request) {
		r.SetQueryParams(map[string]string{
			"select": "*",
			"id":     "eq." + id,
			"limit":  "1",
		}).SetResult(&rows)
	})
	if err != nil {
		return models.Order{}, err
	}
	if len(rows) == 0 {
		return models.Order{}, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	return rows[0].Model(), nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, email string) ([]models.Order, error) {
	return s.listOrders(ctx, map[string]string{
		"select":    "*",
		"userEmail": "eq." + store.NormalizeEmail(email),
		"order":     "date.desc",
	})
}

func (s *Store) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, map[string]string{
		"select": "*",
		"order":  "date.desc",
	})
}

func (s *Store) listOrders(ctx context.Context, query map[string]string) ([]models.Order, error) {
	var rows []schema.Order
	err := s.do(ctx, http.MethodGet, tableOrders, func(r *resty.Request) {
		r.SetQueryParams(query).SetResult(&rows)
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
	patch := statusPatch{Status: string(status)}
	if shipment != nil {
		patch.ShippingCompany = &shipment.Company
		patch.TrackingNumber = &shipment.TrackingNumber
	}

	var rows []schema.Order
	err := s.do(ctx, http.MethodPatch, tableOrders, func(r *resty.Request) {
		r.SetQueryParam("id", "eq."+id).
			SetHeader("Prefer", "return=representation").
			SetBody(patch).
			SetResult(&rows)
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []schema.Product
	err := s.do(ctx, http.MethodGet, tableProducts, func(r *resty.Request) {
		r.SetQueryParam("select", "*").SetResult(&rows)
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

func (s *Store) CreateProduct(ctx context.Context, product models.Product) error {
	return s.do(ctx, http.MethodPost, tableProducts, func(r *resty.Request) {
		r.SetBody([]schema.Product{schema.FromProduct(product)})
	})
}

func (s *Store) UpdateProduct(ctx context.Context, product models.Product) error {
	return s.mutateOne(ctx, http.MethodPatch, tableProducts, product.ID, schema.FromProduct(product))
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.mutateOne(ctx, http.MethodDelete, tableProducts, id, nil)
}

// mutateOne applies a PATCH or DELETE to the row with the given id and
// reports ErrNotFound when nothing matched.
func (s *Store) mutateOne(ctx context.Context, method, table, id string, body interface{}) error {
	var rows []schema.Product
	err := s.do(ctx, method, table, func(r *resty.Request) {
		r.SetQueryParam("id", "eq."+id).
			SetHeader("Prefer", "return=representation").
			SetResult(&rows)
		if body != nil {
			r.SetBody(body)
		}
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *Store) FindAccount(ctx context.Context, email string) (models.UserAccount, error) {
	var rows []schema.User
	err := s.do(ctx, http.MethodGet, tableUsers, func(r *resty.Request) {
		r.SetQueryParams(map[string]string{
			"select": "*",
			"email":  "eq." + store.NormalizeEmail(email),
			"limit":  "1",
		}).SetResult(&rows)
	})
	if err != nil {
		return models.UserAccount{}, err
	}
	if len(rows) == 0 {
		return models.UserAccount{}, fmt.Errorf("account %s: %w", email, models.ErrNotFound)
	}
	return rows[0].Account(), nil
}

func (s *Store) CreateAccount(ctx context.Context, account models.UserAccount) error {
	account.Email = store.NormalizeEmail(account.Email)
	return s.do(ctx, http.MethodPost, tableUsers, func(r *resty.Request) {
		r.SetBody([]schema.User{schema.FromAccount(account)})
	})
}

func (s *Store) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	var rows []schema.User
	err := s.do(ctx, http.MethodGet, tableUsers, func(r *resty.Request) {
		r.SetQueryParams(map[string]string{
			"select": "email,name,role,studentId",
			"order":  "email.asc",
		}).SetResult(&rows)
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
