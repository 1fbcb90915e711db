package catalog

import (
	"context"
	"fmt"

	"github.com/ashendes/bec-market/internal/metrics"
	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/store"
	log "github.com/sirupsen/logrus"
)

// Service serves the merged catalog and the admin product operations.
type Service struct {
	products store.ProductStore
	ids      *IDGenerator
	static   []models.Product
}

// NewService creates a catalog over the built-in list and products.
func NewService(products store.ProductStore) *Service {
	return &Service{
		products: products,
		ids:      NewIDGenerator(),
		static:   Static(),
	}
}

// Products returns the static list followed by the admin-added products.
// When the store cannot be read the static list is served alone.
func (s *Service) Products(ctx context.Context) []models.Product {
	dynamic, err := s.products.ListProducts(ctx)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Warn("Serving static catalog only")
		dynamic = nil
	}

	metrics.CatalogProducts.WithLabelValues("static").Set(float64(len(s.static)))
	metrics.CatalogProducts.WithLabelValues("custom").Set(float64(len(dynamic)))

	return Merge(s.static, dynamic)
}

// Search applies Filter to the merged catalog.
func (s *Service) Search(ctx context.Context, query, category string) []models.Product {
	return Filter(s.Products(ctx), query, category)
}

// Recommended returns up to limit recommended products.
func (s *Service) Recommended(ctx context.Context, limit int) []models.Product {
	return RecommendedSubset(s.Products(ctx), limit)
}

// Get looks a product up in the merged catalog.
func (s *Service) Get(ctx context.Context, id string) (models.Product, error) {
	p, ok := Find(s.Products(ctx), id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

// CreateProduct validates draft and stores it under a fresh custom id.
func (s *Service) CreateProduct(ctx context.Context, draft models.ProductDraft) (models.Product, error) {
	product, err := models.NewProductBuilder().
		ID(s.ids.Next()).
		Draft(draft).
		Build()
	if err != nil {
		return models.Product{}, err
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		return models.Product{}, err
	}

	log.WithFields(log.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"price":      product.Price,
	}).Info("Product created")

	return product, nil
}

// UpdateProduct applies draft to an admin-added product.
func (s *Service) UpdateProduct(ctx context.Context, id string, draft models.ProductDraft) (models.Product, error) {
	if err := s.rejectStatic(id); err != nil {
		return models.Product{}, err
	}

	existing, err := s.findCustom(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	product, err := models.NewProductBuilder().From(existing).Draft(draft).Build()
	if err != nil {
		return models.Product{}, err
	}
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return models.Product{}, err
	}

	log.WithFields(log.Fields{
		"product_id": product.ID,
	}).Info("Product updated")

	return product, nil
}

// DeleteProduct removes an admin-added product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.rejectStatic(id); err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"product_id": id,
	}).Info("Product deleted")

	return nil
}

func (s *Service) rejectStatic(id string) error {
	if _, ok := Find(s.static, id); ok {
		return models.NewValidationError("product %s is part of the built-in catalog", id)
	}
	return nil
}

func (s *Service) findCustom(ctx context.Context, id string) (models.Product, error) {
	dynamic, err := s.products.ListProducts(ctx)
	if err != nil {
		return models.Product{}, err
	}
	p, ok := Find(dynamic, id)
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}
