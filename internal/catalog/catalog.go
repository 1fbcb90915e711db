// Package catalog merges the built-in product list with admin-added products
// and provides the browse queries over the result.
package catalog

import (
	"fmt"
	"strings"

	"github.com/ashendes/bec-market/internal/models"
)

// AllCategories is the wildcard accepted by Filter.
const AllCategories = "all"

// Merge concatenates the static and dynamic lists. Admin ids carry a
// distinct prefix, so no de-duplication is done.
func Merge(static, dynamic []models.Product) []models.Product {
	merged := make([]models.Product, 0, len(static)+len(dynamic))
	merged = append(merged, static...)
	return append(merged, dynamic...)
}

// Filter keeps products whose name or description contains query
// (case-insensitive) and whose category matches. An empty category or
// "all" matches every category. Catalog order is preserved.
func Filter(products []models.Product, query, category string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	anyCategory := category == "" || strings.EqualFold(category, AllCategories)

	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !anyCategory && string(p.Category) != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// RecommendedSubset returns the first limit recommended products.
func RecommendedSubset(products []models.Product, limit int) []models.Product {
	if limit <= 0 {
		return []models.Product{}
	}
	result := make([]models.Product, 0, min(limit, len(products)))
	for _, p := range products {
		if len(result) >= limit {
			break
		}
		if p.IsRecommended {
			result = append(result, p)
		}
	}
	return result
}

// Find returns the product with the given id.
func Find(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Listing renders one line per product for grounding the shopping assistant.
func Listing(products []models.Product) string {
	var b strings.Builder
	for i, p := range products {
		if i > 0 {
			b.WriteByte('\n')
		}
		level := p.Level
		if level == "" {
			level = models.LevelGeneral
		}
		fmt.Fprintf(&b, "- %s: ราคา %d บาท (ระดับ: %s) (หมวด: %s) - %s", p.Name, p.Price, level, p.Category, p.Description)
	}
	return b.String()
}
