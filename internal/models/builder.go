package models

import "strings"

// DefaultProductImage is used when an admin draft carries no image.
const DefaultProductImage = "https://lh3.googleusercontent.com/d/1jYWjkxe6el_VkyJxbmjIQGbYkdOOakx2"

// DefaultProductStock is the stock assigned when an admin draft omits it.
const DefaultProductStock = 10

// ProductBuilder accumulates product fields and yields a Product only once
// every required field is present and valid.
type ProductBuilder struct {
	product  Product
	hasName  bool
	hasPrice bool
	invalid  []string
}

// NewProductBuilder starts a builder carrying the admin form defaults.
func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		product: Product{
			Image: DefaultProductImage,
			Stock: DefaultProductStock,
			Level: LevelGeneral,
		},
	}
}

// From seeds the builder with an existing product, e.g. before an edit.
func (b *ProductBuilder) From(p Product) *ProductBuilder {
	b.product = p
	b.hasName = strings.TrimSpace(p.Name) != ""
	b.hasPrice = true
	return b
}

// ID sets the product identifier.
func (b *ProductBuilder) ID(id string) *ProductBuilder {
	b.product.ID = id
	return b
}

// Name sets the display name.
func (b *ProductBuilder) Name(name string) *ProductBuilder {
	name = strings.TrimSpace(name)
	b.product.Name = name
	b.hasName = name != ""
	return b
}

// Price sets the price in whole baht.
func (b *ProductBuilder) Price(price int) *ProductBuilder {
	if price < 0 {
		b.invalid = append(b.invalid, "price")
		return b
	}
	b.product.Price = price
	b.hasPrice = true
	return b
}

// Category sets the catalog section.
func (b *ProductBuilder) Category(c Category) *ProductBuilder {
	if !c.Valid() {
		b.invalid = append(b.invalid, "category")
		return b
	}
	b.product.Category = c
	return b
}

func (b *ProductBuilder) Description(d string) *ProductBuilder {
	b.product.Description = strings.TrimSpace(d)
	return b
}

func (b *ProductBuilder) Image(img string) *ProductBuilder {
	if img = strings.TrimSpace(img); img != "" {
		b.product.Image = img
	}
	return b
}

func (b *ProductBuilder) Stock(n int) *ProductBuilder {
	if n < 0 {
		b.invalid = append(b.invalid, "stock")
		return b
	}
	b.product.Stock = n
	return b
}

func (b *ProductBuilder) Level(l Level) *ProductBuilder {
	if !l.Valid() {
		b.invalid = append(b.invalid, "level")
		return b
	}
	if l != "" {
		b.product.Level = l
	}
	return b
}

func (b *ProductBuilder) Recommended(r bool) *ProductBuilder {
	b.product.IsRecommended = r
	return b
}

// Draft applies every field of an admin form payload.
func (b *ProductBuilder) Draft(d ProductDraft) *ProductBuilder {
	b.Name(d.Name).
		Category(d.Category).
		Description(d.Description).
		Image(d.Image).
		Level(d.Level).
		Recommended(d.IsRecommended)
	if d.Price != nil {
		b.Price(*d.Price)
	}
	if d.Stock != nil {
		b.Stock(*d.Stock)
	}
	return b
}

// Build returns the finished product or a ValidationError naming every
// missing or invalid field.
func (b *ProductBuilder) Build() (Product, error) {
	var problems []string
	if b.product.ID == "" {
		problems = append(problems, "id")
	}
	if !b.hasName {
		problems = append(problems, "name")
	}
	if !b.hasPrice && !contains(b.invalid, "price") {
		problems = append(problems, "price")
	}
	if b.product.Category == "" && !contains(b.invalid, "category") {
		problems = append(problems, "category")
	}
	problems = append(problems, b.invalid...)

	if len(problems) > 0 {
		return Product{}, missingFields(problems)
	}
	return b.product, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
