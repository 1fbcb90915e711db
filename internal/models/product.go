package models

// Category is the fixed set of catalog sections.
type Category string

const (
	CategoryUniform     Category = "เครื่องแบบนักศึกษา"
	CategoryAccessories Category = "เครื่องหมายและอุปกรณ์"
	CategoryStationery  Category = "อุปกรณ์การเรียน"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryUniform, CategoryAccessories, CategoryStationery}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// RequiresSize reports whether items in this category are sold by size.
func (c Category) RequiresSize() bool {
	return c == CategoryUniform
}

// Level is the study level a product is intended for.
type Level string

const (
	LevelVocational     Level = "ปวช."
	LevelHighVocational Level = "ปวส."
	LevelGeneral        Level = "ทั่วไป"
	LevelBoth           Level = "ปวช./ปวส."
)

// Valid reports whether l is empty or a known level.
func (l Level) Valid() bool {
	switch l {
	case "", LevelVocational, LevelHighVocational, LevelGeneral, LevelBoth:
		return true
	}
	return false
}

// Sizes are the garment sizes offered for uniform products.
var Sizes = []string{"S", "M", "L", "XL", "XXL"}

// ValidSize reports whether s is an offered garment size.
func ValidSize(s string) bool {
	for _, size := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Product represents a catalog entry
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         int      `json:"price"`
	Category      Category `json:"category"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Stock         int      `json:"stock"`
	Level         Level    `json:"level,omitempty"`
	IsRecommended bool     `json:"is_recommended,omitempty"`
}

// ProductDraft is the admin form payload for creating or editing a product
type ProductDraft struct {
	Name          string   `json:"name" binding:"required"`
	Price         *int     `json:"price" binding:"required"`
	Category      Category `json:"category" binding:"required"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Stock         *int     `json:"stock"`
	Level         Level    `json:"level"`
	IsRecommended bool     `json:"is_recommended"`
}
