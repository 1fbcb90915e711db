// Package schema describes the rows of the hosted shop database. Column and
// JSON names follow that schema, which predates this service and uses
// camelCase. Both the Supabase and the Postgres backends read and write
// these types.
package schema

import (
	"time"

	"github.com/ashendes/bec-market/internal/models"
)

const (
	TableOrders   = "orders"
	TableProducts = "custom_products"
	TableUsers    = "users"
)

// Product is a row of custom_products, and the product half of an order line.
type Product struct {
	ID            string `json:"id" gorm:"column:id;primaryKey"`
	Name          string `json:"name" gorm:"column:name;not null"`
	Price         int    `json:"price" gorm:"column:price;not null"`
	Category      string `json:"category" gorm:"column:category;not null"`
	Description   string `json:"description" gorm:"column:description;not null"`
	Image         string `json:"image" gorm:"column:image;not null"`
	Stock         int    `json:"stock" gorm:"column:stock;not null"`
	Level         string `json:"level,omitempty" gorm:"column:level;not null"`
	IsRecommended bool   `json:"isRecommended" gorm:"column:isRecommended;not null"`
}

func (Product) TableName() string { return TableProducts }

// Item is one order line inside the items JSON column.
type Item struct {
	Product
	Quantity     int    `json:"quantity"`
	SelectedSize string `json:"selectedSize,omitempty"`
}

// Shipping is the delivery address inside the shipping JSON column.
type Shipping struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district,omitempty"`
	Province string `json:"province,omitempty"`
	ZipCode  string `json:"zipCode,omitempty"`
}

// Order is a row of orders.
type Order struct {
	ID              string    `json:"id" gorm:"column:id;primaryKey"`
	UserEmail       string    `json:"userEmail" gorm:"column:userEmail;not null;index"`
	UserName        string    `json:"userName" gorm:"column:userName;not null"`
	Date            time.Time `json:"date" gorm:"column:date;not null"`
	Items           []Item    `json:"items" gorm:"column:items;type:jsonb;serializer:json;not null"`
	Total           int       `json:"total" gorm:"column:total;not null"`
	Status          string    `json:"status" gorm:"column:status;not null"`
	ShippingCompany *string   `json:"shippingCompany,omitempty" gorm:"column:shippingCompany"`
	TrackingNumber  *string   `json:"trackingNumber,omitempty" gorm:"column:trackingNumber"`
	Shipping        *Shipping `json:"shipping,omitempty" gorm:"column:shipping;type:jsonb;serializer:json"`
}

func (Order) TableName() string { return TableOrders }

// User is a row of users.
type User struct {
	Email     string `json:"email" gorm:"column:email;primaryKey"`
	Password  string `json:"password,omitempty" gorm:"column:password;not null"`
	Name      string `json:"name" gorm:"column:name;not null"`
	Role      string `json:"role" gorm:"column:role;not null"`
	StudentID string `json:"studentId,omitempty" gorm:"column:studentId;not null"`
}

func (User) TableName() string { return TableUsers }

func FromProduct(p models.Product) Product {
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Category:      string(p.Category),
		Description:   p.Description,
		Image:         p.Image,
		Stock:         p.Stock,
		Level:         string(p.Level),
		IsRecommended: p.IsRecommended,
	}
}

func (r Product) Model() models.Product {
	return models.Product{
		ID:            r.ID,
		Name:          r.Name,
		Price:         r.Price,
		Category:      models.Category(r.Category),
		Description:   r.Description,
		Image:         r.Image,
		Stock:         r.Stock,
		Level:         models.Level(r.Level),
		IsRecommended: r.IsRecommended,
	}
}

// FromOrder converts an order. Carrier columns are set only once the order
// carries a shipment.
func FromOrder(o models.Order) Order {
	row := Order{
		ID:        o.ID,
		UserEmail: o.UserEmail,
		UserName:  o.UserName,
		Date:      o.Date.UTC(),
		Items:     make([]Item, 0, len(o.Items)),
		Total:     o.Total,
		Status:    string(o.Status),
	}
	for _, item := range o.Items {
		row.Items = append(row.Items, Item{
			Product:      FromProduct(item.Product),
			Quantity:     item.Quantity,
			SelectedSize: item.SelectedSize,
		})
	}
	if s := o.Shipment(); s != nil {
		row.ShippingCompany = &s.Company
		row.TrackingNumber = &s.TrackingNumber
	}
	if o.Shipping != nil {
		row.Shipping = &Shipping{
			Name:     o.Shipping.Name,
			Phone:    o.Shipping.Phone,
			Address:  o.Shipping.Address,
			District: o.Shipping.District,
			Province: o.Shipping.Province,
			ZipCode:  o.Shipping.ZipCode,
		}
	}
	return row
}

func (r Order) Model() models.Order {
	o := models.Order{
		ID:        r.ID,
		UserEmail: r.UserEmail,
		UserName:  r.UserName,
		Date:      r.Date,
		Items:     make([]models.CartItem, 0, len(r.Items)),
		Total:     r.Total,
		Status:    models.OrderStatus(r.Status),
	}
	for _, item := range r.Items {
		o.Items = append(o.Items, models.CartItem{
			Product:      item.Model(),
			Quantity:     item.Quantity,
			SelectedSize: item.SelectedSize,
		})
	}
	if r.ShippingCompany != nil {
		o.ShippingCompany = *r.ShippingCompany
	}
	if r.TrackingNumber != nil {
		o.TrackingNumber = *r.TrackingNumber
	}
	if r.Shipping != nil {
		o.Shipping = &models.ShippingInfo{
			Name:     r.Shipping.Name,
			Phone:    r.Shipping.Phone,
			Address:  r.Shipping.Address,
			District: r.Shipping.District,
			Province: r.Shipping.Province,
			ZipCode:  r.Shipping.ZipCode,
		}
	}
	return o
}

// FromAccount converts an account, defaulting an empty role to user.
func FromAccount(a models.UserAccount) User {
	role := a.Role
	if role == "" {
		role = models.RoleUser
	}
	return User{
		Email:     a.Email,
		Password:  a.PasswordHash,
		Name:      a.Name,
		Role:      string(role),
		StudentID: a.StudentID,
	}
}

func (r User) Account() models.UserAccount {
	role := models.Role(r.Role)
	if role == "" {
		role = models.RoleUser
	}
	return models.UserAccount{
		UserProfile: models.UserProfile{
			Name:      r.Name,
			Email:     r.Email,
			Role:      role,
			StudentID: r.StudentID,
		},
		PasswordHash: r.Password,
	}
}
