package models

import "math"

// MaxLineQuantity caps the quantity of a single cart or order line.
const MaxLineQuantity = 999

// CartItem is a product line in a cart or order
type CartItem struct {
	Product
	Quantity     int    `json:"quantity"`
	SelectedSize string `json:"selected_size,omitempty"`
}

// LineTotal is price times quantity, or a ValidationError when the product
// does not fit in an int.
func (i CartItem) LineTotal() (int, error) {
	if i.Quantity > 0 && i.Price > math.MaxInt/i.Quantity {
		return 0, NewValidationError("subtotal of product %s is too large", i.ID)
	}
	return i.Price * i.Quantity, nil
}

// Subtotal is LineTotal saturated at math.MaxInt.
func (i CartItem) Subtotal() int {
	total, err := i.LineTotal()
	if err != nil {
		return math.MaxInt
	}
	return total
}

// ItemsTotal sums the line totals of items. It fails instead of wrapping.
func ItemsTotal(items []CartItem) (int, error) {
	total := 0
	for _, item := range items {
		line, err := item.LineTotal()
		if err != nil {
			return 0, err
		}
		if line > math.MaxInt-total {
			return 0, NewValidationError("order total is too large")
		}
		total += line
	}
	return total, nil
}

// AddCartItemRequest represents the request to add a product to the cart
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
}

// ChangeQuantityRequest represents the request to adjust a cart line
type ChangeQuantityRequest struct {
	Size  string `json:"size"`
	Delta int    `json:"delta"`
}

// CartSummary is the cart with its derived totals
type CartSummary struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Total int        `json:"total"`
}

// ChatRole identifies the speaker of a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of an assistant conversation
type ChatMessage struct {
	Role ChatRole `json:"role" binding:"required,oneof=user model"`
	Text string   `json:"text" binding:"required"`
}

// ChatRequest represents the request to the shopping assistant
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

// ChatResponse carries the assistant reply
type ChatResponse struct {
	Reply string `json:"reply"`
}
