package models

import (
	"strings"
	"time"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// OrderStatus constants
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusCancelled,
}

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// OrderEvent names an operator action on an order.
type OrderEvent string

const (
	EventConfirm OrderEvent = "confirm"
	EventShip    OrderEvent = "ship"
	EventCancel  OrderEvent = "cancel"
)

// ParseOrderEvent maps an action name onto a known event.
func ParseOrderEvent(s string) (OrderEvent, bool) {
	switch ev := OrderEvent(strings.ToLower(strings.TrimSpace(s))); ev {
	case EventConfirm, EventShip, EventCancel:
		return ev, true
	}
	return "", false
}

// Shipment is the carrier data attached when an order ships
type Shipment struct {
	Company        string `json:"shipping_company"`
	TrackingNumber string `json:"tracking_number"`
}

// ShippingInfo is the delivery address captured at checkout
type ShippingInfo struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	District string `json:"district"`
	Province string `json:"province"`
	ZipCode  string `json:"zip_code"`
}

// Order represents a purchase snapshot taken at checkout
type Order struct {
	ID              string        `json:"id"`
	UserEmail       string        `json:"user_email"`
	UserName        string        `json:"user_name"`
	Date            time.Time     `json:"date"`
	Items           []CartItem    `json:"items"`
	Total           int           `json:"total"`
	Status          OrderStatus   `json:"status"`
	ShippingCompany string        `json:"shipping_company,omitempty"`
	TrackingNumber  string        `json:"tracking_number,omitempty"`
	Shipping        *ShippingInfo `json:"shipping,omitempty"`
}

// Confirm moves a pending order to confirmed.
func (o Order) Confirm() (Order, error) {
	if o.Status != OrderStatusPending {
		return Order{}, o.rejected(EventConfirm)
	}
	next := o.clone()
	next.Status = OrderStatusConfirmed
	return next, nil
}

// Ship moves a confirmed order to shipped and attaches the carrier data.
// Both carrier and tracking code must be non-empty.
func (o Order) Ship(carrier, tracking string) (Order, error) {
	if o.Status != OrderStatusConfirmed {
		return Order{}, o.rejected(EventShip)
	}

	carrier = strings.TrimSpace(carrier)
	tracking = strings.TrimSpace(tracking)
	var missing []string
	if carrier == "" {
		missing = append(missing, "shipping_company")
	}
	if tracking == "" {
		missing = append(missing, "tracking_number")
	}
	if len(missing) > 0 {
		return Order{}, NewValidationError("shipping requires %s", strings.Join(missing, " and "))
	}

	next := o.clone()
	next.Status = OrderStatusShipped
	next.ShippingCompany = carrier
	next.TrackingNumber = tracking
	return next, nil
}

// Cancel moves a pending or confirmed order to cancelled.
func (o Order) Cancel() (Order, error) {
	if o.Status != OrderStatusPending && o.Status != OrderStatusConfirmed {
		return Order{}, o.rejected(EventCancel)
	}
	next := o.clone()
	next.Status = OrderStatusCancelled
	return next, nil
}

// Apply dispatches ev to the matching transition. shipment is only read for
// EventShip.
func (o Order) Apply(ev OrderEvent, shipment *Shipment) (Order, error) {
	switch ev {
	case EventConfirm:
		return o.Confirm()
	case EventShip:
		if shipment == nil {
			shipment = &Shipment{}
		}
		return o.Ship(shipment.Company, shipment.TrackingNumber)
	case EventCancel:
		return o.Cancel()
	default:
		return Order{}, newTransitionError("unknown order event %q", ev)
	}
}

// Shipment returns the carrier data, or nil if the order has not shipped.
func (o Order) Shipment() *Shipment {
	if o.Status != OrderStatusShipped {
		return nil
	}
	return &Shipment{Company: o.ShippingCompany, TrackingNumber: o.TrackingNumber}
}

func (o Order) rejected(ev OrderEvent) error {
	if o.Status.Terminal() {
		return newTransitionError("order %s is %s and cannot %s", o.ID, o.Status, ev)
	}
	return newTransitionError("cannot %s order %s from status %s", ev, o.ID, o.Status)
}

func (o Order) clone() Order {
	next := o
	next.Items = append([]CartItem(nil), o.Items...)
	if o.Shipping != nil {
		shipping := *o.Shipping
		next.Shipping = &shipping
	}
	return next
}

// CheckoutRequest represents the request to place an order from the cart
type CheckoutRequest struct {
	Shipping *ShippingInfo `json:"shipping"`
}

// CheckoutResponse represents the response after placing an order
type CheckoutResponse struct {
	Order   Order               `json:"order"`
	Payment PaymentInstructions `json:"payment"`
	Message string              `json:"message,omitempty"`
}

// OrderStats summarises orders for the admin dashboard
type OrderStats struct {
	TotalSales    int                 `json:"total_sales"`
	TotalOrders   int                 `json:"total_orders"`
	PendingOrders int                 `json:"pending_orders"`
	ByStatus      map[OrderStatus]int `json:"by_status"`
}
