package supabase

// statusPatch is the PATCH body for an order status change. Carrier fields
// are sent only on ship.
type statusPatch struct {
	Status          string  `json:"status"`
	ShippingCompany *string `json:"shippingCompany,omitempty"`
	TrackingNumber  *string `json:"trackingNumber,omitempty"`
}
