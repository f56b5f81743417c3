package payment

import "math"

// Pricing holds the checkout pricing policy: a flat shipping fee and a tax
// rate applied to the item subtotal. Both are configuration constants, never
// derived from catalog data.
type Pricing struct {
	ShippingFee float64
	TaxRate     float64
}

// Quote is the charge breakdown for an order subtotal.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// QuoteFor prices an order: subtotal + flat shipping + tax on the subtotal.
// Amounts are rounded to cents so the gateway sees a clean money value.
func (p Pricing) QuoteFor(subtotal float64) Quote {
	tax := roundCents(subtotal * p.TaxRate)
	return Quote{
		Subtotal: roundCents(subtotal),
		Shipping: roundCents(p.ShippingFee),
		Tax:      tax,
		Total:    roundCents(subtotal + p.ShippingFee + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
