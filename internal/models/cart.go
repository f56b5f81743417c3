package models

// CartItem is a client-held cart line. Stock is a snapshot of availability at
// add-time and only bounds client-side quantity edits; authoritative stock is
// re-validated when the order is confirmed.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
	Stock     int     `json:"stock"`
}
