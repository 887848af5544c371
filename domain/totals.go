package domain

const (
	ShippingFee Yen = 600
	TaxPercent  Yen = 10
)

// OrderTotals is derived from the cart and never stored on its own.
type OrderTotals struct {
	Subtotal    Yen `json:"subtotal" msgpack:"subtotal"`
	ShippingFee Yen `json:"shippingFee" msgpack:"shipping_fee"`
	Tax         Yen `json:"tax" msgpack:"tax"`
	Total       Yen `json:"total" msgpack:"total"`
}

// ComputeTotals floors the tax; subtotal is expected to be non-negative.
func ComputeTotals(subtotal Yen) OrderTotals {
	tax := subtotal * TaxPercent / 100
	return OrderTotals{
		Subtotal:    subtotal,
		ShippingFee: ShippingFee,
		Tax:         tax,
		Total:       subtotal + ShippingFee + tax,
	}
}
