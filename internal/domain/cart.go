package domain

// CartEntry is one product in an in-progress cart. Name and UnitPrice are
// snapshots taken when the product was first scanned, so a later catalog
// edit does not change a cart that is already open.
type CartEntry struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns UnitPrice * Quantity for this entry.
func (e CartEntry) Subtotal() int64 {
	return e.UnitPrice * int64(e.Quantity)
}
