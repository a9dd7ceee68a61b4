package domain

// Product is one row of the product catalog. Barcode is the primary key.
// Price is in the smallest currency unit, no fractional amounts.
type Product struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category,omitempty"`
}
