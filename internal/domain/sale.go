package domain

import "time"

// Sale is a committed transaction header. ID is assigned by the store on
// insert and is immutable afterwards; the only mutable field is IsCancelled.
type Sale struct {
	ID             int64     `json:"id"`
	TerminalID     string    `json:"terminal_id"`
	CreatedAt      time.Time `json:"created_at"`
	PaymentMethod  string    `json:"payment_method"`
	TotalAmount    int64     `json:"total_amount"`
	TenderedAmount int64     `json:"tendered_amount"`
	ChangeAmount   int64     `json:"change_amount"`
	IsCancelled    bool      `json:"is_cancelled"`
}

// SaleLine is one product row belonging to a committed sale. Name and price
// are frozen at commit time so catalog edits never rewrite history.
type SaleLine struct {
	SaleID         int64  `json:"sale_id"`
	ProductBarcode string `json:"product_barcode"`
	ProductName    string `json:"product_name"`
	UnitPrice      int64  `json:"unit_price"`
	Quantity       int    `json:"quantity"`
}

// SaleWithLines pairs a sale header with its line items in the order they
// were persisted (barcode ascending).
type SaleWithLines struct {
	Sale  Sale       `json:"sale"`
	Lines []SaleLine `json:"lines"`
}
