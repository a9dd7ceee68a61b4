package service

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrInsufficientTender = errors.New("tendered amount is less than the cart total")
)
