package service

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to order")
	ErrNoMatchingItems = errors.New("no cart items match the selection")
)
