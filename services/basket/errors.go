package basket

import "errors"

var (
	ErrProductIneligible   = errors.New("product not found or inactive")
	ErrBasketNotFound      = errors.New("basket not found")
	ErrItemNotFound        = errors.New("item not found in basket")
	ErrInvalidDiscountCode = errors.New("invalid discount code")
)
