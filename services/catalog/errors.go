package catalog

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInactive = errors.New("product inactive")
)
