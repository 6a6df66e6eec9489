package catalog

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                 int                 `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Category           string              `json:"category"`
	Price              decimal.Decimal     `json:"price"`
	IsActive           bool                `json:"isActive"`
	IsDiscounted       bool                `json:"isDiscounted"`
	DiscountPercentage decimal.NullDecimal `json:"discountPercentage"`
	CreatedAt          time.Time           `json:"createdAt"`
	LastModified       *time.Time          `json:"updatedAt"`
}

func productKey(productID int) string {
	return strconv.Itoa(productID)
}
