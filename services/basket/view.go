package basket

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricedView is derived from a basket on every read and never stored
type PricedView struct {
	ID                 string              `json:"id"`
	SessionID          string              `json:"sessionId"`
	Items              []LineView          `json:"items"`
	DiscountCode       *string             `json:"discountCode"`
	DiscountPercentage decimal.NullDecimal `json:"discountPercentage"`
	ShippingCountry    *string             `json:"shippingCountry"`
	ShippingCost       decimal.Decimal     `json:"shippingCost"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	DiscountAmount     decimal.Decimal     `json:"discountAmount"`
	TotalWithoutVat    decimal.Decimal     `json:"totalWithoutVat"`
	VatAmount          decimal.Decimal     `json:"vatAmount"`
	TotalWithVat       decimal.Decimal     `json:"totalWithVat"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          *time.Time          `json:"updatedAt"`
}

type LineView struct {
	ID                        string              `json:"id"`
	ProductID                 int                 `json:"productId"`
	ProductName               string              `json:"productName"`
	Quantity                  int                 `json:"quantity"`
	UnitPrice                 decimal.Decimal     `json:"unitPrice"`
	TotalPrice                decimal.Decimal     `json:"totalPrice"`
	IsDiscounted              bool                `json:"isDiscounted"`
	ProductDiscountPercentage decimal.NullDecimal `json:"productDiscountPercentage"`
}

// emptyView stands in for a basket that no longer exists
func emptyView(sessionID string, now time.Time) PricedView {
	return PricedView{
		ID:              "",
		SessionID:       sessionID,
		Items:           []LineView{},
		ShippingCost:    decimal.Zero,
		Subtotal:        decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TotalWithoutVat: decimal.Zero,
		VatAmount:       decimal.Zero,
		TotalWithVat:    decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       &now,
	}
}
