package basket

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Basket is stored under its session id, so a session never has more than one
type Basket struct {
	UID                string
	SessionID          string
	DiscountCode       *string
	DiscountPercentage decimal.NullDecimal
	ShippingCountry    *string
	ShippingCost       decimal.Decimal
	Lines              []BasketLine
	CreatedAt          time.Time
	LastModified       *time.Time
}

type BasketLine struct {
	UID          string
	ProductID    int
	Quantity     int
	UnitPrice    decimal.Decimal
	CreatedAt    time.Time
	LastModified *time.Time
}

func (l BasketLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func newBasket(uid string, sessionID string, createdAt time.Time) Basket {
	return Basket{
		UID:          uid,
		SessionID:    sessionID,
		ShippingCost: decimal.Zero,
		Lines:        []BasketLine{},
		CreatedAt:    createdAt,
	}
}

// detach makes sure edits never reach the stored copy before it is written back
func (b Basket) detach() Basket {
	b.Lines = slices.Clone(b.Lines)
	if b.Lines == nil {
		b.Lines = []BasketLine{}
	}
	return b
}

func (b Basket) findLine(productID int) int {
	return slices.IndexFunc(b.Lines, func(l BasketLine) bool {
		return l.ProductID == productID
	})
}

func (b Basket) quantityOf(productID int) int {
	idx := b.findLine(productID)
	if idx < 0 {
		return 0
	}
	return b.Lines[idx].Quantity
}

// addQuantity accumulates onto an existing line; only a new line snapshots unitPrice.
// It returns the resulting line.
func (b *Basket) addQuantity(newLineUID func() string, productID int, quantity int, unitPrice decimal.Decimal, now time.Time) BasketLine {
	b.LastModified = &now

	idx := b.findLine(productID)
	if idx >= 0 {
		b.Lines[idx].Quantity += quantity
		b.Lines[idx].LastModified = &now
		return b.Lines[idx]
	}

	line := BasketLine{
		UID:       newLineUID(),
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
	}
	b.Lines = append(b.Lines, line)
	return line
}

// removeQuantity deletes the line when quantity is absent or covers all of it;
// it returns what is left of the line.
func (b *Basket) removeQuantity(idx int, quantity *int, now time.Time) int {
	if quantity == nil || *quantity >= b.Lines[idx].Quantity {
		b.Lines = slices.Delete(b.Lines, idx, idx+1)
		b.LastModified = &now
		return 0
	}

	b.Lines[idx].Quantity -= *quantity
	b.Lines[idx].LastModified = &now
	b.LastModified = &now
	return b.Lines[idx].Quantity
}
