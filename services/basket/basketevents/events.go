package basketevents

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicName            = "basket"
	basketCreated        = TopicName + ".created"
	basketItemsAdded     = TopicName + ".items.added"
	basketItemRemoved    = TopicName + ".item.removed"
	basketDiscountSet    = TopicName + ".discount.applied"
	basketDiscountClear  = TopicName + ".discount.cleared"
	basketShippingChosen = TopicName + ".shipping.selected"
	basketCleared        = TopicName + ".cleared"
)

type BasketCreated struct {
	SessionID string
	BasketUID string
	Timestamp time.Time
}

func (e BasketCreated) GetEventTypeName() string {
	return basketCreated
}

func (e BasketCreated) GetAggregateName() string {
	return e.SessionID
}

type AddedItem struct {
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
}

type ItemsAdded struct {
	SessionID string
	Items     []AddedItem
	Timestamp time.Time
}

func (e ItemsAdded) GetEventTypeName() string {
	return basketItemsAdded
}

func (e ItemsAdded) GetAggregateName() string {
	return e.SessionID
}

type ItemRemoved struct {
	SessionID         string
	ProductID         int
	QuantityRemoved   int
	QuantityRemaining int
	Timestamp         time.Time
}

func (e ItemRemoved) GetEventTypeName() string {
	return basketItemRemoved
}

func (e ItemRemoved) GetAggregateName() string {
	return e.SessionID
}

type DiscountApplied struct {
	SessionID          string
	DiscountCode       string
	DiscountPercentage decimal.Decimal
	Timestamp          time.Time
}

func (e DiscountApplied) GetEventTypeName() string {
	return basketDiscountSet
}

func (e DiscountApplied) GetAggregateName() string {
	return e.SessionID
}

type DiscountCleared struct {
	SessionID string
	Timestamp time.Time
}

func (e DiscountCleared) GetEventTypeName() string {
	return basketDiscountClear
}

func (e DiscountCleared) GetAggregateName() string {
	return e.SessionID
}

type ShippingSelected struct {
	SessionID    string
	Country      string
	ShippingCost decimal.Decimal
	Timestamp    time.Time
}

func (e ShippingSelected) GetEventTypeName() string {
	return basketShippingChosen
}

func (e ShippingSelected) GetAggregateName() string {
	return e.SessionID
}

type BasketCleared struct {
	SessionID string
	BasketUID string
	Timestamp time.Time
}

func (e BasketCleared) GetEventTypeName() string {
	return basketCleared
}

func (e BasketCleared) GetAggregateName() string {
	return e.SessionID
}
