package basket

import (
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/shopspring/decimal"
)

// basketRecord is the persisted shape of a Basket: datastore has no decimal type
type basketRecord struct {
	UID                string
	SessionID          string
	DiscountCode       string
	DiscountPercentage string `datastore:",noindex"`
	ShippingCountry    string
	HasShipping        bool
	ShippingCost       string `datastore:",noindex"`
	Lines              []lineRecord
	CreatedAt          time.Time
	LastModified       time.Time
}

type lineRecord struct {
	UID          string
	ProductID    int
	Quantity     int
	UnitPrice    string `datastore:",noindex"`
	CreatedAt    time.Time
	LastModified time.Time
}

func (b *Basket) Load(props []datastore.Property) error {
	rec := basketRecord{}
	err := datastore.LoadStruct(&rec, props)
	if err != nil {
		return err
	}

	basket := Basket{
		UID:          rec.UID,
		SessionID:    rec.SessionID,
		Lines:        make([]BasketLine, 0, len(rec.Lines)),
		CreatedAt:    rec.CreatedAt,
		LastModified: optionalTime(rec.LastModified),
	}
	if rec.DiscountCode != "" {
		basket.DiscountCode = &rec.DiscountCode
		percentage, err := decimal.NewFromString(rec.DiscountPercentage)
		if err != nil {
			return fmt.Errorf("error parsing discount of basket %s: %s", rec.UID, err)
		}
		basket.DiscountPercentage = decimal.NewNullDecimal(percentage)
	}
	if rec.HasShipping {
		basket.ShippingCountry = &rec.ShippingCountry
	}
	basket.ShippingCost, err = parseOptionalDecimal(rec.ShippingCost)
	if err != nil {
		return fmt.Errorf("error parsing shipping cost of basket %s: %s", rec.UID, err)
	}

	for _, l := range rec.Lines {
		unitPrice, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return fmt.Errorf("error parsing unit price of line %s: %s", l.UID, err)
		}
		basket.Lines = append(basket.Lines, BasketLine{
			UID:          l.UID,
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			UnitPrice:    unitPrice,
			CreatedAt:    l.CreatedAt,
			LastModified: optionalTime(l.LastModified),
		})
	}

	*b = basket
	return nil
}

func (b *Basket) Save() ([]datastore.Property, error) {
	rec := basketRecord{
		UID:          b.UID,
		SessionID:    b.SessionID,
		ShippingCost: b.ShippingCost.String(),
		Lines:        make([]lineRecord, 0, len(b.Lines)),
		CreatedAt:    b.CreatedAt,
		LastModified: timeOrZero(b.LastModified),
	}
	if b.DiscountCode != nil {
		rec.DiscountCode = *b.DiscountCode
		rec.DiscountPercentage = b.DiscountPercentage.Decimal.String()
	}
	if b.ShippingCountry != nil {
		rec.ShippingCountry = *b.ShippingCountry
		rec.HasShipping = true
	}
	for _, l := range b.Lines {
		rec.Lines = append(rec.Lines, lineRecord{
			UID:          l.UID,
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice.String(),
			CreatedAt:    l.CreatedAt,
			LastModified: timeOrZero(l.LastModified),
		})
	}
	return datastore.SaveStruct(&rec)
}

func parseOptionalDecimal(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
