package catalog

import (
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/shopspring/decimal"
)

// productRecord is the persisted shape of a Product: datastore has no decimal type
type productRecord struct {
	ID                 int
	Name               string
	Description        string `datastore:",noindex"`
	Category           string
	Price              string `datastore:",noindex"`
	IsActive           bool
	IsDiscounted       bool
	DiscountPercentage string `datastore:",noindex"`
	CreatedAt          time.Time
	LastModified       time.Time
}

func (p *Product) Load(props []datastore.Property) error {
	rec := productRecord{}
	err := datastore.LoadStruct(&rec, props)
	if err != nil {
		return err
	}

	price, err := decimal.NewFromString(rec.Price)
	if err != nil {
		return fmt.Errorf("error parsing price of product %d: %s", rec.ID, err)
	}
	discount := decimal.NullDecimal{}
	if rec.DiscountPercentage != "" {
		discount.Decimal, err = decimal.NewFromString(rec.DiscountPercentage)
		if err != nil {
			return fmt.Errorf("error parsing discount of product %d: %s", rec.ID, err)
		}
		discount.Valid = true
	}

	*p = Product{
		ID:                 rec.ID,
		Name:               rec.Name,
		Description:        rec.Description,
		Category:           rec.Category,
		Price:              price,
		IsActive:           rec.IsActive,
		IsDiscounted:       rec.IsDiscounted,
		DiscountPercentage: discount,
		CreatedAt:          rec.CreatedAt,
	}
	if !rec.LastModified.IsZero() {
		p.LastModified = &rec.LastModified
	}
	return nil
}

func (p *Product) Save() ([]datastore.Property, error) {
	rec := productRecord{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price.String(),
		IsActive:     p.IsActive,
		IsDiscounted: p.IsDiscounted,
		CreatedAt:    p.CreatedAt,
	}
	if p.LastModified != nil {
		rec.LastModified = *p.LastModified
	}
	if p.DiscountPercentage.Valid {
		rec.DiscountPercentage = p.DiscountPercentage.Decimal.String()
	}
	return datastore.SaveStruct(&rec)
}
