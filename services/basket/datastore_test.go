package basket

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/shopbasket/lib/mytime"
)

func TestBasketProperties(t *testing.T) {
	t.Run("Populated basket", func(t *testing.T) {
		code := "save10"
		country := "UK"
		modified := mytime.ExampleTime.Add(time.Minute)
		original := newBasket("b1", "s1", mytime.ExampleTime)
		original.DiscountCode = &code
		original.DiscountPercentage = decimal.NewNullDecimal(dec("10"))
		original.ShippingCountry = &country
		original.ShippingCost = dec("5.99")
		original.LastModified = &modified
		original.Lines = []BasketLine{
			{UID: "l1", ProductID: 1, Quantity: 2, UnitPrice: dec("999.99"), CreatedAt: mytime.ExampleTime},
		}

		props, err := original.Save()
		assert.NoError(t, err)
		loaded := Basket{}
		err = loaded.Load(props)
		assert.NoError(t, err)

		assert.Equal(t, "s1", loaded.SessionID)
		assert.Equal(t, "save10", *loaded.DiscountCode)
		assertDecimal(t, "10", loaded.DiscountPercentage.Decimal, "discountPercentage")
		assert.Equal(t, "UK", *loaded.ShippingCountry)
		assertDecimal(t, "5.99", loaded.ShippingCost, "shippingCost")
		assert.Equal(t, modified, *loaded.LastModified)
		assert.Len(t, loaded.Lines, 1)
		assertDecimal(t, "999.99", loaded.Lines[0].UnitPrice, "unitPrice")
		assert.Nil(t, loaded.Lines[0].LastModified)
	})

	t.Run("Empty basket", func(t *testing.T) {
		original := newBasket("b1", "s1", mytime.ExampleTime)

		props, err := original.Save()
		assert.NoError(t, err)
		loaded := Basket{}
		err = loaded.Load(props)
		assert.NoError(t, err)

		assert.Nil(t, loaded.DiscountCode)
		assert.False(t, loaded.DiscountPercentage.Valid)
		assert.Nil(t, loaded.ShippingCountry)
		assert.Nil(t, loaded.LastModified)
		assert.Empty(t, loaded.Lines)
	})
}
