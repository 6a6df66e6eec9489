package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shopbasket/lib/myerrors"
	"github.com/MarcGrol/shopbasket/lib/mystore"
	"github.com/MarcGrol/shopbasket/lib/mytime"
)

var (
	laptop   = Product{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99"), IsActive: true}
	mouse    = Product{ID: 2, Name: "Mouse", Price: decimal.RequireFromString("25.50"), IsActive: true}
	keyboard = Product{ID: 3, Name: "Keyboard", Price: decimal.RequireFromString("75.00"), IsActive: true}
	inactive = Product{ID: 5, Name: "Inactive Product", Price: decimal.RequireFromString("50.00"), IsActive: false}
)

func TestCatalogService(t *testing.T) {
	t.Run("Resolve active product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, store, service := setupService(t, ctrl)

		// given
		assert.NoError(t, store.Put(c, "1", laptop))

		// when
		product, err := service.ResolveActiveProduct(c, 1)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "Laptop", product.Name)
		assert.True(t, decimal.RequireFromString("999.99").Equal(product.Price))
	})

	t.Run("Resolve unknown product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, _, service := setupService(t, ctrl)

		// when
		_, err := service.ResolveActiveProduct(c, 999)

		// then
		assert.True(t, errors.Is(err, ErrProductNotFound))
		assert.Equal(t, 404, myerrors.GetHTTPStatus(err))
	})

	t.Run("Resolve inactive product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, store, service := setupService(t, ctrl)

		// given
		assert.NoError(t, store.Put(c, "5", inactive))

		// when
		_, err := service.ResolveActiveProduct(c, 5)

		// then
		assert.True(t, errors.Is(err, ErrProductInactive))
		assert.Equal(t, 400, myerrors.GetHTTPStatus(err))
	})

	t.Run("Get inactive product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, store, service := setupService(t, ctrl)

		// given
		assert.NoError(t, store.Put(c, "5", inactive))

		// when
		product, found, err := service.GetProduct(c, 5)

		// then
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Inactive Product", product.Name)
	})

	t.Run("List active products by name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, store, service := setupService(t, ctrl)

		// given
		for _, p := range []Product{laptop, mouse, keyboard, inactive} {
			assert.NoError(t, store.Put(c, productKey(p.ID), p))
		}

		// when
		products, err := service.ListActiveProducts(c)

		// then
		assert.NoError(t, err)
		names := []string{}
		for _, p := range products {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"Keyboard", "Laptop", "Mouse"}, names)
	})

	t.Run("Seed empty catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, store, service := setupService(t, ctrl)

		// when
		count, err := service.Seed(c, DefaultProducts())

		// then
		assert.NoError(t, err)
		assert.Equal(t, 7, count)
		tshirt, found, err := store.Get(c, "6")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Discounted T-Shirt", tshirt.Name)
		assert.True(t, tshirt.IsDiscounted)
		assert.True(t, decimal.NewFromInt(15).Equal(tshirt.DiscountPercentage.Decimal))
		assert.Equal(t, mytime.ExampleTime, tshirt.CreatedAt)
	})

	t.Run("Seed populated catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, store, service := setupService(t, ctrl)

		// given
		assert.NoError(t, store.Put(c, "2", mouse))

		// when
		count, err := service.Seed(c, DefaultProducts())

		// then
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func setupService(t *testing.T, ctrl *gomock.Controller) (context.Context, mystore.Store[Product], *Service) {
	c := context.TODO()

	store, _, err := mystore.New[Product](c)
	assert.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	return c, store, NewService(store, nower)
}
