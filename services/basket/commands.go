package basket

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/shopbasket/lib/myerrors"
	"github.com/MarcGrol/shopbasket/lib/myevents"
	"github.com/MarcGrol/shopbasket/lib/mylog"
	"github.com/MarcGrol/shopbasket/services/basket/basketevents"
	"github.com/MarcGrol/shopbasket/services/catalog"
)

type lineItem struct {
	ProductID int
	Quantity  int
}

func (s *service) getOrCreateBasket(c context.Context, sessionID string) (Basket, error) {
	return s.modifyBasket(c, sessionID, true, nil)
}

func (s *service) getPricedView(c context.Context, sessionID string) (PricedView, error) {
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Get priced view of basket of session %s", sessionID)

	basket, err := s.getOrCreateBasket(c, sessionID)
	if err != nil {
		return PricedView{}, err
	}

	return s.priceBasket(c, basket)
}

func (s *service) addItem(c context.Context, sessionID string, productID int, quantity int) (PricedView, error) {
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Add %d x product %d to basket of session %s", quantity, productID, sessionID)

	return s.addItems(c, sessionID, []lineItem{{ProductID: productID, Quantity: quantity}})
}

func (s *service) addMultipleItems(c context.Context, sessionID string, items []lineItem) (PricedView, error) {
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Add %d items to basket of session %s", len(items), sessionID)

	return s.addItems(c, sessionID, items)
}

// addItems applies all items or none: every product is resolved before the basket is touched
func (s *service) addItems(c context.Context, sessionID string, items []lineItem) (PricedView, error) {
	if len(items) == 0 {
		return PricedView{}, myerrors.NewInvalidInputErrorf("at least one item is required")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return PricedView{}, myerrors.NewInvalidInputErrorf("quantity of product %d must be at least 1, got %d", item.ProductID, item.Quantity)
		}
	}

	products, err := s.resolveProducts(c, sessionID, items)
	if err != nil {
		return PricedView{}, err
	}

	basket, err := s.modifyBasket(c, sessionID, true, func(c context.Context, basket *Basket, now time.Time) error {
		err := checkQuantities(*basket, items)
		if err != nil {
			return err
		}

		added := make([]basketevents.AddedItem, 0, len(items))
		for _, item := range items {
			line := basket.addQuantity(s.uuider.Create, item.ProductID, item.Quantity, products[item.ProductID].Price, now)
			added = append(added, basketevents.AddedItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}

		return s.publish(c, basketevents.ItemsAdded{
			SessionID: sessionID,
			Items:     added,
			Timestamp: now,
		})
	})
	if err != nil {
		return PricedView{}, err
	}

	return s.priceBasket(c, basket)
}

// checkQuantities rejects a batch that would push any line beyond math.MaxInt
func checkQuantities(basket Basket, items []lineItem) error {
	pending := map[int]int{}
	for _, item := range items {
		current, found := pending[item.ProductID]
		if !found {
			current = basket.quantityOf(item.ProductID)
		}
		if current > math.MaxInt-item.Quantity {
			return myerrors.NewInvalidInputErrorf("quantity of product %d would exceed %d", item.ProductID, math.MaxInt)
		}
		pending[item.ProductID] = current + item.Quantity
	}
	return nil
}

func (s *service) resolveProducts(c context.Context, sessionID string, items []lineItem) (map[int]catalog.Product, error) {
	products := map[int]catalog.Product{}
	for _, item := range items {
		if _, found := products[item.ProductID]; found {
			continue
		}

		product, err := s.catalog.ResolveActiveProduct(c, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, catalog.ErrProductInactive) {
				s.logger.Log(c, sessionID, mylog.SeverityWarn, "Product %d rejected: %s", item.ProductID, err)
				return nil, myerrors.NewInvalidInputErrorf("%w: %d", ErrProductIneligible, item.ProductID)
			}
			return nil, err
		}
		products[item.ProductID] = product
	}
	return products, nil
}

func (s *service) removeItem(c context.Context, sessionID string, productID int, quantity *int) (PricedView, error) {
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Remove product %d from basket of session %s", productID, sessionID)

	if quantity != nil && *quantity < 1 {
		return PricedView{}, myerrors.NewInvalidInputErrorf("quantity to remove must be at least 1, got %d", *quantity)
	}

	basket, err := s.modifyBasket(c, sessionID, false, func(c context.Context, basket *Basket, now time.Time) error {
		idx := basket.findLine(productID)
		if idx < 0 {
			return myerrors.NewNotFoundError(fmt.Errorf("%w: product %d", ErrItemNotFound, productID))
		}

		before := basket.Lines[idx].Quantity
		remaining := basket.removeQuantity(idx, quantity, now)

		return s.publish(c, basketevents.ItemRemoved{
			SessionID:         sessionID,
			ProductID:         productID,
			QuantityRemoved:   before - remaining,
			QuantityRemaining: remaining,
			Timestamp:         now,
		})
	})
	if err != nil {
		return PricedView{}, err
	}

	return s.priceBasket(c, basket)
}

func (s *service) setDiscountCode(c context.Context, sessionID string, code string) (PricedView, error) {
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Apply discount code '%s' to basket of session %s", code, sessionID)

	percentage, found := lookupDiscountCode(code)
	if !found {
		return PricedView{}, myerrors.NewInvalidInputErrorf("%w: '%s'", ErrInvalidDiscountCode, code)
	}

	basket, err := s.modifyBasket(c, sessionID, true, func(c context.Context, basket *Basket, now time.Time) error {
		basket.DiscountCode = &code
		basket.DiscountPercentage = decimal.NewNullDecimal(percentage)
		basket.LastModified = &now

		return s.publish(c, basketevents.DiscountApplied{
			SessionID:          sessionID,
			DiscountCode:       code,
			DiscountPercentage: percentage,
			Timestamp:          now,
		})
	})
	if err != nil {
		return PricedView{}, err
	}

	return s.priceBasket(c, basket)
}

func (s *service) clearDiscountCode(c context.Context, sessionID string) (PricedView, error) {
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Clear discount code of basket of session %s", sessionID)

	basket, err := s.modifyBasket(c, sessionID, false, func(c context.Context, basket *Basket, now time.Time) error {
		basket.DiscountCode = nil
		basket.DiscountPercentage = decimal.NullDecimal{}
		basket.LastModified = &now

		return s.publish(c, basketevents.DiscountCleared{
			SessionID: sessionID,
			Timestamp: now,
		})
	})
	if err != nil {
		return PricedView{}, err
	}

	return s.priceBasket(c, basket)
}

func (s *service) setShipping(c context.Context, sessionID string, country string) (PricedView, error) {
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Ship basket of session %s to '%s'", sessionID, country)

	if country == "" {
		return PricedView{}, myerrors.NewInvalidInputErrorf("missing country")
	}

	basket, err := s.modifyBasket(c, sessionID, true, func(c context.Context, basket *Basket, now time.Time) error {
		basket.ShippingCountry = &country
		basket.ShippingCost = shippingCostFor(country)
		basket.LastModified = &now

		return s.publish(c, basketevents.ShippingSelected{
			SessionID:    sessionID,
			Country:      country,
			ShippingCost: basket.ShippingCost,
			Timestamp:    now,
		})
	})
	if err != nil {
		return PricedView{}, err
	}

	return s.priceBasket(c, basket)
}

// clearBasket really deletes: the returned view does not belong to any stored basket
func (s *service) clearBasket(c context.Context, sessionID string) (PricedView, error) {
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Clear basket of session %s", sessionID)

	if sessionID == "" {
		return PricedView{}, myerrors.NewInvalidInputErrorf("missing session id")
	}

	now := s.nower.Now()

	err := s.basketStore.RunInTransaction(c, func(c context.Context) error {
		basket, found, err := s.basketStore.Get(c, sessionID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("%w: session %s", ErrBasketNotFound, sessionID))
		}

		err = s.basketStore.Delete(c, sessionID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return s.publish(c, basketevents.BasketCleared{
			SessionID: sessionID,
			BasketUID: basket.UID,
			Timestamp: now,
		})
	})
	if err != nil {
		return PricedView{}, err
	}

	return emptyView(sessionID, now), nil
}

// modifyBasket runs modify on the basket of the session and stores the result, all in one transaction.
// Without modify the basket is only fetched (and created when allowed).
func (s *service) modifyBasket(c context.Context, sessionID string, createIfAbsent bool, modify func(c context.Context, basket *Basket, now time.Time) error) (Basket, error) {
	if sessionID == "" {
		return Basket{}, myerrors.NewInvalidInputErrorf("missing session id")
	}

	now := s.nower.Now()

	var basket Basket
	err := s.basketStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		basket, err = s.loadBasket(c, sessionID, createIfAbsent, now)
		if err != nil {
			return err
		}

		if modify == nil {
			return nil
		}

		err = modify(c, &basket, now)
		if err != nil {
			return err
		}

		err = s.basketStore.Put(c, sessionID, basket)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return Basket{}, err
	}

	return basket, nil
}

func (s *service) loadBasket(c context.Context, sessionID string, createIfAbsent bool, now time.Time) (Basket, error) {
	basket, found, err := s.basketStore.Get(c, sessionID)
	if err != nil {
		return Basket{}, myerrors.NewInternalError(err)
	}
	if found {
		return basket.detach(), nil
	}
	if !createIfAbsent {
		return Basket{}, myerrors.NewNotFoundError(fmt.Errorf("%w: session %s", ErrBasketNotFound, sessionID))
	}

	basket = newBasket(s.uuider.Create(), sessionID, now)
	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Creating basket %s for session %s", basket.UID, sessionID)

	err = s.basketStore.Put(c, sessionID, basket)
	if err != nil {
		return Basket{}, myerrors.NewInternalError(err)
	}

	err = s.publish(c, basketevents.BasketCreated{
		SessionID: sessionID,
		BasketUID: basket.UID,
		Timestamp: now,
	})
	if err != nil {
		return Basket{}, err
	}

	return basket.detach(), nil
}

func (s *service) publish(c context.Context, event myevents.Event) error {
	err := s.publisher.Publish(c, basketevents.TopicName, event)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error publishing %s: %s", event.GetEventTypeName(), err))
	}
	return nil
}

// priceBasket looks up the current catalog data of every line
func (s *service) priceBasket(c context.Context, basket Basket) (PricedView, error) {
	products := map[int]catalog.Product{}
	for _, line := range basket.Lines {
		if _, found := products[line.ProductID]; found {
			continue
		}

		product, found, err := s.catalog.GetProduct(c, line.ProductID)
		if err != nil {
			return PricedView{}, err
		}
		if !found {
			return PricedView{}, myerrors.NewInternalError(fmt.Errorf("product %d of basket %s no longer in catalog", line.ProductID, basket.UID))
		}
		products[line.ProductID] = product
	}

	return newPricedView(basket, products), nil
}
