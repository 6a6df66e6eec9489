package basket

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/MarcGrol/shopbasket/lib/myevents"
	"github.com/MarcGrol/shopbasket/lib/mylog"
	"github.com/MarcGrol/shopbasket/lib/mystore"
	"github.com/MarcGrol/shopbasket/lib/mytime"
	"github.com/MarcGrol/shopbasket/services/catalog"
)

type fixedNower struct{}

func (n fixedNower) Now() time.Time {
	return mytime.ExampleTime
}

type counterUUIDer struct {
	count int
}

func (u *counterUUIDer) Create() string {
	u.count++
	return fmt.Sprintf("uid-%d", u.count)
}

type recordingPublisher struct {
	events []myevents.Event
}

func (p *recordingPublisher) CreateTopic(c context.Context, topicName string) error {
	return nil
}

func (p *recordingPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	p.events = append(p.events, event)
	return nil
}

type basketTestContext struct {
	c           context.Context
	basketStore mystore.Store[Basket]
	service     *service
	sessionID   string
	view        PricedView
	err         error
}

func (tc *basketTestContext) aCatalogWithTheTestProducts() error {
	tc.c = context.TODO()

	productStore, _, err := mystore.New[catalog.Product](tc.c)
	if err != nil {
		return err
	}
	catalogService := catalog.NewService(productStore, fixedNower{})
	_, err = catalogService.Seed(tc.c, testProducts())
	if err != nil {
		return err
	}

	tc.basketStore, _, err = mystore.New[Basket](tc.c)
	if err != nil {
		return err
	}
	tc.service = newService(tc.basketStore, catalogService, fixedNower{}, &counterUUIDer{}, mylog.New("basket"), &recordingPublisher{})
	return nil
}

func (tc *basketTestContext) theSession(sessionID string) error {
	tc.sessionID = sessionID
	return nil
}

func (tc *basketTestContext) record(view PricedView, err error) error {
	tc.err = err
	if err == nil {
		tc.view = view
	}
	return nil
}

func (tc *basketTestContext) iAddOfProduct(quantity int, productID int) error {
	return tc.record(tc.service.addItem(tc.c, tc.sessionID, productID, quantity))
}

func (tc *basketTestContext) iAddTheItems(table *godog.Table) error {
	items := []lineItem{}
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		productID, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		items = append(items, lineItem{ProductID: productID, Quantity: quantity})
	}
	return tc.record(tc.service.addMultipleItems(tc.c, tc.sessionID, items))
}

func (tc *basketTestContext) iRemoveOfProduct(quantity int, productID int) error {
	return tc.record(tc.service.removeItem(tc.c, tc.sessionID, productID, &quantity))
}

func (tc *basketTestContext) iRemoveProduct(productID int) error {
	return tc.record(tc.service.removeItem(tc.c, tc.sessionID, productID, nil))
}

func (tc *basketTestContext) iApplyDiscountCode(code string) error {
	return tc.record(tc.service.setDiscountCode(tc.c, tc.sessionID, code))
}

func (tc *basketTestContext) iClearTheDiscountCode() error {
	return tc.record(tc.service.clearDiscountCode(tc.c, tc.sessionID))
}

func (tc *basketTestContext) iShipTo(country string) error {
	return tc.record(tc.service.setShipping(tc.c, tc.sessionID, country))
}

func (tc *basketTestContext) iClearTheBasket() error {
	return tc.record(tc.service.clearBasket(tc.c, tc.sessionID))
}

func (tc *basketTestContext) theAmountIs(field string, expected string) error {
	if tc.err != nil {
		return fmt.Errorf("unexpected error: %s", tc.err)
	}

	amounts := map[string]decimal.Decimal{
		"subtotal":          tc.view.Subtotal,
		"discount amount":   tc.view.DiscountAmount,
		"shipping cost":     tc.view.ShippingCost,
		"total without VAT": tc.view.TotalWithoutVat,
		"VAT amount":        tc.view.VatAmount,
		"total with VAT":    tc.view.TotalWithVat,
	}
	actual, found := amounts[field]
	if !found {
		return fmt.Errorf("unknown amount '%s'", field)
	}
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !want.Equal(actual) {
		return fmt.Errorf("%s: expected %s, got %s", field, want, actual)
	}
	return nil
}

func (tc *basketTestContext) theBasketHasLines(count int) error {
	if tc.err != nil {
		return fmt.Errorf("unexpected error: %s", tc.err)
	}
	if len(tc.view.Items) != count {
		return fmt.Errorf("expected %d lines, got %d", count, len(tc.view.Items))
	}
	return nil
}

func (tc *basketTestContext) productHasQuantity(productID int, quantity int) error {
	for _, item := range tc.view.Items {
		if item.ProductID == productID {
			if item.Quantity != quantity {
				return fmt.Errorf("product %d: expected quantity %d, got %d", productID, quantity, item.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("product %d not in basket", productID)
}

func (tc *basketTestContext) theOperationFailsWith(condition string) error {
	sentinels := map[string]error{
		"product ineligible":    ErrProductIneligible,
		"basket not found":      ErrBasketNotFound,
		"item not found":        ErrItemNotFound,
		"invalid discount code": ErrInvalidDiscountCode,
	}
	sentinel, found := sentinels[condition]
	if !found {
		return fmt.Errorf("unknown condition '%s'", condition)
	}
	if !errors.Is(tc.err, sentinel) {
		return fmt.Errorf("expected %s, got %v", condition, tc.err)
	}
	return nil
}

func (tc *basketTestContext) noBasketIsStored() error {
	_, found, err := tc.basketStore.Get(tc.c, tc.sessionID)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("basket of session %s still stored", tc.sessionID)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &basketTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*tc = basketTestContext{}
		return ctx, nil
	})

	ctx.Step(`^a catalog with the test products$`, tc.aCatalogWithTheTestProducts)
	ctx.Step(`^the session "([^"]*)"$`, tc.theSession)

	ctx.Step(`^I add (\d+) of product (\d+)$`, tc.iAddOfProduct)
	ctx.Step(`^I add the items:$`, tc.iAddTheItems)
	ctx.Step(`^I remove (\d+) of product (\d+)$`, tc.iRemoveOfProduct)
	ctx.Step(`^I remove product (\d+)$`, tc.iRemoveProduct)
	ctx.Step(`^I apply discount code "([^"]*)"$`, tc.iApplyDiscountCode)
	ctx.Step(`^I clear the discount code$`, tc.iClearTheDiscountCode)
	ctx.Step(`^I ship to "([^"]*)"$`, tc.iShipTo)
	ctx.Step(`^I clear the basket$`, tc.iClearTheBasket)

	ctx.Step(`^the (subtotal|discount amount|shipping cost|total without VAT|VAT amount|total with VAT) is "([^"]*)"$`, tc.theAmountIs)
	ctx.Step(`^the basket has (\d+) lines?$`, tc.theBasketHasLines)
	ctx.Step(`^product (\d+) has quantity (\d+)$`, tc.productHasQuantity)
	ctx.Step(`^the operation fails with "([^"]*)"$`, tc.theOperationFailsWith)
	ctx.Step(`^no basket is stored$`, tc.noBasketIsStored)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
