package basket

import (
	"github.com/shopspring/decimal"

	"github.com/MarcGrol/shopbasket/services/catalog"
)

var vatRate = decimal.RequireFromString("0.20")

// newPricedView derives all totals of a basket. Lines of products that carry
// their own discount are excluded from the discount-code reduction.
func newPricedView(basket Basket, products map[int]catalog.Product) PricedView {
	view := PricedView{
		ID:                 basket.UID,
		SessionID:          basket.SessionID,
		Items:              make([]LineView, 0, len(basket.Lines)),
		DiscountCode:       basket.DiscountCode,
		DiscountPercentage: basket.DiscountPercentage,
		ShippingCountry:    basket.ShippingCountry,
		ShippingCost:       basket.ShippingCost,
		CreatedAt:          basket.CreatedAt,
		UpdatedAt:          basket.LastModified,
	}

	subtotal := decimal.Zero
	discountable := decimal.Zero
	for _, line := range basket.Lines {
		product := products[line.ProductID]
		lineTotal := line.Total()

		view.Items = append(view.Items, LineView{
			ID:                        line.UID,
			ProductID:                 line.ProductID,
			ProductName:               product.Name,
			Quantity:                  line.Quantity,
			UnitPrice:                 line.UnitPrice,
			TotalPrice:                lineTotal,
			IsDiscounted:              product.IsDiscounted,
			ProductDiscountPercentage: product.DiscountPercentage,
		})

		subtotal = subtotal.Add(lineTotal)
		if !product.IsDiscounted {
			discountable = discountable.Add(lineTotal)
		}
	}

	view.Subtotal = subtotal
	view.DiscountAmount = decimal.Zero
	if basket.DiscountPercentage.Valid {
		// percent to fraction without division
		view.DiscountAmount = discountable.Mul(basket.DiscountPercentage.Decimal.Shift(-2))
	}
	view.TotalWithoutVat = subtotal.Sub(view.DiscountAmount).Add(basket.ShippingCost)
	view.VatAmount = view.TotalWithoutVat.Mul(vatRate)
	view.TotalWithVat = view.TotalWithoutVat.Add(view.VatAmount)

	return view
}
