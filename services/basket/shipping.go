package basket

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	domesticShippingCost      = decimal.RequireFromString("5.99")
	internationalShippingCost = decimal.RequireFromString("15.99")
)

func shippingCostFor(country string) decimal.Decimal {
	if strings.EqualFold(country, "UK") {
		return domesticShippingCost
	}
	return internationalShippingCost
}
