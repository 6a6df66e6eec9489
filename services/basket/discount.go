package basket

import (
	"strings"

	"github.com/shopspring/decimal"
)

var discountCodes = map[string]int64{
	"SAVE10": 10,
	"SAVE20": 20,
	"SAVE25": 25,
}

func lookupDiscountCode(code string) (decimal.Decimal, bool) {
	percentage, found := discountCodes[strings.ToUpper(code)]
	if !found {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(percentage), true
}
