package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// amountPrecision is the fixed number of decimals CoinEx accepts for futures
// order amounts. The amount is kept as an exact string from here on so no
// binary float drift can creep in before submission.
const amountPrecision = 8

// SizeOrder converts a fixed quote-currency notional into a base-asset
// quantity at the given entry price, rendered at fixed 8-decimal precision.
func SizeOrder(notional float64, entryPrice decimal.Decimal) (string, error) {
	if !entryPrice.IsPositive() {
		return "", errors.New("entry price must be positive")
	}
	n := decimal.NewFromFloat(notional)
	if !n.IsPositive() {
		return "", errors.New("order notional must be positive")
	}
	return n.Div(entryPrice).StringFixed(amountPrecision), nil
}
