package domain

import (
	"github.com/shopspring/decimal"
)

// Signal is one inbound trade instruction from the signal API. It is
// consumed once and never persisted; only its id survives, on the position
// record it produces.
type Signal struct {
	Symbol     string          `json:"symbol"`
	SignalID   string          `json:"signal_id"`
	SignalSide string          `json:"signal_side"` // "BUY" or "SELL"
	EntryPrice decimal.Decimal `json:"entry_price"`
}

// HasValidPrice reports whether the advisory entry price can be used for
// sizing and as a limit price. A missing price unmarshals as zero and is
// rejected along with negatives.
func (s Signal) HasValidPrice() bool {
	return s.EntryPrice.IsPositive()
}

// LimitPrice renders the entry price as the exchange limit-price string,
// with no rounding beyond the natural decimal expansion.
func (s Signal) LimitPrice() string {
	return s.EntryPrice.String()
}
