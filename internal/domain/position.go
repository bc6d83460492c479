package domain

import "github.com/shopspring/decimal"

// Position is the durable record of the side the bot last told the exchange
// to take for one symbol. At most one record exists per symbol; absence
// means flat. It is the sole state the reversal engine trusts; it is never
// reconciled against exchange-side position data.
type Position struct {
	Symbol       string
	Side         PositionSide
	EntryPrice   decimal.Decimal
	Amount       string // base-asset quantity, exact 8-decimal string
	LastSignalID string
}

// IsLong checks if the position is long.
func (p *Position) IsLong() bool {
	return p.Side == Long
}

// IsShort checks if the position is short.
func (p *Position) IsShort() bool {
	return p.Side == Short
}
