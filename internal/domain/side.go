package domain

import "fmt"

// PositionSide is the side a held position is on.
type PositionSide string

const (
	Long  PositionSide = "long"
	Short PositionSide = "short"
)

// OrderSide is the exchange-level side of an order submission.
// Distinct from PositionSide: closing a long is a sell order.
type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// SideFromDirection maps a signal direction token ("BUY"/"SELL") to the
// position side the signal wants the bot to hold.
func SideFromDirection(direction string) (PositionSide, error) {
	switch direction {
	case "BUY":
		return Long, nil
	case "SELL":
		return Short, nil
	default:
		return "", fmt.Errorf("unknown signal direction %q", direction)
	}
}

// OpenSide returns the exchange order side that opens the given position side.
func (s PositionSide) OpenSide() OrderSide {
	if s == Long {
		return Buy
	}
	return Sell
}

// CloseSide returns the exchange order side that closes the given position
// side: selling flattens a long, buying flattens a short.
func (s PositionSide) CloseSide() OrderSide {
	if s == Long {
		return Sell
	}
	return Buy
}

// Valid reports whether the side is one of the two known values. Rows read
// back from storage pass through this before the engine trusts them.
func (s PositionSide) Valid() bool {
	return s == Long || s == Short
}
