package coinex

import (
	"encoding/json"
	"fmt"
)

// apiResponse is the envelope every CoinEx V2 endpoint answers with.
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is an application-level rejection: the exchange answered the
// request but refused it with a non-zero status code. Transport problems are
// reported as plain wrapped errors instead, so callers can tell the two
// apart with errors.As.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coinex api error %d: %s", e.Code, e.Message)
}

// adjustLeverageRequest is the body of /futures/adjust-position-leverage.
type adjustLeverageRequest struct {
	Market     string `json:"market"`
	MarketType string `json:"market_type"`
	MarginMode string `json:"margin_mode"`
	Leverage   int    `json:"leverage"`
}

// putLimitOrderRequest is the body of /futures/put-limit-order.
type putLimitOrderRequest struct {
	Market     string `json:"market"`
	MarketType string `json:"market_type"`
	Side       string `json:"side"`
	Amount     string `json:"amount"`
	Price      string `json:"price"`
	EffectType string `json:"effect_type"`
	ClientID   string `json:"client_id,omitempty"`
}

// OrderResult carries the fields of a successfully placed order the bot
// cares about; the exchange returns more, which is ignored.
type OrderResult struct {
	OrderID  int64  `json:"order_id"`
	ClientID string `json:"client_id"`
	Market   string `json:"market"`
	Side     string `json:"side"`
	Amount   string `json:"amount"`
	Price    string `json:"price"`
}
