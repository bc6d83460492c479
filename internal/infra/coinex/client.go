package coinex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Matincrypto/coinex-trade/internal/domain"
)

const (
	// DefaultBaseURL is the CoinEx V2 REST endpoint.
	DefaultBaseURL = "https://api.coinex.com/v2"

	adjustLeveragePath = "/futures/adjust-position-leverage"
	putLimitOrderPath  = "/futures/put-limit-order"

	marketTypeFutures = "FUTURES"
	effectTypeNormal  = "normal"
)

// Client submits authenticated order and leverage requests to the CoinEx
// futures REST API. Every call is one POST with no retry; the caller decides
// what a failure means.
type Client struct {
	httpClient *http.Client
	baseURL    string
	signer     *Signer
	log        zerolog.Logger
}

// NewClient creates a new CoinEx REST client.
func NewClient(baseURL, accessID, secretKey string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		signer:     NewSigner(accessID, secretKey),
		log:        log,
	}
}

// AdjustLeverage sets leverage and margin mode for a futures market. Called
// once at startup; the exchange treats repeated calls idempotently.
func (c *Client) AdjustLeverage(ctx context.Context, market, marginMode string, leverage int) error {
	c.log.Info().Str("market", market).Str("margin_mode", marginMode).Int("leverage", leverage).
		Msg("adjusting leverage")

	body := adjustLeverageRequest{
		Market:     market,
		MarketType: marketTypeFutures,
		MarginMode: marginMode,
		Leverage:   leverage,
	}
	if _, err := c.post(ctx, adjustLeveragePath, body); err != nil {
		return fmt.Errorf("adjust leverage: %w", err)
	}
	return nil
}

// PlaceLimitOrder submits a futures limit order. amount and price are exact
// decimal strings; side is the exchange-level buy/sell.
func (c *Client) PlaceLimitOrder(ctx context.Context, market string, side domain.OrderSide, amount, price string) (*OrderResult, error) {
	c.log.Info().Str("market", market).Str("side", string(side)).
		Str("amount", amount).Str("price", price).Msg("submitting limit order")

	body := putLimitOrderRequest{
		Market:     market,
		MarketType: marketTypeFutures,
		Side:       string(side),
		Amount:     amount,
		Price:      price,
		EffectType: effectTypeNormal,
		ClientID:   uuid.NewString(),
	}
	data, err := c.post(ctx, putLimitOrderPath, body)
	if err != nil {
		return nil, fmt.Errorf("put limit order: %w", err)
	}

	var result OrderResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode order result: %w", err)
	}
	return &result, nil
}

// CloseLimitOrder flattens an open position with a limit order on the
// opposite exchange side: a long is closed by selling, a short by buying.
func (c *Client) CloseLimitOrder(ctx context.Context, market string, sideToClose domain.PositionSide, amount, price string) (*OrderResult, error) {
	closeSide := sideToClose.CloseSide()
	c.log.Info().Str("market", market).Str("position_side", string(sideToClose)).
		Str("order_side", string(closeSide)).Msg("closing position")

	return c.PlaceLimitOrder(ctx, market, closeSide, amount, price)
}

// post sends one signed JSON POST and unwraps the response envelope. A
// non-2xx status or transport failure comes back as a plain error; a
// non-zero envelope code comes back as *APIError.
func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, value := range c.signer.GenerateHeaders(http.MethodPost, path, string(payload)) {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Code != 0 {
		return nil, &APIError{Code: envelope.Code, Message: envelope.Message}
	}
	return envelope.Data, nil
}
