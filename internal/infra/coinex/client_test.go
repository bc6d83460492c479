package coinex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Matincrypto/coinex-trade/internal/domain"
)

// MockRoundTripper allows us to mock HTTP responses.
type MockRoundTripper struct {
	Func func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Func(req)
}

func newTestClient(rt http.RoundTripper) *Client {
	client := NewClient("https://api.test", "test_access", "test_secret", zerolog.Nop())
	client.httpClient.Transport = rt
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestClient_PlaceLimitOrder(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/futures/put-limit-order" {
				t.Errorf("Unexpected path: %s", req.URL.Path)
			}
			if req.Method != "POST" {
				t.Errorf("Unexpected method: %s", req.Method)
			}
			if req.Header.Get("X-COINEX-API-KEY") != "test_access" {
				t.Errorf("Missing access id header")
			}
			if req.Header.Get("X-COINEX-SIGNATURE") == "" {
				t.Errorf("Missing signature header")
			}

			var body putLimitOrderRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				t.Fatalf("decode request body: %v", err)
			}
			if body.Market != "BTCUSDT" || body.Side != "buy" || body.Amount != "0.00014000" || body.Price != "50000" {
				t.Errorf("Unexpected order body: %+v", body)
			}
			if body.MarketType != "FUTURES" || body.EffectType != "normal" {
				t.Errorf("Unexpected market/effect type: %+v", body)
			}
			if body.ClientID == "" {
				t.Error("Expected a client id on every order")
			}

			return jsonResponse(200, `{"code":0,"message":"OK","data":{"order_id":137,"market":"BTCUSDT","side":"buy"}}`), nil
		},
	})

	result, err := client.PlaceLimitOrder(context.Background(), "BTCUSDT", domain.Buy, "0.00014000", "50000")
	if err != nil {
		t.Fatalf("PlaceLimitOrder failed: %v", err)
	}
	if result.OrderID != 137 {
		t.Errorf("OrderID = %d, want 137", result.OrderID)
	}
}

func TestClient_PlaceLimitOrder_Rejected(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, `{"code":3109,"message":"balance not enough"}`), nil
		},
	})

	_, err := client.PlaceLimitOrder(context.Background(), "BTCUSDT", domain.Buy, "0.00014000", "50000")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != 3109 {
		t.Errorf("Code = %d, want 3109", apiErr.Code)
	}
}

func TestClient_PlaceLimitOrder_TransportFailure(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
	})

	_, err := client.PlaceLimitOrder(context.Background(), "BTCUSDT", domain.Sell, "0.00014000", "50000")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("Transport failure must not surface as *APIError")
	}
}

func TestClient_PlaceLimitOrder_BadStatus(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(503, `upstream unavailable`), nil
		},
	})

	if _, err := client.PlaceLimitOrder(context.Background(), "BTCUSDT", domain.Buy, "1", "1"); err == nil {
		t.Fatal("Expected error for non-2xx status, got nil")
	}
}

func TestClient_CloseLimitOrder_Sides(t *testing.T) {
	tests := []struct {
		name        string
		sideToClose domain.PositionSide
		wantSide    string
	}{
		{"close long sells", domain.Long, "sell"},
		{"close short buys", domain.Short, "buy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSide string
			client := newTestClient(&MockRoundTripper{
				Func: func(req *http.Request) (*http.Response, error) {
					var body putLimitOrderRequest
					if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
						t.Fatalf("decode request body: %v", err)
					}
					gotSide = body.Side
					return jsonResponse(200, `{"code":0,"message":"OK","data":{"order_id":1}}`), nil
				},
			})

			if _, err := client.CloseLimitOrder(context.Background(), "BTCUSDT", tt.sideToClose, "0.00014000", "51000"); err != nil {
				t.Fatalf("CloseLimitOrder failed: %v", err)
			}
			if gotSide != tt.wantSide {
				t.Errorf("order side = %q, want %q", gotSide, tt.wantSide)
			}
		})
	}
}

func TestClient_AdjustLeverage(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/futures/adjust-position-leverage" {
				t.Errorf("Unexpected path: %s", req.URL.Path)
			}
			var body adjustLeverageRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				t.Fatalf("decode request body: %v", err)
			}
			if body.Market != "BTCUSDT" || body.MarginMode != "cross" || body.Leverage != 10 {
				t.Errorf("Unexpected leverage body: %+v", body)
			}
			if body.MarketType != "FUTURES" {
				t.Errorf("MarketType = %q, want FUTURES", body.MarketType)
			}
			return jsonResponse(200, `{"code":0,"message":"OK","data":{}}`), nil
		},
	})

	if err := client.AdjustLeverage(context.Background(), "BTCUSDT", "cross", 10); err != nil {
		t.Fatalf("AdjustLeverage failed: %v", err)
	}
}

func TestClient_AdjustLeverage_Rejected(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, `{"code":4001,"message":"no futures permission"}`), nil
		},
	})

	err := client.AdjustLeverage(context.Background(), "BTCUSDT", "cross", 10)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
}
