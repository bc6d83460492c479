package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Matincrypto/coinex-trade/internal/domain"
)

// SignalSource fetches the latest trade signal from the signal API with a
// single bounded GET per polling cycle. Any transport error, non-2xx status,
// or malformed body is reported as an error; the driver treats every one of
// them as "no signal this cycle".
type SignalSource struct {
	client *http.Client
	url    string
}

// NewSignalSource builds a source for the given endpoint and per-call timeout.
func NewSignalSource(url string, timeout time.Duration) *SignalSource {
	return &SignalSource{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Fetch performs one GET against the signal endpoint. It returns (nil, nil)
// when the server answers successfully but has no signal to hand out.
func (s *SignalSource) Fetch(ctx context.Context) (*domain.Signal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var sig domain.Signal
	if err := json.NewDecoder(resp.Body).Decode(&sig); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if sig.SignalID == "" && sig.Symbol == "" {
		return nil, nil
	}
	return &sig, nil
}
