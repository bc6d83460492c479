package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignalSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Unexpected method: %s", r.Method)
		}
		w.Write([]byte(`{"symbol":"BTCUSDT","signal_id":"s1","signal_side":"BUY","entry_price":50000}`))
	}))
	defer srv.Close()

	source := NewSignalSource(srv.URL, 5*time.Second)
	sig, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if sig == nil {
		t.Fatal("Expected a signal, got nil")
	}
	if sig.Symbol != "BTCUSDT" || sig.SignalID != "s1" || sig.SignalSide != "BUY" {
		t.Errorf("Unexpected signal: %+v", sig)
	}
	if sig.EntryPrice.String() != "50000" {
		t.Errorf("EntryPrice = %s, want 50000", sig.EntryPrice)
	}
}

func TestSignalSource_FetchEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	source := NewSignalSource(srv.URL, 5*time.Second)
	sig, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if sig != nil {
		t.Errorf("Expected no signal, got %+v", sig)
	}
}

func TestSignalSource_FetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			source := NewSignalSource(srv.URL, 5*time.Second)
			if _, err := source.Fetch(context.Background()); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestSignalSource_FetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	source := NewSignalSource(srv.URL, 20*time.Millisecond)
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Error("Expected timeout error, got nil")
	}
}
