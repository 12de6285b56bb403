package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"soltracker/config"
)

func newTestClient(serverURL string) *CoinGeckoClient {
	cfg := config.Defaults()
	cfg.Price.BaseURL = serverURL
	return NewCoinGeckoClient(zap.NewNop(), cfg)
}

func TestSolPriceUSD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("ids") != "solana" || q.Get("vs_currencies") != "usd" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"solana": {"usd": 152.34}}`))
	}))
	defer server.Close()

	price, err := newTestClient(server.URL).SolPriceUSD(context.Background())
	if err != nil {
		t.Fatalf("SolPriceUSD failed: %v", err)
	}
	if price != 152.34 {
		t.Errorf("expected 152.34, got %v", price)
	}
}

func TestSolPriceUSD_MissingEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).SolPriceUSD(context.Background()); err == nil {
		t.Error("expected error for missing price entry")
	}
}

func TestSolPriceUSD_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).SolPriceUSD(context.Background()); err == nil {
		t.Error("expected error for server failure")
	}
}
