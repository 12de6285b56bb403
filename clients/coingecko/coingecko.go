package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"soltracker/config"

	"go.uber.org/zap"
)

// CoinGeckoClient fetches spot prices for swap alert enrichment.
type CoinGeckoClient struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

func NewCoinGeckoClient(logger *zap.Logger, cfg *config.Config) *CoinGeckoClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CoinGeckoClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.Price.Timeout,
		},
		baseURL: cfg.Price.BaseURL,
	}
}

// SolPriceUSD returns the current SOL spot price in USD.
func (c *CoinGeckoClient) SolPriceUSD(ctx context.Context) (float64, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, fmt.Errorf("invalid coingecko base URL: %w", err)
	}
	u.Path = "/api/v3/simple/price"

	q := u.Query()
	q.Set("ids", "solana")
	q.Set("vs_currencies", "usd")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var result map[string]map[string]float64
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("unmarshal price: %w", err)
	}

	price, ok := result["solana"]["usd"]
	if !ok {
		return 0, fmt.Errorf("price missing from response")
	}
	return price, nil
}
