package helius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"soltracker/config"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrRateLimited is returned when the API rejects a request with HTTP 429 or
// reports plan usage exhaustion in the response body.
var ErrRateLimited = errors.New("helius rate limited")

// HeliusClient fetches enhanced (pre-parsed) transaction history.
type HeliusClient struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewHeliusClient(logger *zap.Logger, cfg *config.Config) *HeliusClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HeliusClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: cfg.Helius.BaseURL,
		apiKey:  cfg.Helius.APIKey,
	}
}

// TokenTransfer is one itemized transfer inside an enhanced transaction.
// Wrapped-SOL legs appear here with the native mint.
type TokenTransfer struct {
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
}

// Transaction is an enhanced-history record in transfer-list form.
type Transaction struct {
	Signature      string          `json:"signature"`
	Timestamp      int64           `json:"timestamp"`
	Type           string          `json:"type"`
	Source         string          `json:"source"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers"`
}

// GetTransactions fetches up to limit most recent transactions for the
// wallet. A non-empty before signature pages further back in history.
func (c *HeliusClient) GetTransactions(ctx context.Context, wallet, before string, limit int) ([]Transaction, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid helius base URL: %w", err)
	}
	u.Path = fmt.Sprintf("/v0/addresses/%s/transactions", wallet)

	q := u.Query()
	q.Set("api-key", c.apiKey)
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if before != "" {
		q.Set("before", before)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(strings.ToLower(string(body)), "max usage") {
		return nil, ErrRateLimited
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var txs []Transaction
	if err := json.Unmarshal(body, &txs); err != nil {
		return nil, fmt.Errorf("unmarshal transactions: %w", err)
	}
	return txs, nil
}
