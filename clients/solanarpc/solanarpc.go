package solanarpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"soltracker/config"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrRateLimited is returned when the RPC endpoint rejects a request with
// HTTP 429. Callers decide the backoff policy.
var ErrRateLimited = errors.New("solana rpc rate limited")

// SolanaRPCClient talks JSON-RPC 2.0 to a Solana node over HTTP.
type SolanaRPCClient struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	requestID  atomic.Uint64
}

func NewSolanaRPCClient(logger *zap.Logger, cfg *config.Config) *SolanaRPCClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SolanaRPCClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: cfg.Solana.RPCURL,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// UITokenAmount carries the human-scaled token quantity. UIAmount is a
// pointer because the node reports null for zeroed accounts.
type UITokenAmount struct {
	Amount   string   `json:"amount"`
	Decimals int      `json:"decimals"`
	UIAmount *float64 `json:"uiAmount"`
}

// TokenBalance is one entry of pre/postTokenBalances in a parsed transaction.
type TokenBalance struct {
	AccountIndex  int           `json:"accountIndex"`
	Mint          string        `json:"mint"`
	Owner         string        `json:"owner"`
	UITokenAmount UITokenAmount `json:"uiTokenAmount"`
}

// TransactionMeta holds the balance snapshots of a confirmed transaction.
type TransactionMeta struct {
	Err               interface{}    `json:"err"`
	PreTokenBalances  []TokenBalance `json:"preTokenBalances"`
	PostTokenBalances []TokenBalance `json:"postTokenBalances"`
}

// TransactionResult is the getTransaction response body we care about.
type TransactionResult struct {
	Slot      int64            `json:"slot"`
	BlockTime *int64           `json:"blockTime"`
	Meta      *TransactionMeta `json:"meta"`
}

// GetTransaction fetches a confirmed transaction by signature in jsonParsed
// form. Returns nil (no error) when the node has not indexed it yet.
func (c *SolanaRPCClient) GetTransaction(ctx context.Context, signature string) (*TransactionResult, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "jsonParsed",
			"commitment":                     "confirmed",
			"maxSupportedTransactionVersion": 0,
		},
	}

	var result *TransactionResult
	if err := c.call(ctx, "getTransaction", params, &result); err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", signature, err)
	}
	return result, nil
}

func (c *SolanaRPCClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return nil
}
