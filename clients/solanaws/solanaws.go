package solanaws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SolanaWSClient maintains a logsSubscribe WebSocket subscription for a
// single wallet and surfaces transaction signatures as they are confirmed.
type SolanaWSClient struct {
	logger *zap.Logger

	wsURL        string
	dialer       *websocket.Dialer
	pingInterval time.Duration

	connMu  sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn

	sigCh   chan string
	errCh   chan error
	closeCh chan struct{}

	requestID       uint64
	msgCount        uint64
	lastMsgUnixNano int64
}

func NewSolanaWSClient(logger *zap.Logger, wsURL string) *SolanaWSClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SolanaWSClient{
		logger:       logger,
		wsURL:        wsURL,
		dialer:       websocket.DefaultDialer,
		pingInterval: 20 * time.Second,

		sigCh:   make(chan string, 256),
		errCh:   make(chan error, 16),
		closeCh: make(chan struct{}),
	}
}

// Connect dials the node and subscribes to log events mentioning the wallet.
func (c *SolanaWSClient) Connect(ctx context.Context, wallet string) error {
	c.connMu.Lock()
	alreadyConnected := c.conn != nil
	c.connMu.Unlock()
	if alreadyConnected {
		return fmt.Errorf("already connected")
	}

	conn, _, err := c.dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial solana ws: %w", err)
	}

	c.logger.Info("solana ws dialed",
		zap.String("url", c.wsURL),
		zap.String("wallet", wallet),
	)

	conn.SetCloseHandler(func(code int, text string) error {
		c.logger.Warn("solana ws close frame received",
			zap.Int("code", code),
			zap.String("reason", text),
		)
		return nil
	})

	// Each connection gets its own close channel. The loops capture it,
	// so a later reconnect can never strand a goroutine from a previous
	// connection on a channel that was swapped out from under it.
	c.connMu.Lock()
	c.conn = conn
	c.closeCh = make(chan struct{})
	closeCh := c.closeCh
	c.connMu.Unlock()

	sub := map[string]any{
		"jsonrpc": "2.0",
		"id":      atomic.AddUint64(&c.requestID, 1),
		"method":  "logsSubscribe",
		"params": []any{
			map[string]any{"mentions": []string{wallet}},
			map[string]any{"commitment": "confirmed"},
		},
	}

	if err := c.writeJSON(sub); err != nil {
		_ = conn.Close()
		c.connMu.Lock()
		c.conn = nil
		c.connMu.Unlock()
		return fmt.Errorf("send logs subscription: %w", err)
	}

	c.logger.Info("solana ws subscription sent", zap.String("wallet", wallet))

	go c.readLoop(conn, closeCh)
	go c.pingLoop(conn, closeCh)

	go func() {
		select {
		case <-ctx.Done():
			c.teardown(conn, closeCh)
		case <-closeCh:
		}
	}()

	return nil
}

// Signatures yields transaction signatures for the subscribed wallet.
func (c *SolanaWSClient) Signatures() <-chan string {
	return c.sigCh
}

func (c *SolanaWSClient) Errors() <-chan error {
	return c.errCh
}

type WSStats struct {
	MessageCount  uint64
	LastMessageAt time.Time
}

func (c *SolanaWSClient) Stats() WSStats {
	n := atomic.LoadUint64(&c.msgCount)
	ns := atomic.LoadInt64(&c.lastMsgUnixNano)

	var t time.Time
	if ns > 0 {
		t = time.Unix(0, ns)
	}

	return WSStats{
		MessageCount:  n,
		LastMessageAt: t,
	}
}

func (c *SolanaWSClient) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	select {
	case <-c.closeCh:
		// Channel was already closed
	default:
		close(c.closeCh)
	}

	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}

	return err
}

func (c *SolanaWSClient) writeJSON(v any) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return conn.WriteJSON(v)
}

func (c *SolanaWSClient) pingLoop(conn *websocket.Conn, closeCh <-chan struct{}) {
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			c.writeMu.Lock()
			_ = conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()

		case <-closeCh:
			return
		}
	}
}

// teardown shuts down one connection generation. It only touches the
// client state if that generation is still current, so a loop from a
// dead connection can never kill a newer one dialed in the meantime.
func (c *SolanaWSClient) teardown(conn *websocket.Conn, closeCh chan struct{}) {
	c.connMu.Lock()
	if c.conn == conn {
		c.conn = nil
		select {
		case <-closeCh:
		default:
			close(closeCh)
		}
	}
	c.connMu.Unlock()

	_ = conn.Close()
}

// logsNotification is the shape of a logsSubscribe push frame.
type logsNotification struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Value struct {
				Signature string      `json:"signature"`
				Err       interface{} `json:"err"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

func (c *SolanaWSClient) readLoop(conn *websocket.Conn, closeCh chan struct{}) {
	c.logger.Info("solana ws read loop started")
	defer c.teardown(conn, closeCh)

	for {
		select {
		case <-closeCh:
			c.logger.Info("solana ws read loop exiting: closeCh signaled")
			return
		default:
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-closeCh:
				// Local shutdown; not an error worth surfacing.
				return
			default:
			}
			c.logger.Warn("solana ws read loop exiting: read error", zap.Error(err))
			select {
			case c.errCh <- err:
			default:
			}
			return
		}

		atomic.AddUint64(&c.msgCount, 1)
		atomic.StoreInt64(&c.lastMsgUnixNano, time.Now().UnixNano())

		c.handleFrame(b)
	}
}

func (c *SolanaWSClient) handleFrame(b []byte) {
	var notif logsNotification
	if err := json.Unmarshal(b, &notif); err != nil {
		c.logger.Warn("solana ws bad frame", zap.Error(err))
		return
	}

	// Subscription acks and other RPC replies have no method field.
	if notif.Method != "logsNotification" {
		return
	}

	// Failed transactions still show up in the log stream.
	if notif.Params.Result.Value.Err != nil {
		return
	}

	sig := notif.Params.Result.Value.Signature
	if sig == "" {
		return
	}

	select {
	case c.sigCh <- sig:
	default:
		c.logger.Warn("dropping ws signature: sigCh full")
	}
}
