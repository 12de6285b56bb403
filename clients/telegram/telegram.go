package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"soltracker/clients/notifier"
	"soltracker/config"
	"time"

	"go.uber.org/zap"
)

const telegramAPIURL = "https://api.telegram.org/bot%s/%s"

// TelegramClient sends alerts to Telegram.
// Implements notifier.Notifier interface.
type TelegramClient struct {
	logger   *zap.Logger
	botToken string
	chatID   string
	client   *http.Client

	// baseURL overrides the Telegram API host in tests.
	baseURL string
}

func NewTelegramClient(logger *zap.Logger, cfg *config.Config) *TelegramClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	token := cfg.Telegram.BotToken
	if token == "" {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, Telegram alerts disabled")
		return &TelegramClient{
			logger: logger,
			chatID: cfg.Telegram.ChatID,
		}
	}

	logger.Info("telegram bot initialized",
		zap.String("chatID", cfg.Telegram.ChatID),
	)

	return &TelegramClient{
		logger:   logger,
		botToken: token,
		chatID:   cfg.Telegram.ChatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendSwapAlert sends a swap alert notification.
// Implements notifier.Notifier interface.
func (tc *TelegramClient) SendSwapAlert(alert notifier.SwapAlert) {
	if tc.botToken == "" || tc.chatID == "" {
		tc.logger.Warn("telegram not configured, skipping alert")
		return
	}

	message := notifier.FormatSwapAlert(alert)

	if err := tc.sendMessage(message); err != nil {
		tc.logger.Error("failed to send telegram message", zap.Error(err))
		return
	}

	tc.logger.Info("sent telegram swap alert",
		zap.String("wallet", notifier.ShortAddress(alert.Wallet)),
		zap.String("signature", notifier.ShortAddress(alert.Signature)),
	)
}

// SendStatus sends a plain status message.
// Implements notifier.Notifier interface.
func (tc *TelegramClient) SendStatus(message string) {
	if tc.botToken == "" || tc.chatID == "" {
		tc.logger.Warn("telegram not configured, skipping status message")
		return
	}

	if err := tc.sendMessage(message); err != nil {
		tc.logger.Error("failed to send telegram status message", zap.Error(err))
	}
}

func (tc *TelegramClient) sendMessage(text string) error {
	url := fmt.Sprintf(telegramAPIURL, tc.botToken, "sendMessage")
	if tc.baseURL != "" {
		url = fmt.Sprintf(tc.baseURL+"/bot%s/%s", tc.botToken, "sendMessage")
	}

	payload := map[string]interface{}{
		"chat_id":    tc.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := tc.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// Close cleans up resources. Implements notifier.Notifier interface.
func (tc *TelegramClient) Close() error {
	return nil
}
