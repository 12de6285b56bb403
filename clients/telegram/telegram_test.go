package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"soltracker/clients/notifier"
	"soltracker/config"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Telegram.BotToken = "test-token"
	cfg.Telegram.ChatID = "12345"
	return cfg
}

func TestSendStatus(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTelegramClient(zap.NewNop(), testConfig())
	client.baseURL = server.URL

	client.SendStatus("hello world")

	if got["chat_id"] != "12345" {
		t.Errorf("unexpected chat_id %v", got["chat_id"])
	}
	if got["text"] != "hello world" {
		t.Errorf("unexpected text %v", got["text"])
	}
	if got["parse_mode"] != "Markdown" {
		t.Errorf("unexpected parse_mode %v", got["parse_mode"])
	}
}

func TestSendSwapAlert(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTelegramClient(zap.NewNop(), testConfig())
	client.baseURL = server.URL

	alert := notifier.SwapAlert{
		Wallet:    "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		TokenIn:   "So11111111111111111111111111111111111111112",
		AmountIn:  2.5,
		TokenOut:  "mintT",
		AmountOut: 100,
		Direction: notifier.DirectionBuy,
	}
	client.SendSwapAlert(alert)

	text, _ := got["text"].(string)
	if text != notifier.FormatSwapAlert(alert) {
		t.Errorf("alert text should come from the shared formatter, got %q", text)
	}
}

func TestSendStatus_ServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewTelegramClient(zap.NewNop(), testConfig())
	client.baseURL = server.URL

	// Delivery failure is logged, not propagated.
	client.SendStatus("hello")
	if calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", calls)
	}
}

func TestUnconfiguredClientSkips(t *testing.T) {
	cfg := config.Defaults()
	client := NewTelegramClient(zap.NewNop(), cfg)

	// Must not panic or attempt network calls.
	client.SendStatus("hello")
	client.SendSwapAlert(notifier.SwapAlert{})
	if err := client.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
