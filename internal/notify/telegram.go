package notify

import (
	"context"
	"fmt"

	"polymarket-whale-monitor/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const telegramAPIURL = "https://api.telegram.org"

// TelegramNotifier delivers alerts to a Telegram chat through the bot API.
type TelegramNotifier struct {
	client *resty.Client
	token  string
	chatID string
	logger *zap.Logger
}

var _ Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a Telegram sink for the configured chat.
func NewTelegramNotifier(cfg *config.Telegram, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		client: resty.New().SetBaseURL(telegramAPIURL),
		token:  cfg.BotToken,
		chatID: cfg.ChatID,
		logger: logger,
	}
}

// Send posts the alert text via the sendMessage endpoint.
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id":                  n.chatID,
			"text":                     text,
			"disable_web_page_preview": "true",
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", n.token))
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram send failed with status %s: %s", resp.Status(), resp.String())
	}

	n.logger.Debug("Alert delivered to Telegram", zap.String("chat_id", n.chatID))
	return nil
}

// FromConfig picks the Telegram sink when credentials are configured and
// the log sink otherwise.
func FromConfig(cfg *config.Telegram, logger *zap.Logger) Notifier {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		logger.Info("Telegram not configured, alerts will only be logged")
		return NewLogNotifier(logger)
	}
	return NewTelegramNotifier(cfg, logger)
}
