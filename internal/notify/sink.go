package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Sink shows a fired request to the user.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, r Request) error
}

func messageText(r Request) string {
	return fmt.Sprintf("%s\n%s", r.Payload.Title, r.Payload.Body)
}

// LogSink writes fired requests to the log.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(ctx context.Context, r Request) error {
	s.logger.Info("notification",
		zap.String("id", r.ID),
		zap.String("title", r.Payload.Title),
		zap.String("body", r.Payload.Body),
		zap.Time("fire_at", r.FireAt))
	return nil
}

// TelegramSink sends fired requests to one Telegram chat.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink authorizes the bot token against the Telegram API.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	return newTelegramSink(token, chatID, tgbotapi.APIEndpoint)
}

func newTelegramSink(token string, chatID int64, endpoint string) (*TelegramSink, error) {
	if token == "" {
		return nil, goerr.New("telegram bot token is required")
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize telegram bot")
	}
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Deliver(ctx context.Context, r Request) error {
	msg := tgbotapi.NewMessage(s.chatID, messageText(r))
	if _, err := s.bot.Send(msg); err != nil {
		return goerr.Wrap(err, "send telegram message", goerr.V("chat_id", s.chatID), goerr.V("id", r.ID))
	}
	return nil
}

// SlackSink posts fired requests to a Slack incoming webhook.
type SlackSink struct {
	webhookURL string
}

func NewSlackSink(webhookURL string) (*SlackSink, error) {
	if webhookURL == "" {
		return nil, goerr.New("slack webhook url is required")
	}
	return &SlackSink{webhookURL: webhookURL}, nil
}

func (s *SlackSink) Name() string { return "slack" }

func (s *SlackSink) Deliver(ctx context.Context, r Request) error {
	msg := &slack.WebhookMessage{Text: messageText(r)}
	if err := slack.PostWebhookContext(ctx, s.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "post slack webhook", goerr.V("id", r.ID))
	}
	return nil
}
