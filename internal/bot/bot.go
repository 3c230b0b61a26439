// Package bot runs the Telegram long-polling loop and routes updates to
// the chat, CRM, tender and spreadsheet handlers.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/prodatadev/prodata-bot/internal/config"
	"github.com/prodatadev/prodata-bot/internal/crm"
	"github.com/prodatadev/prodata-bot/internal/llm"
	"github.com/prodatadev/prodata-bot/internal/observability"
	"github.com/prodatadev/prodata-bot/internal/session"
	"github.com/prodatadev/prodata-bot/internal/tender"
)

type Bot struct {
	cfg          *config.Config
	api          *tgbotapi.BotAPI
	llmClient    llm.Client
	crmClient    *crm.Client
	tenderClient *tender.Client
	history      *session.HistoryStore
	uploads      *session.UploadStore
	httpClient   *http.Client
	logger       *zerolog.Logger
}

func New(
	cfg *config.Config,
	llmClient llm.Client,
	crmClient *crm.Client,
	tenderClient *tender.Client,
	history *session.HistoryStore,
	uploads *session.UploadStore,
	logger *zerolog.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("creating bot API: %w", err)
	}

	return &Bot{
		cfg:          cfg,
		api:          api,
		llmClient:    llmClient,
		crmClient:    crmClient,
		tenderClient: tenderClient,
		history:      history,
		uploads:      uploads,
		httpClient:   newDownloadClient(),
		logger:       logger,
	}, nil
}

// newDownloadClient builds the client used for fetching uploaded files.
// Updates are handled synchronously, so a hung download must time out
// instead of stalling every chat.
func newDownloadClient() *http.Client {
	return &http.Client{Timeout: downloadTimeout}
}

func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info().Str("username", b.api.Self.UserName).Msg("Bot started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("bot run context canceled: %w", ctx.Err())
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage dispatches one inbound message. A panic in any handler is
// turned into a generic reply so one malformed request cannot take the
// loop down or corrupt another chat's session.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Int64(LogFieldChatID, msg.Chat.ID).
				Msg("Handler panicked")
			b.reply(msg, MsgGenericError)
		}
	}()

	switch {
	case msg.IsCommand():
		observability.UpdatesHandled.WithLabelValues("command").Inc()
		b.logger.Info().
			Str("command", msg.Command()).
			Int64(LogFieldUserID, msg.From.ID).
			Str(LogFieldUsername, msg.From.UserName).
			Msg("Handling command")

		if !b.newCommandRegistry().route(ctx, msg) {
			b.reply(msg, MsgUnknownCommand)
		}
	case msg.Document != nil:
		observability.UpdatesHandled.WithLabelValues("document").Inc()
		b.handleDocument(ctx, msg)
	case msg.Text != "":
		observability.UpdatesHandled.WithLabelValues("text").Inc()
		b.handleText(ctx, msg)
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(out); err != nil {
		b.logger.Error().Err(err).Int64(LogFieldChatID, chatID).Msg("failed to send message")
	}
}

func (b *Bot) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		b.logger.Debug().Err(err).Int64(LogFieldChatID, chatID).Msg("failed to send chat action")
	}
}

func (b *Bot) sendDocument(chatID int64, name string, data []byte) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error().Err(err).Int64(LogFieldChatID, chatID).Msg("failed to send document")
	}
}
