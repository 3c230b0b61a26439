// Package app wires the bot's dependencies together and exposes the run
// modes: the Telegram loop and the health/metrics server.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prodatadev/prodata-bot/internal/bot"
	"github.com/prodatadev/prodata-bot/internal/config"
	"github.com/prodatadev/prodata-bot/internal/crm"
	"github.com/prodatadev/prodata-bot/internal/llm"
	"github.com/prodatadev/prodata-bot/internal/observability"
	"github.com/prodatadev/prodata-bot/internal/session"
	"github.com/prodatadev/prodata-bot/internal/tender"
)

const errBotInit = "bot initialization failed: %w"

// systemPrompt seeds every chat's history on first access.
const systemPrompt = `Ты — Product Data Assistant. Отвечай кратко, по делу, на русском.
Если тема — данные о товарах, задавай уточняющие вопросы.`

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.cfg.HealthPort, a.logger).Start(ctx)
}

// RunBot builds the full dependency graph and runs the update loop until
// the context is canceled.
func (a *App) RunBot(ctx context.Context) error {
	llmClient := llm.New(a.cfg, a.logger)
	crmClient := crm.New(a.cfg, a.logger)

	tenderClient, err := tender.New(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf(errBotInit, err)
	}

	b, err := bot.New(
		a.cfg,
		llmClient,
		crmClient,
		tenderClient,
		session.NewHistoryStore(systemPrompt),
		session.NewUploadStore(),
		a.logger,
	)
	if err != nil {
		return fmt.Errorf(errBotInit, err)
	}

	return b.Run(ctx)
}
