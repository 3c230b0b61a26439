// Package llm is the pass-through chat-completion client: the bot sends
// the whole role-tagged history and relays the reply verbatim.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/prodatadev/prodata-bot/internal/config"
	"github.com/prodatadev/prodata-bot/internal/session"
)

const llmAPIKeyMock = "mock"

type Client interface {
	Complete(ctx context.Context, history []session.Entry) (string, error)
}

func New(cfg *config.Config, logger *zerolog.Logger) Client {
	if cfg.LLMAPIKey == "" || cfg.LLMAPIKey == llmAPIKeyMock {
		return &mockClient{}
	}

	return newOpenAI(cfg, logger)
}

type mockClient struct{}

func (c *mockClient) Complete(_ context.Context, history []session.Entry) (string, error) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == session.RoleUser {
			return "Ответ на: " + history[i].Content, nil
		}
	}

	return "Готов помочь.", nil
}

// UserMessage renders an LLM failure the way the end user sees it:
// upstream HTTP errors carry the status code and body, anything else is a
// local error. Never empty, never a panic path.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("⚠️ OpenAI %d: %s", apiErr.HTTPStatusCode, strings.TrimSpace(apiErr.Message))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("⚠️ OpenAI %d: %s", reqErr.HTTPStatusCode, strings.TrimSpace(string(reqErr.Body)))
	}

	return fmt.Sprintf("⚠️ Локальная ошибка: %v", err)
}
