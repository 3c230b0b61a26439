package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodatadev/prodata-bot/internal/config"
	"github.com/prodatadev/prodata-bot/internal/session"
)

func TestNewReturnsMockWithoutKey(t *testing.T) {
	logger := zerolog.Nop()

	c := New(&config.Config{LLMAPIKey: "mock"}, &logger)

	_, ok := c.(*mockClient)
	assert.True(t, ok)
}

func TestMockEchoesLastUserEntry(t *testing.T) {
	c := &mockClient{}

	reply, err := c.Complete(context.Background(), []session.Entry{
		{Role: session.RoleSystem, Content: "промпт"},
		{Role: session.RoleUser, Content: "первый"},
		{Role: session.RoleAssistant, Content: "ответ"},
		{Role: session.RoleUser, Content: "второй"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ответ на: второй", reply)
}

func TestMockWithoutUserEntries(t *testing.T) {
	c := &mockClient{}

	reply, err := c.Complete(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Готов помочь.", reply)
}

func TestToChatMessagesDropsUnknownRoles(t *testing.T) {
	msgs := toChatMessages([]session.Entry{
		{Role: session.RoleSystem, Content: "промпт"},
		{Role: "tool", Content: "мусор"},
		{Role: session.RoleUser, Content: "вопрос"},
	})

	require.Len(t, msgs, 2)
	assert.Equal(t, session.RoleSystem, msgs[0].Role)
	assert.Equal(t, session.RoleUser, msgs[1].Role)
}

func TestUserMessage(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: 429, Message: "Rate limit reached"}

	got := UserMessage(apiErr)
	assert.Contains(t, got, "429")
	assert.Contains(t, got, "Rate limit reached")

	got = UserMessage(errors.New("connection refused"))
	assert.Contains(t, got, "Локальная ошибка")
	assert.Contains(t, got, "connection refused")

	assert.Empty(t, UserMessage(nil))
}
