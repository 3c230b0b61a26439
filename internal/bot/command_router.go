package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// commandHandler is a function that handles a specific bot command.
type commandHandler func(ctx context.Context, msg *tgbotapi.Message)

// commandRegistry holds the mapping of command names to their handlers.
type commandRegistry struct {
	handlers map[string]commandHandler
}

func (b *Bot) newCommandRegistry() *commandRegistry {
	r := &commandRegistry{handlers: make(map[string]commandHandler)}

	r.handlers[CmdStart] = b.handleStart
	r.handlers[CmdHelp] = b.handleHelp
	r.handlers[CmdReset] = b.handleReset
	r.handlers[CmdLead] = b.handleLead
	r.handlers[CmdTenders] = b.handleTenders

	return r
}

// route handles the command routing for a message.
func (r *commandRegistry) route(ctx context.Context, msg *tgbotapi.Message) bool {
	handler, ok := r.handlers[msg.Command()]
	if !ok {
		return false
	}

	handler(ctx, msg)

	return true
}
