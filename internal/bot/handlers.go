package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/prodatadev/prodata-bot/internal/crm"
	"github.com/prodatadev/prodata-bot/internal/llm"
	"github.com/prodatadev/prodata-bot/internal/observability"
	"github.com/prodatadev/prodata-bot/internal/session"
)

func (b *Bot) handleStart(_ context.Context, msg *tgbotapi.Message) {
	b.reply(msg, MsgStart)
}

func (b *Bot) handleHelp(_ context.Context, msg *tgbotapi.Message) {
	b.reply(msg, MsgHelp)
}

func (b *Bot) handleReset(_ context.Context, msg *tgbotapi.Message) {
	b.history.Reset(msg.Chat.ID)
	b.uploads.Clear(msg.Chat.ID)
	b.reply(msg, MsgReset)
}

// handleLead parses "/lead Название; Имя; Телефон; Комментарий" and posts
// the lead. A missing webhook URL is reported immediately without a
// request.
func (b *Bot) handleLead(ctx context.Context, msg *tgbotapi.Message) {
	lead, ok := parseLeadArgs(msg.CommandArguments())
	if !ok {
		b.reply(msg, MsgLeadUsage)
		return
	}

	if msg.From != nil && msg.From.UserName != "" {
		lead.SourceID = "WEB"
		lead.Comments = strings.TrimSpace(lead.Comments + "\nTelegram: @" + msg.From.UserName)
	}

	id, err := b.crmClient.CreateLead(ctx, lead)
	if err != nil {
		observability.CRMLeads.WithLabelValues("error").Inc()

		if errors.Is(err, crm.ErrNotConfigured) {
			b.reply(msg, MsgLeadNotConfigured)
			return
		}

		b.logger.Error().Err(err).Int64(LogFieldChatID, msg.Chat.ID).Msg("CRM lead creation failed")
		b.reply(msg, fmt.Sprintf(MsgLeadFailed, err))

		return
	}

	observability.CRMLeads.WithLabelValues("ok").Inc()
	b.reply(msg, fmt.Sprintf(MsgLeadCreated, id))
}

func parseLeadArgs(args string) (crm.Lead, bool) {
	parts := strings.Split(args, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if parts[0] == "" {
		return crm.Lead{}, false
	}

	lead := crm.Lead{Title: parts[0]}

	if len(parts) > 1 {
		lead.Name = parts[1]
	}

	if len(parts) > 2 {
		lead.Phone = parts[2]
	}

	if len(parts) > 3 {
		lead.Comments = strings.Join(parts[3:], "; ")
	}

	return lead, true
}

func (b *Bot) handleTenders(ctx context.Context, msg *tgbotapi.Message) {
	if b.cfg.TenderFeedURL == "" {
		b.reply(msg, MsgTendersNotConfigured)
		return
	}

	b.sendTyping(msg.Chat.ID)

	tenders, err := b.tenderClient.Fetch(ctx)
	if err != nil {
		observability.TenderFetches.WithLabelValues("error").Inc()
		b.logger.Error().Err(err).Msg("Tender fetch failed")
		b.reply(msg, fmt.Sprintf(MsgTendersFailed, err))

		return
	}

	observability.TenderFetches.WithLabelValues("ok").Inc()

	if len(tenders) == 0 {
		b.reply(msg, MsgTendersEmpty)
		return
	}

	var sb strings.Builder

	for i, t := range tenders {
		fmt.Fprintf(&sb, "%d. №%s — %s", i+1, t.Number, t.Subject)

		if t.Status != "" {
			fmt.Fprintf(&sb, " [%s]", t.Status)
		}

		if t.Link != "" {
			fmt.Fprintf(&sb, "\n%s", t.Link)
		}

		sb.WriteString("\n\n")
	}

	b.reply(msg, strings.TrimSpace(sb.String()))
}

// handleText routes free text: when an upload is staged it is consumed as
// filter rules (or the scoring keyword), otherwise the text goes to the
// LLM with the chat's history.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if b.uploads.Has(msg.Chat.ID) {
		b.handleStagedUpload(ctx, msg, text)
		return
	}

	chatID := msg.Chat.ID
	b.history.Append(chatID, session.RoleUser, text)
	b.sendTyping(chatID)

	start := time.Now()

	reply, err := b.llmClient.Complete(ctx, b.history.History(chatID))

	observability.LLMRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		observability.LLMRequests.WithLabelValues("error").Inc()
		b.logger.Error().Err(err).Int64(LogFieldChatID, chatID).Msg("LLM request failed")
		b.reply(msg, llm.UserMessage(err))

		return
	}

	observability.LLMRequests.WithLabelValues("ok").Inc()
	b.history.Append(chatID, session.RoleAssistant, reply)
	b.reply(msg, reply)
}
