package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/prodatadev/prodata-bot/internal/observability"
	"github.com/prodatadev/prodata-bot/internal/rules"
	"github.com/prodatadev/prodata-bot/internal/scoring"
	"github.com/prodatadev/prodata-bot/internal/session"
	"github.com/prodatadev/prodata-bot/internal/table"
)

const (
	maxUploadSize   = 20 << 20 // Telegram bot API download cap
	downloadTimeout = time.Minute
)

var supportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
}

// handleDocument downloads an uploaded table through a scoped temp file
// and stages it for the chat. A second upload silently replaces the
// first.
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document

	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if !supportedExtensions[ext] {
		b.reply(msg, MsgFileUnsupported)
		return
	}

	data, err := b.downloadDocument(ctx, doc.FileID, ext)
	if err != nil {
		b.logger.Error().Err(err).Str("file", doc.FileName).Msg("Document download failed")
		b.reply(msg, MsgFileDownloadError)

		return
	}

	b.uploads.Put(msg.Chat.ID, session.Upload{Filename: doc.FileName, Data: data})
	b.reply(msg, fmt.Sprintf(MsgFileStaged, doc.FileName))
}

// downloadDocument fetches the file body via a temp file that is removed
// on every exit path.
func (b *Bot) downloadDocument(ctx context.Context, fileID, ext string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+ext)

	out, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpPath)

	_, err = io.Copy(out, io.LimitReader(resp.Body, maxUploadSize))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read temp file: %w", err)
	}

	return data, nil
}

// handleStagedUpload consumes the chat's pending upload: the text is
// either the scoring keyword or a rule block. The upload is taken off the
// session no matter how processing ends.
func (b *Bot) handleStagedUpload(_ context.Context, msg *tgbotapi.Message, text string) {
	upload, ok := b.uploads.Take(msg.Chat.ID)
	if !ok {
		return
	}

	mode := "filter"
	if strings.EqualFold(text, scoreKeyword) {
		mode = "score"
	}

	t, err := table.Load(upload.Filename, upload.Data)
	if err != nil {
		observability.FilesProcessed.WithLabelValues(mode, "parse_error").Inc()
		b.logger.Warn().Err(err).Str("file", upload.Filename).Msg("Uploaded table unreadable")
		b.reply(msg, fmt.Sprintf(MsgFileParseError, err))

		return
	}

	if mode == "score" {
		b.scoreTable(msg, upload.Filename, t)
		return
	}

	b.filterTable(msg, upload.Filename, t, text)
}

func (b *Bot) filterTable(msg *tgbotapi.Message, filename string, t *table.Table, text string) {
	parsed := rules.Parse(text)

	var notes []string

	for _, clause := range parsed.Skipped {
		notes = append(notes, fmt.Sprintf(MsgRulesSkipped, clause))
	}

	res := rules.Apply(t, parsed.Rules)

	report := strings.Join(append(res.Trace, notes...), "\n")
	b.reply(msg, report)

	if res.Table.NumRows() == 0 {
		observability.FilesProcessed.WithLabelValues("filter", "empty").Inc()
		b.reply(msg, MsgNoRowsLeft)

		return
	}

	b.sendResult(msg, filename, res.Table, "filter")
}

func (b *Bot) scoreTable(msg *tgbotapi.Message, filename string, t *table.Table) {
	scorer := scoring.New(scoring.Config{
		Vocabulary:             scoring.DefaultVocabulary(),
		AmountMid:              b.cfg.ScoreAmountMid,
		AmountHigh:             b.cfg.ScoreAmountHigh,
		MinAmount:              b.cfg.ScoreMinAmount,
		KeywordOverridesAmount: b.cfg.ScoreKeywordAlways,
	})

	scored, diag := scorer.Score(t)

	b.reply(msg, fmt.Sprintf(MsgScoreSummary,
		diag.RowsIn, diag.RowsOut, diag.NameColumn, diag.ClientColumn, diag.AmountColumn))

	if scored.NumRows() == 0 {
		observability.FilesProcessed.WithLabelValues("score", "empty").Inc()
		b.reply(msg, MsgNoRowsLeft)

		return
	}

	b.sendResult(msg, filename, scored, "score")
}

func (b *Bot) sendResult(msg *tgbotapi.Message, filename string, t *table.Table, mode string) {
	data, err := t.ExportXLSX()
	if err != nil {
		observability.FilesProcessed.WithLabelValues(mode, "export_error").Inc()
		b.logger.Error().Err(err).Str("file", filename).Msg("Result export failed")
		b.reply(msg, fmt.Sprintf(MsgFileExportError, err))

		return
	}

	observability.FilesProcessed.WithLabelValues(mode, "ok").Inc()
	b.sendDocument(msg.Chat.ID, table.ResultFilename(filename), data)
}
