// Package crm creates leads through a Bitrix-style inbound webhook. The
// webhook base URL already carries the credentials, so the client only
// appends the method name and posts JSON.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prodatadev/prodata-bot/internal/config"
)

const leadAddMethod = "crm.lead.add.json"

// ErrNotConfigured is returned when no webhook URL is set; callers report
// it to the user without attempting a request.
var ErrNotConfigured = errors.New("crm webhook url is not configured")

// Lead is the subset of Bitrix lead fields the bot fills in.
type Lead struct {
	Title    string
	Name     string
	Phone    string
	Comments string
	SourceID string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    cfg.CRMWebhookURL,
		httpClient: &http.Client{Timeout: cfg.CRMTimeout},
		logger:     logger,
	}
}

type leadAddRequest struct {
	Fields leadFields `json:"fields"`
	Params leadParams `json:"params"`
}

type leadFields struct {
	Title    string      `json:"TITLE"`
	Name     string      `json:"NAME,omitempty"`
	Comments string      `json:"COMMENTS,omitempty"`
	SourceID string      `json:"SOURCE_ID,omitempty"`
	Phone    []leadPhone `json:"PHONE,omitempty"`
}

type leadPhone struct {
	Value     string `json:"VALUE"`
	ValueType string `json:"VALUE_TYPE"`
}

type leadParams struct {
	RegisterSonetEvent string `json:"REGISTER_SONET_EVENT"`
}

type leadAddResponse struct {
	Result           json.Number `json:"result"`
	Error            string      `json:"error"`
	ErrorDescription string      `json:"error_description"`
}

// CreateLead posts the lead and returns the created record id. Webhook
// errors come back inside a 200 response as error/error_description, so
// both the HTTP status and the body envelope are checked.
func (c *Client) CreateLead(ctx context.Context, lead Lead) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	body := leadAddRequest{
		Fields: leadFields{
			Title:    lead.Title,
			Name:     lead.Name,
			Comments: lead.Comments,
			SourceID: lead.SourceID,
		},
		Params: leadParams{RegisterSonetEvent: "Y"},
	}
	if lead.Phone != "" {
		body.Fields.Phone = []leadPhone{{Value: lead.Phone, ValueType: "WORK"}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal lead payload: %w", err)
	}

	url := strings.TrimRight(c.baseURL, "/") + "/" + leadAddMethod

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build lead request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("crm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read crm response: %w", err)
	}

	var parsed leadAddResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("crm returned status %d: %s", resp.StatusCode, excerpt(raw))
	}

	if parsed.Error != "" || parsed.ErrorDescription != "" {
		c.logger.Warn().
			Str("error", parsed.Error).
			Str("description", parsed.ErrorDescription).
			Msg("CRM rejected lead")

		desc := parsed.ErrorDescription
		if desc == "" {
			desc = parsed.Error
		}

		return "", fmt.Errorf("crm error: %s", desc)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("crm returned status %d: %s", resp.StatusCode, excerpt(raw))
	}

	if parsed.Result == "" {
		return "", fmt.Errorf("crm response has no result id: %s", excerpt(raw))
	}

	c.logger.Info().Str("lead_id", parsed.Result.String()).Msg("CRM lead created")

	return parsed.Result.String(), nil
}

func excerpt(raw []byte) string {
	const max = 200

	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		s = s[:max] + "…"
	}

	return s
}
