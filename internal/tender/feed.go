// Package tender fetches a remote procurement feed. The feed is plain XML
// whose element names drift between schema revisions, so records are
// located structurally and fields are read under alternate tag names.
package tender

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prodatadev/prodata-bot/internal/config"
)

// Tender is one normalized feed record.
type Tender struct {
	Number  string
	Subject string
	Status  string
	Link    string
}

// Alternate tag names per field, first match wins. Covers the naming drift
// observed across feed schema revisions.
var (
	numberTags  = []string{"purchaseNumber", "registrationNumber", "number"}
	subjectTags = []string{"purchaseObjectInfo", "subject", "name"}
	statusTags  = []string{"status", "state"}
)

const recordTag = "Procedure"

type Client struct {
	feedURL    string
	linkBase   string
	limit      int
	httpClient *http.Client
	logger     *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) (*Client, error) {
	transport := http.DefaultTransport

	if cfg.TenderProxyURL != "" {
		proxyURL, err := url.Parse(cfg.TenderProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid tender proxy url: %w", err)
		}

		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &Client{
		feedURL:    cfg.TenderFeedURL,
		linkBase:   cfg.TenderLinkBase,
		limit:      cfg.TenderLimit,
		httpClient: &http.Client{Timeout: cfg.TenderTimeout, Transport: transport},
		logger:     logger,
	}, nil
}

// Fetch downloads and parses the feed, returning at most the configured
// number of records. Upstream failures carry a short body excerpt so they
// can be debugged from the user-visible message alone.
func (c *Client) Fetch(ctx context.Context) ([]Tender, error) {
	if c.feedURL == "" {
		return nil, fmt.Errorf("tender feed url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read feed response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, excerpt(raw))
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("feed returned an empty body")
	}

	var root xmlNode
	if err := xml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("feed parse failed: %w: %s", err, excerpt(raw))
	}

	var tenders []Tender

	root.walk(func(n *xmlNode) {
		if !strings.EqualFold(n.XMLName.Local, recordTag) {
			return
		}

		if len(tenders) >= c.limit {
			return
		}

		t := Tender{
			Number:  n.firstText(numberTags),
			Subject: n.firstText(subjectTags),
			Status:  n.firstText(statusTags),
		}
		if t.Number != "" {
			t.Link = c.linkBase + t.Number
		}

		if t.Number == "" && t.Subject == "" {
			return
		}

		tenders = append(tenders, t)
	})

	c.logger.Debug().Int("records", len(tenders)).Msg("Tender feed fetched")

	return tenders, nil
}

// xmlNode is a schema-free view of the document: name, flattened text and
// children, enough to search by local element name.
type xmlNode struct {
	XMLName  xml.Name
	Content  string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

func (n *xmlNode) walk(visit func(*xmlNode)) {
	visit(n)

	for i := range n.Children {
		n.Children[i].walk(visit)
	}
}

// firstText returns the trimmed text of the first descendant whose local
// name matches any of the given tags, in tag-preference order.
func (n *xmlNode) firstText(tags []string) string {
	for _, tag := range tags {
		var found string

		n.walk(func(d *xmlNode) {
			if found == "" && strings.EqualFold(d.XMLName.Local, tag) {
				found = strings.TrimSpace(d.Content)
			}
		})

		if found != "" {
			return found
		}
	}

	return ""
}

func excerpt(raw []byte) string {
	const max = 200

	s := strings.TrimSpace(string(raw))
	if len(s) > max {
		s = s[:max] + "…"
	}

	return s
}
