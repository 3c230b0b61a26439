// Package scoring ranks uploaded lead tables: independent keyword,
// client, amount and pattern sub-scores per row, combined into a total,
// a priority tier and an explanation string.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/prodatadev/prodata-bot/internal/table"
)

// Sub-score caps and priority boundaries.
const (
	keywordCap       = 4
	clientMatchScore = 3
	priorityHigh     = 7
	priorityMedium   = 4
)

// Priority is the tier derived from the total score.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "Высокий"
	case PriorityMedium:
		return "Средний"
	default:
		return "Низкий"
	}
}

// PriorityFor partitions totals strictly: High for >=7, Medium for >=4,
// Low otherwise.
func PriorityFor(total int) Priority {
	switch {
	case total >= priorityHigh:
		return PriorityHigh
	case total >= priorityMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Score holds the four independent sub-scores of one row.
type Score struct {
	Keyword int
	Client  int
	Amount  int
	Pattern int
}

func (s Score) Total() int {
	return s.Keyword + s.Client + s.Amount + s.Pattern
}

func (s Score) Priority() Priority {
	return PriorityFor(s.Total())
}

// Explanation lists the non-zero criteria in fixed order: keywords,
// client, amount, pattern.
func (s Score) Explanation() string {
	var parts []string

	if s.Keyword > 0 {
		parts = append(parts, fmt.Sprintf("ключевые слова (%d)", s.Keyword))
	}

	if s.Client > 0 {
		parts = append(parts, "известный клиент")
	}

	if s.Amount > 0 {
		parts = append(parts, "крупная сумма")
	}

	if s.Pattern > 0 {
		parts = append(parts, "профильный шаблон")
	}

	if len(parts) == 0 {
		return "совпадений нет"
	}

	return strings.Join(parts, ", ")
}

// Diagnostics summarizes one scoring run for the caller to render.
type Diagnostics struct {
	NameColumn   string
	ClientColumn string
	AmountColumn string
	NameFound    bool
	ClientFound  bool
	AmountFound  bool

	KeywordHits int
	ClientHits  int
	AmountHits  int
	PatternHits int

	RowsIn  int
	RowsOut int
}

type Scorer struct {
	cfg   Config
	caser cases.Caser
}

func New(cfg Config) *Scorer {
	caser := cases.Fold()

	// Vocabulary entries are folded once here so row matching compares
	// folded text on both sides.
	cfg.Keywords = foldAll(caser, cfg.Keywords)
	cfg.Clients = foldAll(caser, cfg.Clients)

	return &Scorer{
		cfg:   cfg,
		caser: caser,
	}
}

func foldAll(caser cases.Caser, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = caser.String(v)
	}

	return out
}

// detectedColumn is the typed result of role detection; Found false
// means the role column is synthesized as empty instead of colliding
// with a real column under a default name.
type detectedColumn struct {
	Index  int
	Header string
	Found  bool
}

func detectColumn(headers []string, aliases []string, fallback string) detectedColumn {
	caser := cases.Fold()

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = caser.String(strings.TrimSpace(h))
	}

	for _, alias := range aliases {
		for i, h := range normalized {
			if h == alias {
				return detectedColumn{Index: i, Header: headers[i], Found: true}
			}
		}
	}

	for _, alias := range aliases {
		for i, h := range normalized {
			if strings.Contains(h, alias) {
				return detectedColumn{Index: i, Header: headers[i], Found: true}
			}
		}
	}

	return detectedColumn{Index: -1, Header: fallback}
}

func (d detectedColumn) cell(t *table.Table, row int) string {
	if !d.Found {
		return ""
	}

	return t.Cell(row, d.Index)
}

type scoredRow struct {
	index  int
	cells  []string
	score  Score
	amount float64
}

// Score computes sub-scores for every row, admits rows through the
// semantic and amount gates and returns a new augmented table sorted by
// priority. The input table is not mutated.
func (s *Scorer) Score(t *table.Table) (*table.Table, Diagnostics) {
	name := detectColumn(t.Headers, nameAliases, defaultNameHeader)
	client := detectColumn(t.Headers, clientAliases, defaultClientHeader)
	amount := detectColumn(t.Headers, amountAliases, defaultAmountHeader)

	diag := Diagnostics{
		NameColumn:   name.Header,
		ClientColumn: client.Header,
		AmountColumn: amount.Header,
		NameFound:    name.Found,
		ClientFound:  client.Found,
		AmountFound:  amount.Found,
		RowsIn:       t.NumRows(),
	}

	var kept []scoredRow

	for i := range t.Rows {
		nameText := s.caser.String(name.cell(t, i))
		clientText := s.caser.String(client.cell(t, i))

		amt, amtOK := table.ParseNumber(amount.cell(t, i))
		if !amtOK {
			amt = 0
		}

		sc := Score{
			Keyword: s.keywordScore(nameText),
			Client:  s.clientScore(clientText),
			Amount:  s.amountScore(amt, amtOK),
			Pattern: s.patternScore(name.cell(t, i)),
		}

		if sc.Keyword > 0 {
			diag.KeywordHits++
		}

		if sc.Client > 0 {
			diag.ClientHits++
		}

		if sc.Amount > 0 {
			diag.AmountHits++
		}

		if sc.Pattern > 0 {
			diag.PatternHits++
		}

		if !s.admit(sc, amt) {
			continue
		}

		kept = append(kept, scoredRow{index: i, cells: t.Rows[i], score: sc, amount: amt})
	}

	sort.SliceStable(kept, func(a, b int) bool {
		ra, rb := kept[a], kept[b]

		if pa, pb := ra.score.Priority(), rb.score.Priority(); pa != pb {
			return pa < pb
		}

		if ta, tb := ra.score.Total(), rb.score.Total(); ta != tb {
			return ta > tb
		}

		return ra.amount > rb.amount
	})

	out := &table.Table{
		Headers: append(append([]string{}, t.Headers...),
			"Ключевые слова", "Клиент", "Сумма (балл)", "Шаблон", "Итоговый балл", "Приоритет", "Обоснование"),
	}

	for _, r := range kept {
		row := append(append([]string{}, r.cells...),
			fmt.Sprint(r.score.Keyword),
			fmt.Sprint(r.score.Client),
			fmt.Sprint(r.score.Amount),
			fmt.Sprint(r.score.Pattern),
			fmt.Sprint(r.score.Total()),
			r.score.Priority().String(),
			r.score.Explanation(),
		)
		out.Rows = append(out.Rows, row)
	}

	diag.RowsOut = len(out.Rows)

	return out, diag
}

// keywordScore counts distinct vocabulary keywords in the case-folded
// subject text, capped at 4.
func (s *Scorer) keywordScore(nameText string) int {
	if nameText == "" {
		return 0
	}

	hits := 0

	for _, kw := range s.cfg.Keywords {
		if strings.Contains(nameText, kw) {
			hits++
			if hits == keywordCap {
				break
			}
		}
	}

	return hits
}

func (s *Scorer) clientScore(clientText string) int {
	if clientText == "" {
		return 0
	}

	for _, c := range s.cfg.Clients {
		if strings.Contains(clientText, c) {
			return clientMatchScore
		}
	}

	return 0
}

func (s *Scorer) amountScore(amt float64, ok bool) int {
	if !ok {
		return 0
	}

	switch {
	case amt >= s.cfg.AmountHigh:
		return 2
	case amt >= s.cfg.AmountMid:
		return 1
	default:
		return 0
	}
}

func (s *Scorer) patternScore(nameText string) int {
	for _, re := range s.cfg.Patterns {
		if re.MatchString(nameText) {
			return 1
		}
	}

	return 0
}

// admit applies the semantic gate (any of keyword/client/pattern) and
// the configurable amount gate.
func (s *Scorer) admit(sc Score, amt float64) bool {
	if sc.Keyword == 0 && sc.Client == 0 && sc.Pattern == 0 {
		return false
	}

	if s.cfg.MinAmount <= 0 {
		return true
	}

	if amt >= s.cfg.MinAmount {
		return true
	}

	return s.cfg.KeywordOverridesAmount && (sc.Keyword > 0 || sc.Pattern > 0)
}
