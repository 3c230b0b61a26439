package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodatadev/prodata-bot/internal/table"
)

func testConfig() Config {
	return Config{
		Vocabulary: DefaultVocabulary(),
		AmountMid:  100000,
		AmountHigh: 500000,
	}
}

func leadsTable() *table.Table {
	return &table.Table{
		Headers: []string{"Наименование", "Компания", "Сумма"},
		Rows: [][]string{
			{"Поставка и монтаж оборудования по 44-ФЗ", "Газпром", "600000"},
			{"Закупка канцтоваров", "ООО Ромашка", "20000"},
			{"Доставка пиццы", "ИП Иванов", "1500"},
		},
	}
}

func TestPriorityPartition(t *testing.T) {
	for total := 0; total <= 10; total++ {
		p := PriorityFor(total)

		switch {
		case total >= 7:
			assert.Equal(t, PriorityHigh, p, "total %d", total)
		case total >= 4:
			assert.Equal(t, PriorityMedium, p, "total %d", total)
		default:
			assert.Equal(t, PriorityLow, p, "total %d", total)
		}
	}
}

func TestKeywordScoreIsMonotonic(t *testing.T) {
	s := New(testConfig())

	base := "закупка насосов"
	extended := base + " и монтаж"

	assert.GreaterOrEqual(t, s.keywordScore(extended), s.keywordScore(base))
}

func TestKeywordScoreCap(t *testing.T) {
	s := New(testConfig())

	text := "поставка закупка тендер оборудование монтаж ремонт"

	assert.Equal(t, 4, s.keywordScore(text))
}

func TestScoreExplanationOrder(t *testing.T) {
	sc := Score{Keyword: 2, Client: 3, Amount: 1, Pattern: 1}

	assert.Equal(t, "ключевые слова (2), известный клиент, крупная сумма, профильный шаблон", sc.Explanation())

	empty := Score{}
	assert.Equal(t, "совпадений нет", empty.Explanation())
}

func TestDetectColumnExactBeforeSubstring(t *testing.T) {
	headers := []string{"Сумма контракта", "Сумма"}

	d := detectColumn(headers, amountAliases, defaultAmountHeader)

	require.True(t, d.Found)
	assert.Equal(t, "Сумма", d.Header)
	assert.Equal(t, 1, d.Index)
}

func TestDetectColumnSubstringFallback(t *testing.T) {
	headers := []string{"Наименование закупки"}

	d := detectColumn(headers, nameAliases, defaultNameHeader)

	require.True(t, d.Found)
	assert.Equal(t, 0, d.Index)
}

func TestDetectColumnNotFound(t *testing.T) {
	d := detectColumn([]string{"x", "y"}, amountAliases, defaultAmountHeader)

	assert.False(t, d.Found)
	assert.Equal(t, defaultAmountHeader, d.Header)
	assert.Equal(t, -1, d.Index)
}

func TestScoreEndToEnd(t *testing.T) {
	s := New(testConfig())

	out, diag := s.Score(leadsTable())

	assert.Equal(t, 3, diag.RowsIn)
	require.Equal(t, 2, diag.RowsOut, "the pizza row has no semantic match")

	// Augmented header block comes after the original columns.
	require.Len(t, out.Headers, 10)
	assert.Equal(t, "Приоритет", out.Headers[8])

	// The 44-ФЗ row scores keyword(2) + client(3) + amount(2) + pattern(1) = 8.
	assert.Equal(t, "Поставка и монтаж оборудования по 44-ФЗ", out.Cell(0, 0))
	assert.Equal(t, "8", out.Cell(0, 7))
	assert.Equal(t, "Высокий", out.Cell(0, 8))

	// The stationery row: keyword(1) only, total 1, Low.
	assert.Equal(t, "Закупка канцтоваров", out.Cell(1, 0))
	assert.Equal(t, "1", out.Cell(1, 7))
	assert.Equal(t, "Низкий", out.Cell(1, 8))
}

func TestScoreKeywordsOnlyRowIsLow(t *testing.T) {
	s := New(testConfig())

	tbl := &table.Table{
		Headers: []string{"Наименование", "Компания", "Сумма"},
		Rows:    [][]string{{"Поставка и монтаж", "ООО Никто", "0"}},
	}

	out, diag := s.Score(tbl)

	require.Equal(t, 1, diag.RowsOut)
	assert.Equal(t, "2", out.Cell(0, 7))
	assert.Equal(t, "Низкий", out.Cell(0, 8))
}

func TestScoreMatchingFoldsCase(t *testing.T) {
	cfg := testConfig()
	cfg.Keywords = []string{"strasse"}
	cfg.Clients = []string{"großhandel"}

	s := New(cfg)

	tbl := &table.Table{
		Headers: []string{"Наименование", "Компания", "Сумма"},
		Rows:    [][]string{{"STRASSE-Projekt", "GROSSHANDEL AG", "0"}},
	}

	out, diag := s.Score(tbl)

	require.Equal(t, 1, diag.RowsOut)

	// "GROSSHANDEL" matches "großhandel" only under full case folding.
	assert.Equal(t, "1", out.Cell(0, 3))
	assert.Equal(t, "3", out.Cell(0, 4))
}

func TestScoreSortIsStable(t *testing.T) {
	s := New(testConfig())

	tbl := &table.Table{
		Headers: []string{"Наименование", "Компания", "Сумма"},
		Rows: [][]string{
			{"Закупка А", "ООО Один", "50000"},
			{"Закупка Б", "ООО Два", "50000"},
		},
	}

	out, _ := s.Score(tbl)

	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, "Закупка А", out.Cell(0, 0))
	assert.Equal(t, "Закупка Б", out.Cell(1, 0))
}

func TestAmountGate(t *testing.T) {
	cfg := testConfig()
	cfg.MinAmount = 30000

	s := New(cfg)

	tbl := &table.Table{
		Headers: []string{"Наименование", "Компания", "Сумма"},
		Rows: [][]string{
			{"Сервис без ключевых слов у известного клиента", "Газпром", "1000"},
		},
	}

	_, diag := s.Score(tbl)
	assert.Equal(t, 0, diag.RowsOut, "client match alone does not override the amount gate")

	cfg.KeywordOverridesAmount = true
	s = New(cfg)

	tbl.Rows[0][0] = "Закупка у известного клиента"

	_, diag = s.Score(tbl)
	assert.Equal(t, 1, diag.RowsOut, "keyword match overrides the amount gate")
}
