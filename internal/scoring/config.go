package scoring

import "regexp"

// Vocabulary is the static matching configuration: subject keywords,
// known client names and subject regexes. All matching is case-folded
// substring containment except the regexes.
type Vocabulary struct {
	Keywords []string
	Clients  []string
	Patterns []*regexp.Regexp
}

// Config controls the scorer's thresholds and the amount gate.
type Config struct {
	Vocabulary

	// AmountMid and AmountHigh are the sub-score bucket boundaries:
	// amount >= AmountHigh scores 2, >= AmountMid scores 1.
	AmountMid  float64
	AmountHigh float64

	// MinAmount is the admission gate; 0 disables it entirely.
	MinAmount float64
	// KeywordOverridesAmount admits rows already qualifying via keyword
	// or pattern regardless of amount, so relevant-but-unpriced leads
	// are not discarded.
	KeywordOverridesAmount bool
}

// DefaultVocabulary is the product-data lead profile used by the bot.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Keywords: []string{
			"поставка",
			"закупка",
			"тендер",
			"оборудование",
			"монтаж",
			"обслуживание",
			"ремонт",
			"модернизация",
			"внедрение",
			"лицензия",
			"сопровождение",
			"интеграция",
		},
		Clients: []string{
			"газпром",
			"роснефть",
			"ржд",
			"росатом",
			"сбер",
			"ростех",
			"лукойл",
			"норникель",
		},
		// \b and \w are ASCII-only in Go regexps, so the patterns avoid
		// them around Cyrillic text.
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b44-?фз`),
			regexp.MustCompile(`(?i)\b223-?фз`),
			regexp.MustCompile(`(?i)госзакуп`),
			regexp.MustCompile(`(?i)электронн[^\s]*\s+аукцион`),
		},
	}
}

// Column detection alias lists, checked against trimmed case-folded
// headers: exact match first, then substring containment of any alias.
var (
	nameAliases   = []string{"наименование", "название", "предмет", "тема", "описание", "заявка", "name", "subject", "title"}
	clientAliases = []string{"компания", "клиент", "организация", "заказчик", "контрагент", "company", "client", "customer"}
	amountAliases = []string{"сумма", "цена", "стоимость", "бюджет", "нмцк", "amount", "price", "budget"}
)

// Synthesized headers used when a role is not found in the table.
const (
	defaultNameHeader   = "Наименование"
	defaultClientHeader = "Компания"
	defaultAmountHeader = "Сумма"
)
