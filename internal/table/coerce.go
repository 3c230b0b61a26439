package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
)

// Kind is the inferred semantic type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "число"
	case KindDate:
		return "дата"
	default:
		return "текст"
	}
}

const (
	// typeFraction is the share of non-empty values that must parse as a
	// candidate type for the column to take that type.
	typeFraction = 0.2
	// minTypeHits guards tiny columns against a single lucky parse.
	minTypeHits = 2
)

// Coercion holds a column normalized into its inferred type. Numeric and
// date cells share a float64 representation (dates as unix seconds); text
// cells are compared case-folded. Cells that fail to parse are marked
// incomparable rather than raising.
type Coercion struct {
	Kind Kind

	nums  []float64
	numOK []bool
	texts []string
	raw   []string
	caser cases.Caser
}

// Coerce infers the semantic type of a column from its non-empty values
// and normalizes every cell into that type. Date inference takes priority
// over numeric, numeric over text.
func Coerce(values []string) *Coercion {
	nonEmpty := 0
	dateHits := 0
	numHits := 0

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		nonEmpty++

		if _, ok := ParseDate(v); ok {
			dateHits++
		}

		if _, ok := ParseNumber(v); ok {
			numHits++
		}
	}

	kind := KindText

	switch {
	case qualifies(dateHits, nonEmpty):
		kind = KindDate
	case qualifies(numHits, nonEmpty):
		kind = KindNumber
	}

	c := &Coercion{
		Kind:  kind,
		raw:   values,
		texts: make([]string, len(values)),
		caser: cases.Fold(),
	}

	if kind != KindText {
		c.nums = make([]float64, len(values))
		c.numOK = make([]bool, len(values))
	}

	for i, v := range values {
		c.texts[i] = c.caser.String(strings.TrimSpace(v))

		switch kind {
		case KindDate:
			if t, ok := ParseDate(v); ok {
				c.nums[i] = float64(t.Unix())
				c.numOK[i] = true
			}
		case KindNumber:
			if f, ok := ParseNumber(v); ok {
				c.nums[i] = f
				c.numOK[i] = true
			}
		}
	}

	return c
}

func qualifies(hits, nonEmpty int) bool {
	if nonEmpty == 0 || hits < minTypeHits {
		return false
	}

	return float64(hits) >= typeFraction*float64(nonEmpty)
}

// Num returns the numeric representation of cell i for date/number
// columns. ok is false for incomparable cells and for text columns.
func (c *Coercion) Num(i int) (float64, bool) {
	if c.Kind == KindText || i >= len(c.nums) {
		return 0, false
	}

	return c.nums[i], c.numOK[i]
}

// Text returns the case-folded cell i.
func (c *Coercion) Text(i int) string {
	if i >= len(c.texts) {
		return ""
	}

	return c.texts[i]
}

// Raw returns the original cell i.
func (c *Coercion) Raw(i int) string {
	if i >= len(c.raw) {
		return ""
	}

	return c.raw[i]
}

// Literal normalizes a rule literal into the column's representation.
// For date/number columns ok reports whether the literal is comparable;
// a text column always succeeds with the folded string.
func (c *Coercion) Literal(s string) (num float64, text string, ok bool) {
	text = c.caser.String(strings.TrimSpace(s))

	switch c.Kind {
	case KindDate:
		t, parsed := ParseDate(s)
		if !parsed {
			return 0, text, false
		}

		return float64(t.Unix()), text, true
	case KindNumber:
		f, parsed := ParseNumber(s)
		if !parsed {
			return 0, text, false
		}

		return f, text, true
	default:
		return 0, text, true
	}
}

// ParseNumber parses a human-entered number: thousands separated by
// spaces (regular or non-breaking), decimal comma or point.
// "1 234,56" parses as 1234.56.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	s = strings.NewReplacer(" ", "", " ", "", " ", "").Replace(s)

	if strings.Contains(s, ",") {
		// A comma alongside a point is a thousands separator, alone it
		// is a decimal comma.
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// ParseDate parses a calendar date under a day-first convention
// ("02.05.2024" is the second of May). Bare numbers are not dates even
// when dateparse could squeeze a timestamp out of them.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "./-") {
		return time.Time{}, false
	}

	hasDigit := false

	for _, r := range s {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}

	if !hasDigit {
		return time.Time{}, false
	}

	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
