package rules

import (
	"fmt"
	"strings"

	"github.com/prodatadev/prodata-bot/internal/table"
)

// Result is the outcome of applying a rule set: the surviving rows plus a
// human-readable trace. The first trace line is the pass/total summary,
// followed by one line per parsed rule in input order.
type Result struct {
	Table *table.Table
	Trace []string
}

const traceNoRules = "Правила не заданы — фильтрация не выполнялась."

// Apply filters t by the conjunction of all rules. A rule referencing an
// unknown column is skipped with a trace note; a literal that cannot be
// coerced into the column's type matches nothing. The input table is not
// mutated and rows are never reordered.
func Apply(t *table.Table, ruleset []Rule) Result {
	total := t.NumRows()

	if len(ruleset) == 0 {
		return Result{Table: t, Trace: []string{traceNoRules}}
	}

	mask := make([]bool, total)
	for i := range mask {
		mask[i] = true
	}

	var trace []string

	coercions := make(map[int]*table.Coercion)

	for _, r := range ruleset {
		idx := t.ColumnIndex(r.Column)
		if idx < 0 {
			trace = append(trace, fmt.Sprintf("Правило «%s»: колонка «%s» не найдена, пропущено.", r, r.Column))
			continue
		}

		c, ok := coercions[idx]
		if !ok {
			c = table.Coerce(t.Column(idx))
			coercions[idx] = c
		}

		ruleMask, note := evalRule(c, r, total)

		passed := 0

		for i := range mask {
			if ruleMask[i] {
				passed++
			}

			mask[i] = mask[i] && ruleMask[i]
		}

		line := fmt.Sprintf("Правило «%s» (%s): прошло %d.", r, c.Kind, passed)
		if note != "" {
			line = fmt.Sprintf("Правило «%s» (%s): %s, прошло %d.", r, c.Kind, note, passed)
		}

		trace = append(trace, line)
	}

	filtered := t.FilterRows(mask)
	dropped := total - filtered.NumRows()
	summary := fmt.Sprintf("Отфильтровано %d из %d строк, прошло %d.", dropped, total, filtered.NumRows())

	return Result{Table: filtered, Trace: append([]string{summary}, trace...)}
}

// evalRule builds the standalone mask for one rule. The returned note is
// non-empty when the literal was incomparable with the column type.
func evalRule(c *table.Coercion, r Rule, total int) ([]bool, string) {
	mask := make([]bool, total)

	if r.Op == "~" {
		// Substring containment works on the case-folded string form no
		// matter what type the column was inferred as.
		_, needle, _ := c.Literal(r.Literal)
		for i := 0; i < total; i++ {
			mask[i] = strings.Contains(c.Text(i), needle)
		}

		return mask, ""
	}

	litNum, litText, ok := c.Literal(r.Literal)
	if !ok {
		// Incomparable literal: nothing matches, the rule stays in the trace.
		return mask, "значение несравнимо с типом колонки"
	}

	for i := 0; i < total; i++ {
		if c.Kind == table.KindText {
			mask[i] = compareText(c.Text(i), r.Op, litText)
			continue
		}

		cell, cellOK := c.Num(i)
		if !cellOK {
			continue
		}

		mask[i] = compareNum(cell, r.Op, litNum)
	}

	return mask, ""
}

func compareNum(a float64, op string, b float64) bool {
	switch op {
	case "=":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	default:
		return false
	}
}

func compareText(a, op, b string) bool {
	switch op {
	case "=":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	default:
		return false
	}
}
