// Package rules implements the user-facing filter mini-language: clauses
// of the form <column><op><value> separated by semicolons or newlines,
// applied to an uploaded table as a conjunctive predicate.
package rules

import "strings"

// Rule is a single parsed filter clause.
type Rule struct {
	Column  string
	Op      string
	Literal string
}

func (r Rule) String() string {
	return r.Column + r.Op + r.Literal
}

// ParseResult carries the accepted rules in input order plus the clauses
// that did not match the grammar. Historically unparseable clauses were
// dropped silently; they are surfaced here so callers can decide.
type ParseResult struct {
	Rules   []Rule
	Skipped []string
}

// Two-character operators must come before their one-character prefixes,
// otherwise "<=" tokenizes as "<" against the literal "=...".
var operators = []string{"<=", ">=", "!=", "=", "<", ">", "~"}

// Parse splits free text into filter rules. Clause order is preserved.
func Parse(text string) ParseResult {
	var res ParseResult

	clauses := strings.FieldsFunc(text, func(r rune) bool {
		return r == ';' || r == '\n'
	})

	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		rule, ok := parseClause(clause)
		if !ok {
			res.Skipped = append(res.Skipped, clause)
			continue
		}

		res.Rules = append(res.Rules, rule)
	}

	return res
}

func parseClause(clause string) (Rule, bool) {
	for i := 0; i < len(clause); i++ {
		for _, op := range operators {
			if !strings.HasPrefix(clause[i:], op) {
				continue
			}

			column := strings.TrimSpace(clause[:i])
			literal := strings.TrimSpace(clause[i+len(op):])

			if column == "" || literal == "" {
				return Rule{}, false
			}

			return Rule{Column: column, Op: op, Literal: literal}, true
		}
	}

	return Rule{}, false
}
