// Package clause parses and evaluates WHERE and SET clauses.
package clause

import (
	"fmt"
	"strings"

	"github.com/tobsdb/tdblite/internal/coerce"
	"github.com/tobsdb/tdblite/internal/types"
)

type Operator string

const (
	OperatorEqual          Operator = "="
	OperatorLess           Operator = "<"
	OperatorGreater        Operator = ">"
	OperatorLessOrEqual    Operator = "<="
	OperatorGreaterOrEqual Operator = ">="
)

// two-character operators come first so "=" never matches inside ">=" or "<="
var OPERATOR_SCAN_ORDER = []Operator{
	OperatorGreaterOrEqual, OperatorLessOrEqual,
	OperatorGreater, OperatorLess, OperatorEqual,
}

const WHERE_PATTERN = "column operator value"

// Predicate is a single column/operator/literal condition.
// A nil *Predicate matches every record.
type Predicate struct {
	Column string
	Op     Operator
	Value  string
}

func (p *Predicate) String() string {
	if p == nil {
		return "<all>"
	}
	return fmt.Sprintf("%s %s %q", p.Column, p.Op, p.Value)
}

// ParseWhere parses a condition with an optional leading WHERE keyword.
// An empty condition yields a nil predicate; a WHERE keyword with nothing
// after it is a syntax error.
func ParseWhere(condition string) (*Predicate, error) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil, nil
	}
	condition = stripKeyword(condition, "WHERE")

	op := findOperator(condition)
	if op == "" {
		return nil, invalidWhereError(condition)
	}

	parts := strings.SplitN(condition, string(op), 2)
	if len(parts) != 2 {
		return nil, invalidWhereError(condition)
	}

	column := strings.TrimSpace(parts[0])
	if column == "" {
		return nil, invalidWhereError(condition)
	}

	return &Predicate{Column: column, Op: op, Value: unquote(strings.TrimSpace(parts[1]))}, nil
}

// Match coerces the literal to the type of the value stored in the record
// and applies the operator. Records without the column, or whose stored
// type cannot hold the literal, do not match.
func (p *Predicate) Match(r types.Record) bool {
	if p == nil {
		return true
	}

	stored, ok := r[p.Column]
	if !ok {
		return false
	}

	input, err := coerce.ValidateAndConvert(p.Value, stored.Type)
	if err != nil {
		return false
	}

	c := stored.Compare(input)
	switch p.Op {
	case OperatorEqual:
		return c == 0
	case OperatorLess:
		return c < 0
	case OperatorGreater:
		return c > 0
	case OperatorLessOrEqual:
		return c <= 0
	case OperatorGreaterOrEqual:
		return c >= 0
	}
	return false
}

// HasOperator reports whether s contains a comparison operator.
func HasOperator(s string) bool { return findOperator(s) != "" }

func findOperator(condition string) Operator {
	for _, candidate := range OPERATOR_SCAN_ORDER {
		if strings.Contains(condition, string(candidate)) {
			return candidate
		}
	}
	return ""
}

func invalidWhereError(condition string) error {
	return types.QueryErrorf(types.ErrInvalidPredicateSyntax,
		"Invalid WHERE condition %q. Use: %s", condition, WHERE_PATTERN)
}

// stripKeyword removes a leading case-insensitive keyword followed by
// whitespace or the end of the string.
func stripKeyword(s, keyword string) string {
	s = strings.TrimSpace(s)
	if len(s) < len(keyword) || !strings.EqualFold(s[:len(keyword)], keyword) {
		return s
	}
	rest := s[len(keyword):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return s
	}
	return strings.TrimSpace(rest)
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
