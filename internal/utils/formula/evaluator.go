// Package formula resolves template line amount expressions at
// materialization time. The grammar is deliberately narrow and auditable:
// an expression is a literal number, a variable reference, or a single
// binary operation between the two, e.g. "base * 0.2" or "base - 150".
package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidExpression is returned when an expression cannot be parsed.
var ErrInvalidExpression = errors.New("invalid formula expression")

// ErrUnknownVariable is returned when an expression references a variable
// absent from the evaluation context.
var ErrUnknownVariable = errors.New("unknown formula variable")

// ErrDivisionByZero is returned when an expression divides by zero.
var ErrDivisionByZero = errors.New("formula division by zero")

var operators = map[string]struct{}{"+": {}, "-": {}, "*": {}, "/": {}}

// Evaluate resolves expr against the given variables. Supported forms:
//
//	"125.50"          literal
//	"base"            variable reference
//	"base * 0.2"      variable op literal
//	"0.2 * base"      literal op variable
func Evaluate(expr string, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	fields := strings.Fields(expr)
	switch len(fields) {
	case 1:
		return resolveOperand(fields[0], vars)
	case 3:
		left, err := resolveOperand(fields[0], vars)
		if err != nil {
			return decimal.Zero, err
		}
		right, err := resolveOperand(fields[2], vars)
		if err != nil {
			return decimal.Zero, err
		}
		return apply(left, fields[1], right)
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
	}
}

func resolveOperand(token string, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	if v, err := decimal.NewFromString(token); err == nil {
		return v, nil
	}
	if v, ok := vars[token]; ok {
		return v, nil
	}
	if _, isOp := operators[token]; isOp {
		return decimal.Zero, fmt.Errorf("%w: operand expected, got %q", ErrInvalidExpression, token)
	}
	return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownVariable, token)
}

func apply(left decimal.Decimal, op string, right decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case "+":
		return left.Add(right), nil
	case "-":
		return left.Sub(right), nil
	case "*":
		return left.Mul(right), nil
	case "/":
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		return left.Div(right), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported operator %q", ErrInvalidExpression, op)
	}
}
