package formula_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tallyworks/journal_engine/internal/utils/formula"
)

func TestEvaluate(t *testing.T) {
	vars := map[string]decimal.Decimal{
		"base": decimal.RequireFromString("1000"),
		"rate": decimal.RequireFromString("0.2"),
	}

	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "literal", expr: "125.50", want: "125.5"},
		{name: "negative literal", expr: "-42", want: "-42"},
		{name: "variable", expr: "base", want: "1000"},
		{name: "variable times literal", expr: "base * 0.2", want: "200"},
		{name: "literal times variable", expr: "0.2 * base", want: "200"},
		{name: "variable times variable", expr: "base * rate", want: "200"},
		{name: "addition", expr: "base + 150", want: "1150"},
		{name: "subtraction", expr: "base - 150", want: "850"},
		{name: "division", expr: "base / 4", want: "250"},
		{name: "extra whitespace", expr: "  base   *   0.2 ", want: "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formula.Evaluate(tt.expr, vars)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	vars := map[string]decimal.Decimal{
		"base": decimal.RequireFromString("1000"),
	}

	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{name: "empty expression", expr: "", wantErr: formula.ErrInvalidExpression},
		{name: "two tokens", expr: "base *", wantErr: formula.ErrInvalidExpression},
		{name: "four tokens", expr: "base * 0.2 extra", wantErr: formula.ErrInvalidExpression},
		{name: "operator as operand", expr: "* + *", wantErr: formula.ErrInvalidExpression},
		{name: "unsupported operator", expr: "base % 2", wantErr: formula.ErrInvalidExpression},
		{name: "unknown variable", expr: "bonus", wantErr: formula.ErrUnknownVariable},
		{name: "unknown variable in operation", expr: "bonus * 0.2", wantErr: formula.ErrUnknownVariable},
		{name: "division by zero", expr: "base / 0", wantErr: formula.ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formula.Evaluate(tt.expr, vars)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
