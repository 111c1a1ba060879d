package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tokenExpectation represents expected token properties for testing
type tokenExpectation struct {
	Type   TokenType
	Text   string
	Column int
}

func assertTokens(t *testing.T, input string, expected []tokenExpectation) {
	t.Helper()
	tokens, _ := Scan(input)

	got := make([]tokenExpectation, len(tokens))
	for i, tok := range tokens {
		got[i] = tokenExpectation{tok.Type, tok.Text, tok.Position.Column}
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("tokens mismatch for %q (-want +got):\n%s", input, diff)
	}
}

func TestReferences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "variable_addition",
			input: "[v1]+[v2]",
			expected: []tokenExpectation{
				{REFERENCE, "[v1]", 1},
				{PLUS, "+", 5},
				{REFERENCE, "[v2]", 6},
			},
		},
		{
			name:     "baseline",
			input:    "[LINEA_BASE]",
			expected: []tokenExpectation{{BASELINE, "[LINEA_BASE]", 1}},
		},
		{
			name:  "tagged_references",
			input: "[MV:1] [MI:2] [QV:3] [QI:4] [AV:5]",
			expected: []tokenExpectation{
				{GOAL_VARIABLE, "[MV:1]", 1},
				{GOAL_INDICATOR, "[MI:2]", 8},
				{QUAD_VARIABLE, "[QV:3]", 15},
				{QUAD_INDICATOR, "[QI:4]", 22},
				{ADVANCE, "[AV:5]", 29},
			},
		},
		{
			name:     "unknown_prefix_is_plain_reference",
			input:    "[XX:7]",
			expected: []tokenExpectation{{REFERENCE, "[XX:7]", 1}},
		},
		{
			name:     "empty_tagged_id_falls_back_to_reference",
			input:    "[MV:]",
			expected: []tokenExpectation{{REFERENCE, "[MV:]", 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.expected)
		})
	}
}

func TestFunctionsAndSymbols(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "sum_call",
			input: "SUM([a], 2.5)",
			expected: []tokenExpectation{
				{FUNCTION, "SUM(", 1},
				{REFERENCE, "[a]", 5},
				{COMMA, ",", 8},
				{NUMBER, "2.5", 10},
				{RPAREN, ")", 13},
			},
		},
		{
			name:  "lowercase_function",
			input: "avg(1)",
			expected: []tokenExpectation{
				{FUNCTION, "avg(", 1},
				{NUMBER, "1", 5},
				{RPAREN, ")", 6},
			},
		},
		{
			name:  "if_with_comparisons",
			input: "IF([a] ≥ 3, 1, 0)",
			expected: []tokenExpectation{
				{FUNCTION, "IF(", 1},
				{REFERENCE, "[a]", 4},
				{GT_EQ, "≥", 8},
				{NUMBER, "3", 10},
				{COMMA, ",", 11},
				{NUMBER, "1", 13},
				{COMMA, ",", 14},
				{NUMBER, "0", 16},
				{RPAREN, ")", 17},
			},
		},
		{
			name:  "all_comparisons",
			input: "= ≠ > < ≥ ≤",
			expected: []tokenExpectation{
				{EQUALS, "=", 1},
				{NOT_EQ, "≠", 3},
				{GT, ">", 5},
				{LT, "<", 7},
				{GT_EQ, "≥", 9},
				{LT_EQ, "≤", 11},
			},
		},
		{
			name:  "arithmetic_and_parens",
			input: "(1 - 2) * 3 / 4",
			expected: []tokenExpectation{
				{LPAREN, "(", 1},
				{NUMBER, "1", 2},
				{MINUS, "-", 4},
				{NUMBER, "2", 6},
				{RPAREN, ")", 7},
				{MULTIPLY, "*", 9},
				{NUMBER, "3", 11},
				{DIVIDE, "/", 13},
				{NUMBER, "4", 15},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.input, tt.expected)
		})
	}
}

func TestUnmatchedInputIsDropped(t *testing.T) {
	tokens, skipped := Scan("  FOO([a]) + x % 2")

	want := []string{"(", "[a]", ")", "+", "2"}
	got := make([]string, len(tokens))
	for i, tok := range tokens {
		got[i] = tok.Text
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}

	wantSkipped := []Span{
		{Position: Position{Column: 3, Offset: 2}, Text: "FOO"},
		{Position: Position{Column: 14, Offset: 13}, Text: "x %"},
	}
	if diff := cmp.Diff(wantSkipped, skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("SUM( [v1] , [MV:g1] ) * 1.2 + [LINEA_BASE]")
	want := []string{"SUM(", "[v1]", ",", "[MV:g1]", ")", "*", "1.2", "+", "[LINEA_BASE]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}

	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("expected no tokens for empty input, got %v", got)
	}
}

func TestLexerReuse(t *testing.T) {
	l := NewLexer()
	l.Init("1 + 2")
	if n := len(l.GetTokens()); n != 3 {
		t.Fatalf("expected 3 tokens, got %d", n)
	}
	l.Init("?")
	if n := len(l.GetTokens()); n != 0 {
		t.Errorf("expected tokens to reset, got %d", n)
	}
	if n := len(l.Skipped()); n != 1 {
		t.Errorf("expected 1 skipped fragment, got %d", n)
	}
}

func TestTokenTypeString(t *testing.T) {
	if got := GT_EQ.String(); got != "GT_EQ" {
		t.Errorf("expected GT_EQ, got %s", got)
	}
	if got := TokenType(99).String(); got != "TokenType(99)" {
		t.Errorf("unexpected fallback name %s", got)
	}
	if !ADVANCE.IsReference() || FUNCTION.IsReference() {
		t.Error("IsReference classification wrong")
	}
}
