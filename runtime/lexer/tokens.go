package lexer

import "fmt"

// TokenType represents lexical tokens of the persisted formula grammar
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// References
	BASELINE       // [LINEA_BASE]
	GOAL_VARIABLE  // [MV:id]
	GOAL_INDICATOR // [MI:id]
	QUAD_VARIABLE  // [QV:id]
	QUAD_INDICATOR // [QI:id]
	ADVANCE        // [AV:id]
	REFERENCE      // [id]

	// Function opener
	FUNCTION // SUM( AVG( MAX( MIN( IF(

	// Arithmetic operators
	PLUS     // +
	MINUS    // -
	MULTIPLY // *
	DIVIDE   // /

	// Structure
	LPAREN // (
	RPAREN // )
	COMMA  // ,

	// Comparison operators
	EQUALS // =
	NOT_EQ // ≠
	GT     // >
	LT     // <
	GT_EQ  // ≥
	LT_EQ  // ≤

	// Literals
	NUMBER // 12, 3.5
)

var tokenNames = [...]string{
	EOF:            "EOF",
	ILLEGAL:        "ILLEGAL",
	BASELINE:       "BASELINE",
	GOAL_VARIABLE:  "GOAL_VARIABLE",
	GOAL_INDICATOR: "GOAL_INDICATOR",
	QUAD_VARIABLE:  "QUAD_VARIABLE",
	QUAD_INDICATOR: "QUAD_INDICATOR",
	ADVANCE:        "ADVANCE",
	REFERENCE:      "REFERENCE",
	FUNCTION:       "FUNCTION",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	MULTIPLY:       "MULTIPLY",
	DIVIDE:         "DIVIDE",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	COMMA:          "COMMA",
	EQUALS:         "EQUALS",
	NOT_EQ:         "NOT_EQ",
	GT:             "GT",
	LT:             "LT",
	GT_EQ:          "GT_EQ",
	LT_EQ:          "LT_EQ",
	NUMBER:         "NUMBER",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsReference reports whether t is one of the bracketed reference tokens
func (t TokenType) IsReference() bool {
	return t >= BASELINE && t <= REFERENCE
}

// Token represents a lexical token
type Token struct {
	Type     TokenType
	Text     string
	Position Position
}

// String returns the token text
func (t Token) String() string {
	return t.Text
}

// Position represents a position in the formula string
type Position struct {
	Column int // 1-based rune column
	Offset int // 0-based byte offset
}

// Span is a fragment of input the lexer skipped because no pattern matched it
type Span struct {
	Position Position
	Text     string
}
