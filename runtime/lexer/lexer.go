// Package lexer splits a persisted formula string into tokens.
//
// Patterns are tried as an ordered alternation, earliest first:
//
//  1. [LINEA_BASE]
//  2. tagged references [MV:id] [MI:id] [QV:id] [QI:id] [AV:id]
//  3. any other bracketed reference [id]
//  4. function openers SUM( AVG( MAX( MIN( IF(, case-insensitive
//  5. single-character symbols + - * / ( ) , ≠ ≥ ≤ = > <
//  6. decimal literals
//
// Input that matches none of them is dropped without error. Scan reports the
// dropped fragments so callers can warn about them.
package lexer

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
)

// Capture groups of tokenPattern, in priority order.
const (
	groupBaseline = iota + 1
	groupTagged
	groupReference
	groupFunction
	groupSymbol
	groupNumber
)

var tokenPattern = regexp.MustCompile(
	`(\[LINEA_BASE\])` +
		`|(\[(?:MV|MI|QV|QI|AV):[^\]]+\])` +
		`|(\[[^\]]+\])` +
		`|((?i:SUM|AVG|MAX|MIN|IF)\()` +
		`|([-+*/(),≠≥≤=><])` +
		`|(\d+(?:\.\d+)?)`,
)

var symbolTokens = map[string]TokenType{
	"+": PLUS,
	"-": MINUS,
	"*": MULTIPLY,
	"/": DIVIDE,
	"(": LPAREN,
	")": RPAREN,
	",": COMMA,
	"=": EQUALS,
	"≠": NOT_EQ,
	">": GT,
	"<": LT,
	"≥": GT_EQ,
	"≤": LT_EQ,
}

var taggedTokens = map[string]TokenType{
	formula.PrefixGoalVariable:  GOAL_VARIABLE,
	formula.PrefixGoalIndicator: GOAL_INDICATOR,
	formula.PrefixQuadVariable:  QUAD_VARIABLE,
	formula.PrefixQuadIndicator: QUAD_INDICATOR,
	formula.PrefixAdvance:       ADVANCE,
}

// LexerOpt represents a lexer configuration option
type LexerOpt func(*LexerConfig)

// LexerConfig holds lexer configuration
type LexerConfig struct {
	logger *slog.Logger
}

// WithLogger routes debug events (dropped fragments) to logger
func WithLogger(logger *slog.Logger) LexerOpt {
	return func(c *LexerConfig) {
		c.logger = logger
	}
}

// Lexer tokenizes one formula string at a time
type Lexer struct {
	input   string
	tokens  []Token
	skipped []Span
	logger  *slog.Logger
}

// NewLexer creates a new lexer instance with optional configuration
func NewLexer(opts ...LexerOpt) *Lexer {
	config := &LexerConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(config)
	}
	return &Lexer{logger: config.logger}
}

// Init resets the lexer with new input and tokenizes it
func (l *Lexer) Init(input string) {
	l.input = input
	l.tokens = l.tokens[:0]
	l.skipped = l.skipped[:0]
	l.scan()
}

// GetTokens returns the tokens of the current input
func (l *Lexer) GetTokens() []Token {
	return l.tokens
}

// Skipped returns the non-blank fragments dropped from the current input
func (l *Lexer) Skipped() []Span {
	return l.skipped
}

func (l *Lexer) scan() {
	last := 0
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(l.input, -1) {
		start, end := m[0], m[1]
		l.skip(last, start)
		last = end

		text := l.input[start:end]
		l.tokens = append(l.tokens, Token{
			Type:     classify(m, text),
			Text:     text,
			Position: l.position(start),
		})
	}
	l.skip(last, len(l.input))

	if len(l.skipped) > 0 {
		l.logger.Debug("formula fragments dropped",
			"count", len(l.skipped),
			"first", l.skipped[0].Text,
			"column", l.skipped[0].Position.Column)
	}
}

// skip records input[from:to] as dropped unless it is only whitespace
func (l *Lexer) skip(from, to int) {
	if from >= to {
		return
	}
	gap := l.input[from:to]
	if strings.TrimSpace(gap) == "" {
		return
	}
	lead := len(gap) - len(strings.TrimLeft(gap, " \t\r\n"))
	l.skipped = append(l.skipped, Span{
		Position: l.position(from + lead),
		Text:     strings.TrimSpace(gap),
	})
}

func (l *Lexer) position(offset int) Position {
	return Position{
		Column: utf8.RuneCountInString(l.input[:offset]) + 1,
		Offset: offset,
	}
}

func classify(m []int, text string) TokenType {
	matched := func(group int) bool { return m[2*group] >= 0 }

	switch {
	case matched(groupBaseline):
		return BASELINE
	case matched(groupTagged):
		return taggedTokens[text[1:3]]
	case matched(groupReference):
		return REFERENCE
	case matched(groupFunction):
		return FUNCTION
	case matched(groupSymbol):
		return symbolTokens[text]
	case matched(groupNumber):
		return NUMBER
	}
	return ILLEGAL
}

// Scan tokenizes input and also returns the fragments that were dropped
func Scan(input string, opts ...LexerOpt) ([]Token, []Span) {
	l := NewLexer(opts...)
	l.Init(input)
	return l.GetTokens(), l.Skipped()
}

// Tokenize returns the raw token strings of input in order
func Tokenize(input string) []string {
	tokens, _ := Scan(input)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}
