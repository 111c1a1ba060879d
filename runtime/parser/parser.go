// Package parser builds the evaluator AST from an editor step sequence.
//
// Grammar, lowest precedence first:
//
//	expression     = comparison
//	comparison     = additive { ("=" | "!=" | ">" | "<" | ">=" | "<=") additive }
//	additive       = multiplicative { ("+" | "-") multiplicative }
//	multiplicative = unary { ("*" | "/") unary }
//	unary          = ("+" | "-") unary | primary
//	primary        = value | "(" expression [")"] | FUNC( [expression {"," expression}] [")"]
//
// The builder never fails: missing closing parentheses are tolerated and
// anything it cannot build becomes an error node.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amaury-medina-tass/spd-frontend-sub001/core/ast"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/formula"
	"github.com/amaury-medina-tass/spd-frontend-sub001/core/invariant"
)

// Build returns the AST for steps.
func Build(steps []formula.Step, opts ...ParserOpt) ast.Node {
	return BuildTree(steps, opts...).Root
}

// BuildTree returns the AST for steps together with telemetry when enabled.
func BuildTree(steps []formula.Step, opts ...ParserOpt) *Tree {
	config := newConfig(opts)

	var telemetry *BuildTelemetry
	var start time.Time

	if config.telemetry >= TelemetryBasic {
		telemetry = &BuildTelemetry{StepCount: len(steps)}
		if config.telemetry >= TelemetryTiming {
			start = time.Now()
		}
	}

	var chain []string
	if config.root != "" {
		chain = []string{config.root}
	}

	p := newParser(tokenize(steps, config.logger), config, chain, 0, telemetry)
	root := p.parse()

	if telemetry != nil {
		telemetry.TokenCount = len(p.tokens)
		telemetry.ErrorCount = len(ast.Errors(root))
		if config.telemetry >= TelemetryTiming {
			telemetry.BuildTime = time.Since(start)
		}
	}

	return &Tree{Root: root, Telemetry: telemetry}
}

// parser is the cursor over one token sequence. Sub-formulas get their own
// parser sharing config and telemetry.
type parser struct {
	tokens    []token
	pos       int
	config    *ParserConfig
	chain     []string // variable ids being expanded, outermost first
	depth     int
	telemetry *BuildTelemetry
}

func newParser(tokens []token, config *ParserConfig, chain []string, depth int, telemetry *BuildTelemetry) *parser {
	invariant.NotNil(config, "config")
	return &parser{
		tokens:    tokens,
		config:    config,
		chain:     chain,
		depth:     depth,
		telemetry: telemetry,
	}
}

// parse builds one expression, converting internal panics into an error
// node. Tokens after the expression are ignored.
func (p *parser) parse() (root ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			p.config.logger.Debug("builder panic", "error", r)
			root = &ast.Error{Message: fmt.Sprint(r)}
		}
	}()

	root = p.expression()
	if !p.at(tokEOF) {
		p.config.logger.Debug("trailing tokens ignored", "pos", p.pos, "remaining", len(p.tokens)-p.pos)
	}
	return root
}

func (p *parser) expression() ast.Node {
	p.depth++
	defer func() { p.depth-- }()

	if p.config.maxDepth > 0 && p.depth > p.config.maxDepth {
		return &ast.Error{Message: fmt.Sprintf("Anidamiento máximo excedido (%d)", p.config.maxDepth)}
	}
	return p.comparison()
}

func (p *parser) comparison() ast.Node {
	left := p.additive()
	for p.at(tokComparison) {
		op := p.current().value
		p.advance()
		left = &ast.Binary{Op: op, Left: left, Right: p.additive()}
	}
	return left
}

func (p *parser) additive() ast.Node {
	left := p.multiplicative()
	for p.atOperator(formula.OpAdd, formula.OpSub) {
		op := p.current().value
		p.advance()
		left = &ast.Binary{Op: op, Left: left, Right: p.multiplicative()}
	}
	return left
}

func (p *parser) multiplicative() ast.Node {
	left := p.unary()
	for p.atOperator(formula.OpMul, formula.OpDiv) {
		op := p.current().value
		p.advance()
		left = &ast.Binary{Op: op, Left: left, Right: p.unary()}
	}
	return left
}

// unary handles a leading sign: -x is 0 - x and +x is x.
func (p *parser) unary() ast.Node {
	if p.atOperator(formula.OpAdd, formula.OpSub) {
		op := p.current().value
		p.advance()
		operand := p.unary()
		if op == formula.OpSub {
			return &ast.Binary{Op: formula.OpSub, Left: &ast.Const{Value: 0}, Right: operand}
		}
		return operand
	}
	return p.primary()
}

func (p *parser) primary() ast.Node {
	tok := p.current()

	switch tok.typ {
	case tokConst:
		p.advance()
		v, err := strconv.ParseFloat(tok.value, 64)
		if err != nil {
			return &ast.Error{Message: fmt.Sprintf("Constante inválida: %s", tok.value)}
		}
		return &ast.Const{Value: v}

	case tokGoalVar:
		p.advance()
		return &ast.GoalVar{Value: tok.value}
	case tokGoalInd:
		p.advance()
		return &ast.GoalInd{Value: tok.value}
	case tokQuadVar:
		p.advance()
		return &ast.QuadVar{Value: tok.value}
	case tokQuadInd:
		p.advance()
		return &ast.QuadInd{Value: tok.value}
	case tokBaseline:
		p.advance()
		return &ast.Baseline{Value: tok.value}
	case tokRefAdvance:
		p.advance()
		return &ast.RefAdvance{Value: tok.value}

	case tokRef:
		p.advance()
		return p.reference(tok)

	case tokLParen:
		p.advance()
		expr := p.expression()
		if p.at(tokRParen) {
			p.advance()
		}
		return expr

	case tokFunction:
		p.advance()
		return p.call(tok.value)

	case tokEOF:
		return &ast.Error{Message: "Fin inesperado de la fórmula"}
	}

	return &ast.Error{Message: fmt.Sprintf("Elemento inesperado: %s", tok.value)}
}

// call parses the arguments of a function whose opener was consumed
func (p *parser) call(name string) ast.Node {
	var args []ast.Node

	for !p.at(tokRParen) && !p.at(tokEOF) {
		start := p.pos
		args = append(args, p.expression())

		if p.at(tokComma) {
			p.advance()
			continue
		}
		if p.pos == start {
			p.config.logger.Debug("argument list stalled", "function", name, "pos", p.pos)
		}
		break
	}

	if p.at(tokRParen) {
		p.advance()
	}
	return &ast.Call{Func: name, Args: args}
}

// reference builds a ref node, expanding the variable's own formula
func (p *parser) reference(tok token) ast.Node {
	ref := &ast.Ref{Value: tok.value}
	if !tok.variable.HasFormula() {
		return ref
	}

	if p.config.cycleGuard && p.expanding(tok.value) {
		cycle := append(append([]string{}, p.chain...), tok.value)
		msg := "Referencia circular: " + strings.Join(cycle, " -> ")
		p.config.logger.Debug("cycle guard", "variable", tok.value, "cycle", cycle)
		if p.telemetry != nil {
			p.telemetry.CycleHits++
		}
		ref.SubFormula = &ast.Error{Message: msg}
		return ref
	}

	if p.telemetry != nil {
		p.telemetry.ExpandedRefs++
	}

	chain := append(p.chain[:len(p.chain):len(p.chain)], tok.value)
	sub := newParser(tokenize(tok.variable.Formula, p.config.logger), p.config, chain, p.depth, p.telemetry)
	ref.SubFormula = sub.parse()
	return ref
}

func (p *parser) expanding(id string) bool {
	for _, c := range p.chain {
		if c == id {
			return true
		}
	}
	return false
}

// at checks if the current token is of the given type
func (p *parser) at(typ tokenType) bool {
	return p.current().typ == typ
}

func (p *parser) atOperator(ops ...string) bool {
	tok := p.current()
	if tok.typ != tokOperator {
		return false
	}
	for _, op := range ops {
		if tok.value == op {
			return true
		}
	}
	return false
}

// current returns the current token
func (p *parser) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokEOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token
func (p *parser) advance() {
	invariant.Precondition(p.pos < len(p.tokens), "advance past end of %d tokens", len(p.tokens))
	before := p.pos
	p.pos++
	invariant.Progress(before, p.pos, "parser.advance")
}
