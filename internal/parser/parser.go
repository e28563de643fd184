// Package parser implements a recursive-descent, precedence-climbing
// parser that turns a token stream into an *ast.Module.
package parser

import (
	"fmt"

	"github.com/pylite-lang/pylite/internal/ast"
	"github.com/pylite-lang/pylite/internal/lexer"
	"github.com/pylite-lang/pylite/internal/token"
)

const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	NOT_PREC
	COMPARE_PREC
	SUM_PREC
	PRODUCT_PREC
	PREFIX_PREC
	CALL_PREC
)

var precedences = map[token.Type]int{
	token.OR:      OR_PREC,
	token.AND:     AND_PREC,
	token.EQ:      COMPARE_PREC,
	token.NOT_EQ:  COMPARE_PREC,
	token.LT:      COMPARE_PREC,
	token.GT:      COMPARE_PREC,
	token.LT_EQ:   COMPARE_PREC,
	token.GT_EQ:   COMPARE_PREC,
	token.PLUS:    SUM_PREC,
	token.MINUS:   SUM_PREC,
	token.STAR:    PRODUCT_PREC,
	token.SLASH:   PRODUCT_PREC,
	token.DSLASH:  PRODUCT_PREC,
	token.PERCENT: PRODUCT_PREC,
	token.LPAREN:  CALL_PREC,
}

var comparisonOps = map[token.Type]bool{
	token.EQ: true, token.NOT_EQ: true, token.LT: true, token.GT: true,
	token.LT_EQ: true, token.GT_EQ: true,
}

var augAssignOps = map[token.Type]bool{
	token.PLUS_EQ: true, token.MINUS_EQ: true, token.STAR_EQ: true,
	token.SLASH_EQ: true, token.DSLASH_EQ: true, token.PERCENT_EQ: true,
}

// Parser consumes a token stream one lookahead token at a time.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string
}

// New returns a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the accumulated parse errors, in source order.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", p.curToken.Line, p.curToken.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(t token.Type) bool {
	if p.curToken.Type != t {
		p.errorf("expected %s, got %s (%q)", t, p.curToken.Type, p.curToken.Literal)
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) skipNewlines() {
	for p.curToken.Type == token.NEWLINE {
		p.nextToken()
	}
}

// ParseModule parses the entire token stream as a module.
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{}
	p.skipNewlines()
	for p.curToken.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			mod.Statements = append(mod.Statements, stmt)
		}
		p.skipNewlines()
	}
	return mod
}

// ParseExpression parses a single expression from a standalone token
// stream; parseFormatString calls this on the text of each interpolated
// fragment of a format string.
func ParseExpression(src string) (ast.Expression, []string) {
	p := New(lexer.New(src))
	expr := p.parseTestExpr()
	return expr, p.errors
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.DEF:
		return p.parseFunctionDef()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		t := p.curToken
		p.nextToken()
		return &ast.Break{Token: t}
	case token.CONTINUE:
		t := p.curToken
		p.nextToken()
		return &ast.Continue{Token: t}
	case token.RETURN:
		return p.parseReturn()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseSuite() *ast.Suite {
	suite := &ast.Suite{}
	if !p.expect(token.COLON) {
		return suite
	}
	p.skipNewlines()
	if p.curToken.Type != token.INDENT {
		// single-line suite: one statement on the header line.
		stmt := p.parseStatement()
		if stmt != nil {
			suite.Statements = append(suite.Statements, stmt)
		}
		return suite
	}
	p.nextToken() // consume INDENT
	p.skipNewlines()
	for p.curToken.Type != token.DEDENT && p.curToken.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			suite.Statements = append(suite.Statements, stmt)
		}
		p.skipNewlines()
	}
	if p.curToken.Type == token.DEDENT {
		p.nextToken()
	}
	return suite
}

func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	t := p.curToken
	p.nextToken() // consume 'def'
	fn := &ast.FunctionDef{Token: t}
	if p.curToken.Type != token.IDENT {
		p.errorf("expected function name, got %s", p.curToken.Type)
	}
	fn.Name = p.curToken.Literal
	p.nextToken()
	p.expect(token.LPAREN)
	for p.curToken.Type != token.RPAREN && p.curToken.Type != token.EOF {
		if p.curToken.Type != token.IDENT {
			p.errorf("expected parameter name, got %s", p.curToken.Type)
			break
		}
		name := p.curToken.Literal
		fn.Params = append(fn.Params, name)
		p.nextToken()
		if p.curToken.Type == token.ASSIGN {
			p.nextToken()
			fn.Defaults = append(fn.Defaults, p.parseTestExpr())
		} else if len(fn.Defaults) > 0 {
			p.errorf("parameter %q without default follows a parameter with a default", name)
		}
		if p.curToken.Type == token.COMMA {
			p.nextToken()
		}
	}
	p.expect(token.RPAREN)
	fn.Body = p.parseSuite()
	return fn
}

func (p *Parser) parseIf() *ast.If {
	t := p.curToken
	node := &ast.If{Token: t}
	p.nextToken() // consume 'if'
	node.Conditions = append(node.Conditions, p.parseTestExpr())
	node.Bodies = append(node.Bodies, p.parseSuite())
	for p.curToken.Type == token.ELIF {
		p.nextToken()
		node.Conditions = append(node.Conditions, p.parseTestExpr())
		node.Bodies = append(node.Bodies, p.parseSuite())
	}
	if p.curToken.Type == token.ELSE {
		p.nextToken()
		node.Else = p.parseSuite()
	}
	return node
}

func (p *Parser) parseWhile() *ast.While {
	t := p.curToken
	p.nextToken() // consume 'while'
	node := &ast.While{Token: t}
	node.Cond = p.parseTestExpr()
	node.Body = p.parseSuite()
	return node
}

func (p *Parser) parseReturn() *ast.Return {
	t := p.curToken
	p.nextToken() // consume 'return'
	node := &ast.Return{Token: t}
	if p.curToken.Type != token.NEWLINE && p.curToken.Type != token.EOF && p.curToken.Type != token.DEDENT {
		node.Value = p.parseTestlist()
	}
	return node
}

// parseSimpleStatement parses an expression statement, assignment, or
// augmented assignment, all of which start with an expression.
func (p *Parser) parseSimpleStatement() ast.Statement {
	first := p.parseTestlist()
	if augAssignOps[p.curToken.Type] {
		t := p.curToken
		op := p.curToken.Type
		p.nextToken()
		value := p.parseTestlist()
		return &ast.AugAssign{Token: t, Target: first, Op: op, Value: value}
	}
	if p.curToken.Type == token.ASSIGN {
		t := p.curToken
		targets := []ast.Expression{first}
		var value ast.Expression
		for p.curToken.Type == token.ASSIGN {
			p.nextToken()
			value = p.parseTestlist()
			if p.curToken.Type == token.ASSIGN {
				targets = append(targets, value)
			}
		}
		return &ast.Assign{Token: t, Targets: targets, Value: value}
	}
	return &ast.ExpressionStatement{Token: p.curToken, Expr: first}
}

// parseTestlist parses a comma-separated sequence of test expressions,
// producing a TupleLiteral when more than one element (or a trailing
// comma) is present, or the bare expression otherwise.
func (p *Parser) parseTestlist() ast.Expression {
	first := p.parseTestExpr()
	if p.curToken.Type != token.COMMA {
		return first
	}
	t := p.curToken
	elems := []ast.Expression{first}
	for p.curToken.Type == token.COMMA {
		p.nextToken()
		if isTestlistTerminator(p.curToken.Type) {
			break
		}
		elems = append(elems, p.parseTestExpr())
	}
	return &ast.TupleLiteral{Token: t, Elements: elems}
}

func isTestlistTerminator(t token.Type) bool {
	switch t {
	case token.NEWLINE, token.EOF, token.COLON, token.RPAREN, token.ASSIGN:
		return true
	}
	return false
}

// parseTestExpr parses an or_test: the entry point for any single
// (non-tuple) expression.
func (p *Parser) parseTestExpr() ast.Expression {
	return p.parseBinary(LOWEST)
}

func (p *Parser) parseBinary(minPrec int) ast.Expression {
	left := p.parseUnary()
	for {
		prec, ok := precedences[p.curToken.Type]
		if !ok || prec <= minPrec {
			break
		}
		if comparisonOps[p.curToken.Type] {
			left = p.parseComparisonChain(left)
			continue
		}
		op := p.curToken.Type
		t := p.curToken
		p.nextToken()
		right := p.parseBinary(prec)
		left = &ast.InfixExpr{Token: t, Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parseComparisonChain(first ast.Expression) ast.Expression {
	t := p.curToken
	node := &ast.Comparison{Token: t, First: first}
	for comparisonOps[p.curToken.Type] {
		op := p.curToken.Type
		p.nextToken()
		right := p.parseBinary(COMPARE_PREC)
		node.Ops = append(node.Ops, op)
		node.Rest = append(node.Rest, right)
	}
	return node
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.curToken.Type {
	case token.NOT:
		t := p.curToken
		p.nextToken()
		operand := p.parseBinary(NOT_PREC)
		return &ast.PrefixExpr{Token: t, Op: token.NOT, Operand: operand}
	case token.MINUS:
		t := p.curToken
		p.nextToken()
		operand := p.parseBinary(PREFIX_PREC)
		return &ast.PrefixExpr{Token: t, Op: token.MINUS, Operand: operand}
	default:
		return p.parseCallOrAtom()
	}
}

func (p *Parser) parseCallOrAtom() ast.Expression {
	expr := p.parseAtom()
	for p.curToken.Type == token.LPAREN {
		expr = p.parseCall(expr)
	}
	return expr
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	t := p.curToken
	p.nextToken() // consume '('
	call := &ast.Call{Token: t, Callee: callee}
	for p.curToken.Type != token.RPAREN && p.curToken.Type != token.EOF {
		if p.curToken.Type == token.IDENT && p.peekToken.Type == token.ASSIGN {
			name := p.curToken.Literal
			p.nextToken()
			p.nextToken()
			call.Keywords = append(call.Keywords, ast.KeywordArg{Name: name, Value: p.parseTestExpr()})
		} else {
			call.Args = append(call.Args, p.parseTestExpr())
		}
		if p.curToken.Type == token.COMMA {
			p.nextToken()
		}
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) parseAtom() ast.Expression {
	switch p.curToken.Type {
	case token.IDENT:
		id := &ast.Identifier{Token: p.curToken, Name: p.curToken.Literal}
		p.nextToken()
		return id
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		lit := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken()
		return lit
	case token.FSTRING:
		return p.parseFormatString()
	case token.TRUE:
		lit := &ast.BoolLiteral{Token: p.curToken, Value: true}
		p.nextToken()
		return lit
	case token.FALSE:
		lit := &ast.BoolLiteral{Token: p.curToken, Value: false}
		p.nextToken()
		return lit
	case token.NONE:
		lit := &ast.NoneLiteral{Token: p.curToken}
		p.nextToken()
		return lit
	case token.LPAREN:
		return p.parseParenthesized()
	default:
		p.errorf("unexpected token %s (%q)", p.curToken.Type, p.curToken.Literal)
		t := p.curToken
		p.nextToken()
		return &ast.NoneLiteral{Token: t}
	}
}

func (p *Parser) parseNumber() ast.Expression {
	t := p.curToken
	raw := t.Literal
	p.nextToken()
	for i := 0; i < len(raw); i++ {
		if raw[i] == '.' {
			var f float64
			fmt.Sscanf(raw, "%g", &f)
			return &ast.FloatLiteral{Token: t, Value: f, Raw: raw}
		}
	}
	return &ast.IntegerLiteral{Token: t, Raw: raw}
}

// parseParenthesized parses `(expr)`, `()`, `(expr,)`, and `(expr, expr, ...)`.
func (p *Parser) parseParenthesized() ast.Expression {
	t := p.curToken
	p.nextToken() // consume '('
	if p.curToken.Type == token.RPAREN {
		p.nextToken()
		return &ast.TupleLiteral{Token: t}
	}
	first := p.parseTestExpr()
	if p.curToken.Type != token.COMMA {
		p.expect(token.RPAREN)
		return first
	}
	elems := []ast.Expression{first}
	for p.curToken.Type == token.COMMA {
		p.nextToken()
		if p.curToken.Type == token.RPAREN {
			break
		}
		elems = append(elems, p.parseTestExpr())
	}
	p.expect(token.RPAREN)
	return &ast.TupleLiteral{Token: t, Elements: elems}
}

// parseFormatString splits an f-string literal's raw text into literal
// fragments and interpolated expressions, re-entering the parser on each
// embedded substring exactly once, at parse time; the evaluator later
// walks the resulting, already-parsed expressions without reparsing them.
func (p *Parser) parseFormatString() ast.Expression {
	t := p.curToken
	raw := t.Literal
	p.nextToken()
	node := &ast.FormatString{Token: t}
	var lit []byte
	i := 0
	for i < len(raw) {
		ch := raw[i]
		if ch != '{' {
			lit = append(lit, ch)
			i++
			continue
		}
		if len(lit) > 0 {
			node.Parts = append(node.Parts, ast.FStringPart{Text: string(lit)})
			lit = nil
		}
		depth := 1
		j := i + 1
		for j < len(raw) && depth > 0 {
			switch raw[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		fragment := raw[i+1 : j]
		expr, errs := ParseExpression(fragment)
		p.errors = append(p.errors, errs...)
		node.Parts = append(node.Parts, ast.FStringPart{Expr: expr})
		i = j + 1
	}
	if len(lit) > 0 {
		node.Parts = append(node.Parts, ast.FStringPart{Text: string(lit)})
	}
	return node
}
