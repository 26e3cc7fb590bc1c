package bplus

import (
	"fmt"
	"strconv"
)

// Operator precedence, lowest to highest.
type Precedence int

const (
	LOWEST      Precedence = iota + 1
	LOGICAL                // ebong othoba
	EQUALS                 // == !=
	LESSGREATER            // < > <= >=
	SUM                    // + -
	PRODUCT                // * / %
	PREFIX                 // -x !x
	CALL                   // f(x)
)

var precedences = map[TokenType]Precedence{
	EQ:       EQUALS,
	NOTEQ:    EQUALS,
	EBONG:    LOGICAL,
	OTHOBA:   LOGICAL,
	LT:       LESSGREATER,
	GT:       LESSGREATER,
	LTEQ:     LESSGREATER,
	GTEQ:     LESSGREATER,
	PLUS:     SUM,
	MINUS:    SUM,
	SLASH:    PRODUCT,
	ASTERISK: PRODUCT,
	PERCENT:  PRODUCT,
	LPAREN:   CALL,
}

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// Parser consumes the lexer's token stream and builds a Program. It never
// aborts on a malformed statement: diagnostics accumulate and parsing
// resumes at the next statement boundary, so one call can surface several
// independent errors.
type Parser struct {
	l *Lexer

	curToken  Token
	peekToken Token

	errors []*ParseError

	prefixParseFns map[TokenType]prefixParseFn
	infixParseFns  map[TokenType]infixParseFn
}

// NewParser creates a parser over l and registers the prefix/infix handler
// tables.
func NewParser(l *Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[TokenType]prefixParseFn{}
	p.registerPrefix(IDENT, p.parseIdentifier)
	p.registerPrefix(INT, p.parseIntegerLiteral)
	p.registerPrefix(STRING, p.parseStringLiteral)
	p.registerPrefix(BANG, p.parsePrefixExpression)
	p.registerPrefix(MINUS, p.parsePrefixExpression)
	p.registerPrefix(HA, p.parseBoolean)
	p.registerPrefix(NA, p.parseBoolean)
	p.registerPrefix(IF, p.parseIfExpression)
	p.registerPrefix(PRINT, p.parsePrintExpression)
	p.registerPrefix(INPUT, p.parseInputExpression)
	p.registerPrefix(LPAREN, p.parseGroupedExpression)
	p.registerPrefix(FUNCTION, p.parseFunctionLiteral)

	p.infixParseFns = map[TokenType]infixParseFn{}
	p.registerInfix(PLUS, p.parseInfixExpression)
	p.registerInfix(MINUS, p.parseInfixExpression)
	p.registerInfix(SLASH, p.parseInfixExpression)
	p.registerInfix(ASTERISK, p.parseInfixExpression)
	p.registerInfix(PERCENT, p.parseInfixExpression)
	p.registerInfix(EQ, p.parseInfixExpression)
	p.registerInfix(NOTEQ, p.parseInfixExpression)
	p.registerInfix(LT, p.parseInfixExpression)
	p.registerInfix(GT, p.parseInfixExpression)
	p.registerInfix(LTEQ, p.parseInfixExpression)
	p.registerInfix(GTEQ, p.parseInfixExpression)
	p.registerInfix(EBONG, p.parseInfixExpression)
	p.registerInfix(OTHOBA, p.parseInfixExpression)
	p.registerInfix(LPAREN, p.parseCallExpression)

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(tt TokenType, fn prefixParseFn) { p.prefixParseFns[tt] = fn }
func (p *Parser) registerInfix(tt TokenType, fn infixParseFn)   { p.infixParseFns[tt] = fn }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the accumulated diagnostics as display strings. Callers
// must check this before evaluating the returned program.
func (p *Parser) Errors() []string {
	out := make([]string, 0, len(p.errors))
	for _, e := range p.errors {
		out = append(out, e.Msg)
	}
	return out
}

// ParseErrors returns the diagnostics with their source positions, for
// caret-snippet rendering.
func (p *Parser) ParseErrors() []*ParseError { return p.errors }

func (p *Parser) addError(tok Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &ParseError{
		Line: tok.Line,
		Col:  tok.Col,
		Msg:  fmt.Sprintf(format, args...),
	})
}

func (p *Parser) curTokenIs(t TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances when the next token has the wanted type; otherwise it
// records a diagnostic naming expected and actual kinds and stays put.
func (p *Parser) expectPeek(t TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t TokenType) {
	p.addError(p.peekToken, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) noPrefixParseFnError(tok Token) {
	if tok.Type == ILLEGAL {
		p.addError(tok, "lexical error: %s", tok.Literal)
		return
	}
	p.addError(tok, "no prefix parse function for %s found", tok.Type)
}

func (p *Parser) peekPrecedence() Precedence {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() Precedence {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *Program {
	program := &Program{}
	for !p.curTokenIs(EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

// --- statements ---

func (p *Parser) parseStatement() Statement {
	switch p.curToken.Type {
	case LET, CONST:
		return p.parseLetStatement()
	case RETURN:
		return p.parseReturnStatement()
	case WHILE:
		return p.parseWhileStatement()
	case FOR:
		return p.parseForStatement()
	case BREAK:
		stmt := &BreakStatement{Token: p.curToken}
		if p.peekTokenIs(SEMICOLON) {
			p.nextToken()
		}
		return stmt
	case CONTINUE:
		stmt := &ContinueStatement{Token: p.curToken}
		if p.peekTokenIs(SEMICOLON) {
			p.nextToken()
		}
		return stmt
	case ILLEGAL:
		p.addError(p.curToken, "lexical error: %s", p.curToken.Literal)
		return nil
	case COMMENT_LINE:
		return &CommentSingleLine{Token: p.curToken, Text: p.curToken.Literal}
	case COMMENT_BLOCK:
		return &CommentMultiLine{Token: p.curToken, Text: p.curToken.Literal}
	case IDENT:
		if p.peekTokenIs(ASSIGN) {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() Statement {
	tok := p.curToken
	mutable := tok.Type == LET

	if !p.expectPeek(IDENT) {
		return nil
	}
	name := &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(ASSIGN) {
		return nil
	}
	p.nextToken()

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if p.peekTokenIs(SEMICOLON) {
		p.nextToken()
	}
	return &LetStatement{Token: tok, Name: name, Value: value, Mutable: mutable}
}

func (p *Parser) parseAssignStatement() Statement {
	name := &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	tok := p.curToken

	p.nextToken() // the "=" token
	p.nextToken()

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if p.peekTokenIs(SEMICOLON) {
		p.nextToken()
	}
	return &AssignStatement{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseReturnStatement() Statement {
	tok := p.curToken
	p.nextToken()

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if p.peekTokenIs(SEMICOLON) {
		p.nextToken()
	}
	return &ReturnStatement{Token: tok, ReturnValue: value}
}

func (p *Parser) parseExpressionStatement() Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.peekTokenIs(SEMICOLON) {
		p.nextToken()
	}
	return &ExpressionStatement{Token: tok, Expression: expr}
}

// parseBlockStatement parses statements between braces. curToken must be
// the opening "{".
func (p *Parser) parseBlockStatement() *BlockStatement {
	block := &BlockStatement{Token: p.curToken}
	p.nextToken()

	for !p.curTokenIs(RBRACE) && !p.curTokenIs(EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseWhileStatement() Statement {
	tok := p.curToken
	p.nextToken()

	condition := p.parseLogicalExpression(LOWEST)
	if condition == nil {
		return nil
	}
	if !p.expectPeek(LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &WhileStatement{Token: tok, Condition: condition, Body: body}
}

// parseForStatement parses jonno (init; condition; update) { body }. Each of
// the three header slots may be empty.
func (p *Parser) parseForStatement() Statement {
	tok := p.curToken
	if !p.expectPeek(LPAREN) {
		return nil
	}
	p.nextToken()

	var init Statement
	if !p.curTokenIs(SEMICOLON) {
		init = p.parseStatement()
		if !p.curTokenIs(SEMICOLON) && !p.expectPeek(SEMICOLON) {
			return nil
		}
	}
	p.nextToken()

	var condition Expression
	if !p.curTokenIs(SEMICOLON) {
		condition = p.parseExpression(LOWEST)
		if condition == nil {
			return nil
		}
		if !p.expectPeek(SEMICOLON) {
			return nil
		}
	}
	p.nextToken()

	var update Statement
	if !p.curTokenIs(RPAREN) {
		update = p.parseStatement()
		if !p.curTokenIs(RPAREN) && !p.expectPeek(RPAREN) {
			return nil
		}
	}
	if !p.expectPeek(LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ForStatement{Token: tok, Init: init, Condition: condition, Update: update, Body: body}
}

// --- expressions ---

func (p *Parser) parseExpression(precedence Precedence) Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

// parseLogicalExpression parses a condition: like parseExpression but only
// the logical, comparison and arithmetic operators may continue the chain,
// so an optional connective keyword after the condition ends it cleanly.
func (p *Parser) parseLogicalExpression(precedence Precedence) Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(SEMICOLON) && precedence < p.peekPrecedence() {
		switch p.peekToken.Type {
		case EBONG, OTHOBA, EQ, NOTEQ, LT, GT, LTEQ, GTEQ,
			PLUS, MINUS, ASTERISK, SLASH, PERCENT:
		default:
			return left
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdentifier() Expression {
	return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError(p.curToken, "could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	return &IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() Expression {
	return &StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() Expression {
	return &Boolean{Token: p.curToken, Value: p.curTokenIs(HA)}
}

func (p *Parser) parsePrefixExpression() Expression {
	tok := p.curToken
	operator := p.curToken.Literal
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}
	return &PrefixExpression{Token: tok, Operator: operator, Right: right}
}

func (p *Parser) parseInfixExpression(left Expression) Expression {
	tok := p.curToken
	operator := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &InfixExpression{Token: tok, Left: left, Operator: operator, Right: right}
}

func (p *Parser) parseGroupedExpression() Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(RPAREN) {
		return nil
	}
	return expr
}

// acceptOptionalKeywords consumes any run of the given token types sitting
// in peek position. Each is optional, never required.
func (p *Parser) acceptOptionalKeywords(types ...TokenType) {
	for {
		matched := false
		for _, tt := range types {
			if p.peekTokenIs(tt) {
				p.nextToken()
				matched = true
				break
			}
		}
		if !matched {
			return
		}
	}
}

// parseIfExpression parses jodi <cond> [hoy|tahole|,] { ... } with optional
// nahoy / nahoy-jodi chains. The consequence may also be a single statement
// when no brace follows.
func (p *Parser) parseIfExpression() Expression {
	tok := p.curToken
	p.nextToken()

	condition := p.parseLogicalExpression(LOWEST)
	if condition == nil {
		return nil
	}

	p.acceptOptionalKeywords(HOY, THEN, COMMA)

	var consequence *BlockStatement
	if p.peekTokenIs(LBRACE) {
		p.nextToken()
		consequence = p.parseBlockStatement()
	} else {
		p.nextToken()
		stmt := p.parseStatement()
		if stmt == nil {
			p.addError(p.curToken, "expected statement after jodi condition")
			return nil
		}
		consequence = &BlockStatement{Token: tok, Statements: []Statement{stmt}}
	}

	var alternative Expression
	if p.peekTokenIs(ELSE) {
		p.nextToken() // the nahoy token
		if p.peekTokenIs(COMMA) {
			p.nextToken()
		}

		switch {
		case p.peekTokenIs(IF):
			p.nextToken()
			alternative = p.parseIfExpression()
			if alternative == nil {
				return nil
			}
		case p.peekTokenIs(LBRACE):
			p.nextToken()
			block := p.parseBlockStatement()
			if len(block.Statements) > 0 {
				es, ok := block.Statements[0].(*ExpressionStatement)
				if !ok {
					p.addError(p.curToken, "expected expression statement inside nahoy block")
					return nil
				}
				alternative = es.Expression
			}
		default:
			p.nextToken()
			stmt := p.parseStatement()
			es, ok := stmt.(*ExpressionStatement)
			if !ok {
				p.addError(p.curToken, "expected expression statement after nahoy")
				return nil
			}
			alternative = es.Expression
		}
	}

	return &IfExpression{Token: tok, Condition: condition, Consequence: consequence, Alternative: alternative}
}

// parsePrintExpression desugars dekhao into a call on the "dekhao" builtin.
// Three argument shapes: dekhao(expr), dekhao {template}, dekhao expr.
func (p *Parser) parsePrintExpression() Expression {
	tok := p.curToken
	p.nextToken()

	var arg Expression
	switch p.curToken.Type {
	case LPAREN:
		arg = p.parseGroupedExpression()
	case LBRACE:
		arg = p.parseTemplateLiteral()
	default:
		arg = p.parseExpression(LOWEST)
	}
	if arg == nil {
		return nil
	}

	return &CallExpression{
		Token:     tok,
		Function:  &Identifier{Token: tok, Value: "dekhao"},
		Arguments: []Expression{arg},
	}
}

// parseTemplateLiteral parses { text (expr) text }: parenthesized parts are
// expressions, bare words and literals become text parts.
func (p *Parser) parseTemplateLiteral() Expression {
	tl := &TemplateLiteral{Token: p.curToken}
	p.nextToken() // past "{"

	for !p.curTokenIs(RBRACE) && !p.curTokenIs(EOF) {
		switch p.curToken.Type {
		case LPAREN:
			p.nextToken()
			expr := p.parseExpression(LOWEST)
			if expr == nil {
				return nil
			}
			if !p.expectPeek(RPAREN) {
				return nil
			}
			tl.Parts = append(tl.Parts, expr)
		default:
			// Bare words inside a template, keywords included, are text.
			if p.curToken.Literal != "" {
				tl.Parts = append(tl.Parts, &StringLiteral{Token: p.curToken, Value: p.curToken.Literal})
			}
		}
		p.nextToken()
	}
	return tl
}

// parseInputExpression desugars "input nao"(...) into a call on the "input"
// builtin.
func (p *Parser) parseInputExpression() Expression {
	tok := p.curToken
	if !p.expectPeek(LPAREN) {
		p.addError(tok, "expected '(' after %q", tok.Literal)
		return nil
	}
	args := p.parseCallArguments()
	if args == nil {
		return nil
	}
	return &CallExpression{
		Token:     tok,
		Function:  &Identifier{Token: tok, Value: "input"},
		Arguments: args,
	}
}

func (p *Parser) parseFunctionLiteral() Expression {
	tok := p.curToken
	if !p.expectPeek(LPAREN) {
		return nil
	}
	params := p.parseFunctionParameters()
	if params == nil {
		return nil
	}
	if !p.expectPeek(LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &FunctionLiteral{Token: tok, Parameters: params, Body: body}
}

func (p *Parser) parseFunctionParameters() []*Identifier {
	identifiers := []*Identifier{}

	if p.peekTokenIs(RPAREN) {
		p.nextToken()
		return identifiers
	}

	if !p.expectPeek(IDENT) {
		return nil
	}
	identifiers = append(identifiers, &Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(COMMA) {
		p.nextToken()
		if !p.expectPeek(IDENT) {
			return nil
		}
		identifiers = append(identifiers, &Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(RPAREN) {
		return nil
	}
	return identifiers
}

func (p *Parser) parseCallExpression(function Expression) Expression {
	tok := p.curToken
	args := p.parseCallArguments()
	if args == nil {
		return nil
	}
	return &CallExpression{Token: tok, Function: function, Arguments: args}
}

// parseCallArguments parses a comma-separated expression list; curToken must
// be the opening "(". The closing ")" is required.
func (p *Parser) parseCallArguments() []Expression {
	args := []Expression{}

	if p.peekTokenIs(RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	args = append(args, expr)

	for p.peekTokenIs(COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		args = append(args, expr)
	}

	if !p.expectPeek(RPAREN) {
		return nil
	}
	return args
}
