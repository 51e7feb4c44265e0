// Package parser implements a recursive-descent parser producing an
// ast.Program with panic-mode error recovery.
package parser

import (
	"strconv"

	"github.com/aetherscript/aetherscript-lsp/internal/ast"
	"github.com/aetherscript/aetherscript-lsp/internal/lexer"
)

// Parser consumes a flat token stream and builds an ast.Program,
// accumulating ParseErrors rather than aborting on the first one.
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []*ParseError
}

// New creates a Parser over an already-scanned token stream.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the full token stream and returns the resulting
// Program together with every ParseError recovered along the way.
// It never returns a nil Program, even for empty or entirely
// malformed input.
func Parse(source string) (*ast.Program, []*ParseError) {
	p := New(lexer.New(source).ScanTokens())
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, []*ParseError) {
	prog := &ast.Program{Loc: ast.SourceLocation{Line: 1, Column: 1}}

	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}

	return prog, p.errors
}

// declaration parses one top-level or block-level statement, catching
// a ParseError and synchronizing on failure.
func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*ParseError); ok {
				p.errors = append(p.errors, perr)
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	return p.statement()
}

func (p *Parser) statement() ast.Stmt {
	switch p.peek().Type {
	case lexer.VAR:
		return p.varDeclaration()
	case lexer.FUNCTION, lexer.SPELL:
		return p.functionDeclaration()
	case lexer.IF:
		return p.ifStatement()
	case lexer.WHILE:
		return p.whileStatement()
	case lexer.FOR:
		return p.forStatement()
	case lexer.RETURN:
		return p.returnStatement()
	case lexer.LBRACE:
		return p.block()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) varDeclaration() ast.Stmt {
	start := p.advance() // 'var'
	name := p.consume(lexer.IDENTIFIER, "expected variable name after 'var'")

	var typeAnnotation string
	if p.match(lexer.COLON) {
		typeAnnotation = p.consumeTypeName()
	}

	var initializer ast.Expr
	if p.match(lexer.EQUAL) {
		initializer = p.expression()
	}

	p.consume(lexer.SEMICOLON, "expected ';' after variable declaration")

	return &ast.VariableDeclaration{
		Name:           name.Lexeme,
		TypeAnnotation: typeAnnotation,
		Initializer:    initializer,
		Loc:            tokLoc(start),
	}
}

func (p *Parser) functionDeclaration() ast.Stmt {
	start := p.advance() // 'function' or 'spell'
	name := p.consume(lexer.IDENTIFIER, "expected function name")
	p.consume(lexer.LPAREN, "expected '(' after function name")

	var params []*ast.Parameter
	if !p.check(lexer.RPAREN) {
		for {
			paramName := p.consume(lexer.IDENTIFIER, "expected parameter name")
			p.consume(lexer.COLON, "expected ':' after parameter name")
			paramType := p.consumeTypeName()
			params = append(params, &ast.Parameter{
				Name:           paramName.Lexeme,
				TypeAnnotation: paramType,
				Loc:            tokLoc(paramName),
			})
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.consume(lexer.RPAREN, "expected ')' after parameters")
	p.consume(lexer.ARROW, "expected '->' before return type")
	returnType := p.consumeTypeName()
	body := p.block()

	return &ast.FunctionDeclaration{
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		Loc:        tokLoc(start),
	}
}

func (p *Parser) ifStatement() ast.Stmt {
	start := p.advance() // 'if'
	p.consume(lexer.LPAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(lexer.RPAREN, "expected ')' after if condition")
	then := p.block()

	var elseBranch ast.Stmt
	if p.check(lexer.ELIF) {
		elseBranch = p.elifAsIf()
	} else if p.match(lexer.ELSE) {
		if p.check(lexer.IF) {
			elseBranch = p.ifStatement()
		} else if p.check(lexer.ELIF) {
			elseBranch = p.elifAsIf()
		} else {
			elseBranch = p.block()
		}
	}

	return &ast.IfStatement{
		Condition: cond,
		Then:      then,
		Else:      elseBranch,
		Loc:       tokLoc(start),
	}
}

// elifAsIf treats a standalone 'elif' as sugar for 'else if'.
func (p *Parser) elifAsIf() ast.Stmt {
	start := p.advance() // 'elif'
	p.consume(lexer.LPAREN, "expected '(' after 'elif'")
	cond := p.expression()
	p.consume(lexer.RPAREN, "expected ')' after elif condition")
	then := p.block()

	var elseBranch ast.Stmt
	if p.check(lexer.ELIF) {
		elseBranch = p.elifAsIf()
	} else if p.match(lexer.ELSE) {
		if p.check(lexer.IF) {
			elseBranch = p.ifStatement()
		} else {
			elseBranch = p.block()
		}
	}

	return &ast.IfStatement{
		Condition: cond,
		Then:      then,
		Else:      elseBranch,
		Loc:       tokLoc(start),
	}
}

func (p *Parser) whileStatement() ast.Stmt {
	start := p.advance() // 'while'
	p.consume(lexer.LPAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(lexer.RPAREN, "expected ')' after while condition")
	body := p.block()

	return &ast.WhileStatement{Condition: cond, Body: body, Loc: tokLoc(start)}
}

func (p *Parser) forStatement() ast.Stmt {
	start := p.advance() // 'for'
	p.consume(lexer.LPAREN, "expected '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.match(lexer.SEMICOLON):
		init = nil
	case p.check(lexer.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expr
	if !p.check(lexer.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(lexer.SEMICOLON, "expected ';' after for condition")

	var incr ast.Expr
	if !p.check(lexer.RPAREN) {
		incr = p.expression()
	}
	p.consume(lexer.RPAREN, "expected ')' after for clauses")

	body := p.block()

	return &ast.ForStatement{Init: init, Condition: cond, Increment: incr, Body: body, Loc: tokLoc(start)}
}

func (p *Parser) returnStatement() ast.Stmt {
	start := p.advance() // 'return'

	var value ast.Expr
	if !p.check(lexer.SEMICOLON) {
		value = p.expression()
	}
	p.consume(lexer.SEMICOLON, "expected ';' after return statement")

	return &ast.ReturnStatement{Value: value, Loc: tokLoc(start)}
}

func (p *Parser) block() *ast.BlockStatement {
	start := p.consume(lexer.LBRACE, "expected '{'")

	var stmts []ast.Stmt
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(lexer.RBRACE, "expected '}' to close block")

	return &ast.BlockStatement{Statements: stmts, Loc: tokLoc(start)}
}

func (p *Parser) expressionStatement() ast.Stmt {
	start := p.peek()
	expr := p.expression()
	p.consume(lexer.SEMICOLON, "expected ';' after expression")

	return &ast.ExpressionStatement{Expression: expr, Loc: tokLoc(start)}
}

// --- Expressions ---

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.equality()

	if p.match(lexer.EQUAL) {
		eq := p.previous()
		value := p.assignment()
		return &ast.AssignmentExpression{Target: expr, Value: value, Loc: tokLoc(eq)}
	}

	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(lexer.EQUAL_EQUAL, lexer.BANG_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.BinaryExpression{Left: expr, Operator: op.Lexeme, Right: right, Loc: tokLoc(op)}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.additive()
	for p.match(lexer.LESS, lexer.GREATER, lexer.LESS_EQUAL, lexer.GREATER_EQUAL) {
		op := p.previous()
		right := p.additive()
		expr = &ast.BinaryExpression{Left: expr, Operator: op.Lexeme, Right: right, Loc: tokLoc(op)}
	}
	return expr
}

func (p *Parser) additive() ast.Expr {
	expr := p.multiplicative()
	for p.match(lexer.PLUS, lexer.MINUS) {
		op := p.previous()
		right := p.multiplicative()
		expr = &ast.BinaryExpression{Left: expr, Operator: op.Lexeme, Right: right, Loc: tokLoc(op)}
	}
	return expr
}

func (p *Parser) multiplicative() ast.Expr {
	expr := p.unary()
	for p.match(lexer.STAR, lexer.SLASH, lexer.PERCENT) {
		op := p.previous()
		right := p.unary()
		expr = &ast.BinaryExpression{Left: expr, Operator: op.Lexeme, Right: right, Loc: tokLoc(op)}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(lexer.MINUS, lexer.BANG) {
		op := p.previous()
		operand := p.unary()
		return &ast.UnaryExpression{Operator: op.Lexeme, Operand: operand, Loc: tokLoc(op)}
	}
	return p.callOrIndex()
}

func (p *Parser) callOrIndex() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(lexer.LPAREN):
			paren := p.previous()
			var args []ast.Expr
			if !p.check(lexer.RPAREN) {
				for {
					args = append(args, p.expression())
					if !p.match(lexer.COMMA) {
						break
					}
				}
			}
			p.consume(lexer.RPAREN, "expected ')' after arguments")
			expr = &ast.CallExpression{Callee: expr, Arguments: args, Loc: tokLoc(paren)}
		case p.match(lexer.LBRACKET):
			bracket := p.previous()
			index := p.expression()
			p.consume(lexer.RBRACKET, "expected ']' after index expression")
			expr = &ast.IndexExpression{Array: expr, Index: index, Loc: tokLoc(bracket)}
		default:
			return expr
		}
	}
}

func (p *Parser) primary() ast.Expr {
	tok := p.peek()

	switch tok.Type {
	case lexer.INTEGER:
		p.advance()
		v, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return &ast.IntegerLiteral{Value: v, Loc: tokLoc(tok)}
	case lexer.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.FloatLiteral{Value: v, Loc: tokLoc(tok)}
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{Value: tok.Lexeme, Loc: tokLoc(tok)}
	case lexer.TRUE:
		p.advance()
		return &ast.BooleanLiteral{Value: true, Loc: tokLoc(tok)}
	case lexer.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Value: false, Loc: tokLoc(tok)}
	case lexer.IDENTIFIER:
		p.advance()
		return &ast.Identifier{Name: tok.Lexeme, Loc: tokLoc(tok)}
	case lexer.LPAREN:
		p.advance()
		expr := p.expression()
		p.consume(lexer.RPAREN, "expected ')' after expression")
		return expr
	case lexer.LBRACKET:
		return p.arrayLiteral()
	}

	p.advance()
	panic(newParseError(tok, "unexpected token '"+tok.Lexeme+"'"))
}

func (p *Parser) arrayLiteral() ast.Expr {
	start := p.advance() // '['
	var elements []ast.Expr
	if !p.check(lexer.RBRACKET) {
		for {
			elements = append(elements, p.expression())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.consume(lexer.RBRACKET, "expected ']' after array elements")
	return &ast.ArrayLiteral{Elements: elements, Loc: tokLoc(start)}
}

// consumeTypeName accepts either a built-in type-name token or a bare
// identifier (for an as-yet-unknown nominal type) and returns its text.
func (p *Parser) consumeTypeName() string {
	tok := p.peek()
	if tok.Type == lexer.IDENTIFIER || isTypeNameToken(tok.Type) {
		p.advance()
		return tok.Lexeme
	}
	panic(newParseError(tok, "expected a type name"))
}

func isTypeNameToken(t lexer.TokenType) bool {
	switch t {
	case lexer.TYPE_VOID, lexer.TYPE_INT, lexer.TYPE_FLOAT, lexer.TYPE_STRING, lexer.TYPE_BOOLEAN,
		lexer.TYPE_ARRAY, lexer.TYPE_MAP, lexer.TYPE_ELEMENT, lexer.TYPE_ENERGY, lexer.TYPE_SPIRIT, lexer.TYPE_MATTER:
		return true
	default:
		return false
	}
}

// --- Cursor helpers ---

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.EOF
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, message string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(newParseError(p.peek(), message))
}

// synchronize discards tokens until the previous token was ';' or the
// current token begins a new statement, bounding error cascade.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Type == lexer.SEMICOLON {
			return
		}

		switch p.peek().Type {
		case lexer.FUNCTION, lexer.SPELL, lexer.IF, lexer.WHILE, lexer.FOR, lexer.RETURN:
			return
		}

		p.advance()
	}
}

func tokLoc(tok lexer.Token) ast.SourceLocation {
	return ast.SourceLocation{Line: tok.Line, Column: tok.Column}
}
