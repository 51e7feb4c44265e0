// Package typechecker walks an ast.Program once, validating operator
// compatibility, assignment, function calls, and control-flow
// predicates, populating a fresh symbol table as it goes.
package typechecker

import (
	"fmt"
	"strings"

	"github.com/aetherscript/aetherscript-lsp/internal/ast"
	"github.com/aetherscript/aetherscript-lsp/internal/symboltable"
)

// Type is a type name as used throughout the checker: one of the fixed
// known types, an "Array<T>" instantiation, the "Any" escape hatch, or
// the Unknown sentinel.
type Type = string

const (
	Void    Type = "Void"
	Int     Type = "Int"
	Float   Type = "Float"
	String  Type = "String"
	Boolean Type = "Boolean"
	Any     Type = "Any"

	// Unknown is the sentinel returned whenever a sub-expression's type
	// cannot be determined. Most rules treat Unknown as incompatible
	// with everything; this is a deliberate cascade-suppression
	// tradeoff, not a bug (see the module's design notes).
	Unknown Type = "Unknown"
)

var knownTypes = map[string]bool{
	"Void": true, "Int": true, "Float": true, "String": true, "Boolean": true,
	"Array": true, "Map": true, "Element": true, "Energy": true, "Spirit": true, "Matter": true,
}

// Checker walks a single Program and accumulates TypeErrors.
type Checker struct {
	table           *symboltable.Table
	errors          []TypeError
	currentFunction *symboltable.Symbol
}

// NewChecker creates a Checker with the built-in symbols installed.
func NewChecker() *Checker {
	c := &Checker{table: symboltable.NewTable()}
	c.installBuiltins()
	return c
}

func (c *Checker) installBuiltins() {
	c.table.Root().Define(symboltable.Symbol{
		Name:     "print",
		Kind:     symboltable.FunctionSymbolKind,
		TypeName: Void,
		Parameters: []symboltable.Symbol{
			{Name: "value", Kind: symboltable.VariableSymbolKind, TypeName: Any, IsMutable: true},
		},
		IsBuiltin: true,
	})
}

// Check walks program and returns the ordered list of TypeErrors
// found. It does not mutate program.
func Check(program *ast.Program) []TypeError {
	c := NewChecker()
	for _, stmt := range program.Statements {
		c.checkStmt(stmt)
	}
	return c.errors
}

func (c *Checker) errorf(loc ast.SourceLocation, format string, args ...interface{}) {
	c.errors = append(c.errors, TypeError{
		Message: fmt.Sprintf(format, args...),
		Line:    loc.Line,
		Column:  loc.Column,
	})
}

// --- Statements ---

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch n := stmt.(type) {
	case *ast.VariableDeclaration:
		c.checkVariableDeclaration(n)
	case *ast.FunctionDeclaration:
		c.checkFunctionDeclaration(n)
	case *ast.ReturnStatement:
		c.checkReturnStatement(n)
	case *ast.IfStatement:
		c.checkIfStatement(n)
	case *ast.WhileStatement:
		c.checkWhileStatement(n)
	case *ast.ForStatement:
		c.checkForStatement(n)
	case *ast.BlockStatement:
		c.checkBlockScoped(n)
	case *ast.ExpressionStatement:
		c.checkExpr(n.Expression)
	}
}

func (c *Checker) checkStatementsInScope(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		c.checkStmt(stmt)
	}
}

func (c *Checker) checkBlockScoped(block *ast.BlockStatement) {
	defer c.table.EnterScope("block")()
	c.checkStatementsInScope(block.Statements)
}

func (c *Checker) checkVariableDeclaration(n *ast.VariableDeclaration) {
	initType := Void
	hasInit := n.Initializer != nil
	if hasInit {
		initType = c.checkExpr(n.Initializer)
	}

	if n.TypeAnnotation != "" {
		if !knownTypes[n.TypeAnnotation] {
			c.errorf(n.Loc, "unknown type '%s'", n.TypeAnnotation)
		} else if hasInit && n.TypeAnnotation != initType {
			c.errorf(n.Loc, "cannot assign value of type '%s' to variable of type '%s'", initType, n.TypeAnnotation)
		}
	}

	symType := n.TypeAnnotation
	if symType == "" {
		symType = initType
	}

	if c.table.Current().ContainsLocal(n.Name) {
		c.errorf(n.Loc, "'%s' is already declared in this scope", n.Name)
		return
	}

	c.table.Current().Define(symboltable.Symbol{
		Name:      n.Name,
		Kind:      symboltable.VariableSymbolKind,
		TypeName:  symType,
		IsMutable: true,
	})
}

func (c *Checker) checkFunctionDeclaration(n *ast.FunctionDeclaration) {
	params := make([]symboltable.Symbol, len(n.Params))
	for i, p := range n.Params {
		params[i] = symboltable.Symbol{
			Name:      p.Name,
			Kind:      symboltable.VariableSymbolKind,
			TypeName:  p.TypeAnnotation,
			IsMutable: true,
		}
	}

	fnSymbol := symboltable.Symbol{
		Name:       n.Name,
		Kind:       symboltable.FunctionSymbolKind,
		TypeName:   n.ReturnType,
		Parameters: params,
	}
	if c.table.Current().ContainsLocal(n.Name) {
		c.errorf(n.Loc, "'%s' is already declared in this scope", n.Name)
	} else {
		c.table.Current().Define(fnSymbol)
	}

	defer c.table.EnterScope("function:" + n.Name)()
	for _, p := range params {
		c.table.Current().Define(p)
	}

	previousFunction := c.currentFunction
	c.currentFunction = &fnSymbol
	defer func() { c.currentFunction = previousFunction }()

	c.checkStatementsInScope(n.Body.Statements)
}

func (c *Checker) checkReturnStatement(n *ast.ReturnStatement) {
	if c.currentFunction == nil {
		c.errorf(n.Loc, "'return' used outside of a function")
		return
	}

	if n.Value == nil {
		if c.currentFunction.TypeName != Void {
			c.errorf(n.Loc, "function must return a value of type '%s'", c.currentFunction.TypeName)
		}
		return
	}

	valType := c.checkExpr(n.Value)
	if valType != c.currentFunction.TypeName {
		c.errorf(n.Loc, "function must return '%s', got '%s'", c.currentFunction.TypeName, valType)
	}
}

func (c *Checker) checkIfStatement(n *ast.IfStatement) {
	c.checkCondition(n.Condition)
	c.checkStmt(n.Then)
	if n.Else != nil {
		c.checkStmt(n.Else)
	}
}

func (c *Checker) checkWhileStatement(n *ast.WhileStatement) {
	c.checkCondition(n.Condition)
	c.checkStmt(n.Body)
}

func (c *Checker) checkForStatement(n *ast.ForStatement) {
	defer c.table.EnterScope("for")()

	if n.Init != nil {
		c.checkStmt(n.Init)
	}
	if n.Condition != nil {
		c.checkCondition(n.Condition)
	}
	if n.Increment != nil {
		c.checkExpr(n.Increment)
	}
	c.checkStatementsInScope(n.Body.Statements)
}

func (c *Checker) checkCondition(cond ast.Expr) {
	condType := c.checkExpr(cond)
	if condType != Boolean {
		c.errorf(cond.Location(), "condition must be 'Boolean', got '%s'", condType)
	}
}

// --- Expressions ---

func (c *Checker) checkExpr(expr ast.Expr) Type {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return Int
	case *ast.FloatLiteral:
		return Float
	case *ast.StringLiteral:
		return String
	case *ast.BooleanLiteral:
		return Boolean
	case *ast.Identifier:
		return c.checkIdentifier(n)
	case *ast.BinaryExpression:
		return c.checkBinary(n)
	case *ast.UnaryExpression:
		return c.checkUnary(n)
	case *ast.CallExpression:
		return c.checkCall(n)
	case *ast.AssignmentExpression:
		return c.checkAssignment(n)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(n)
	case *ast.IndexExpression:
		return c.checkIndex(n)
	default:
		return Unknown
	}
}

func (c *Checker) checkIdentifier(n *ast.Identifier) Type {
	sym, ok := c.table.Current().Resolve(n.Name)
	if !ok {
		c.errorf(n.Loc, "undefined identifier '%s'", n.Name)
		return Unknown
	}
	return sym.TypeName
}

func isNumeric(t Type) bool { return t == Int || t == Float }

func (c *Checker) checkBinary(n *ast.BinaryExpression) Type {
	left := c.checkExpr(n.Left)
	right := c.checkExpr(n.Right)

	switch n.Operator {
	case "==", "!=", "<", ">", "<=", ">=":
		// No operand-type validation beyond what sub-expressions
		// already reported, preserving the original's permissiveness.
		return Boolean

	case "+":
		if left == String || right == String {
			return String
		}
		return c.arithmeticResult(n, left, right)

	case "-", "*", "/", "%":
		return c.arithmeticResult(n, left, right)

	default:
		c.errorf(n.Loc, "unsupported operator '%s'", n.Operator)
		return Unknown
	}
}

func (c *Checker) arithmeticResult(n *ast.BinaryExpression, left, right Type) Type {
	switch {
	case left == Int && right == Int:
		return Int
	case isNumeric(left) && isNumeric(right):
		return Float
	default:
		c.errorf(n.Loc, "operator '%s' is not defined for '%s' and '%s'", n.Operator, left, right)
		return Unknown
	}
}

func (c *Checker) checkUnary(n *ast.UnaryExpression) Type {
	operandType := c.checkExpr(n.Operand)

	switch n.Operator {
	case "-":
		if !isNumeric(operandType) {
			c.errorf(n.Loc, "unary '-' requires a numeric operand, got '%s'", operandType)
			return Unknown
		}
		return operandType
	case "!":
		if operandType != Boolean {
			c.errorf(n.Loc, "unary '!' requires a 'Boolean' operand, got '%s'", operandType)
			return Unknown
		}
		return Boolean
	default:
		c.errorf(n.Loc, "unsupported unary operator '%s'", n.Operator)
		return Unknown
	}
}

func (c *Checker) checkCall(n *ast.CallExpression) Type {
	ident, ok := n.Callee.(*ast.Identifier)
	if !ok {
		c.errorf(n.Loc, "call target must be an identifier")
		for _, arg := range n.Arguments {
			c.checkExpr(arg)
		}
		return Unknown
	}

	sym, resolved := c.table.Current().Resolve(ident.Name)
	if !resolved {
		c.errorf(n.Loc, "undefined function '%s'", ident.Name)
		for _, arg := range n.Arguments {
			c.checkExpr(arg)
		}
		return Unknown
	}
	if sym.Kind != symboltable.FunctionSymbolKind {
		c.errorf(n.Loc, "'%s' is not callable", ident.Name)
		for _, arg := range n.Arguments {
			c.checkExpr(arg)
		}
		return Unknown
	}

	if len(n.Arguments) != len(sym.Parameters) {
		c.errorf(n.Loc, "'%s' expects %d argument(s), got %d", ident.Name, len(sym.Parameters), len(n.Arguments))
	}

	for i, arg := range n.Arguments {
		argType := c.checkExpr(arg)
		if i >= len(sym.Parameters) {
			continue
		}
		paramType := sym.Parameters[i].TypeName
		if paramType != Any && argType != paramType {
			c.errorf(arg.Location(), "argument %d to '%s' must be '%s', got '%s'", i+1, ident.Name, paramType, argType)
		}
	}

	return sym.TypeName
}

func (c *Checker) checkAssignment(n *ast.AssignmentExpression) Type {
	valueType := c.checkExpr(n.Value)

	ident, ok := n.Target.(*ast.Identifier)
	if !ok {
		c.errorf(n.Loc, "invalid assignment target")
		return Unknown
	}

	sym, resolved := c.table.Current().Resolve(ident.Name)
	if !resolved {
		c.errorf(n.Loc, "undefined variable '%s'", ident.Name)
		return Unknown
	}
	if sym.Kind != symboltable.VariableSymbolKind || !sym.IsMutable {
		c.errorf(n.Loc, "'%s' is not assignable", ident.Name)
		return Unknown
	}

	if valueType != sym.TypeName {
		c.errorf(n.Loc, "cannot assign value of type '%s' to variable of type '%s'", valueType, sym.TypeName)
	}

	return sym.TypeName
}

func (c *Checker) checkArrayLiteral(n *ast.ArrayLiteral) Type {
	if len(n.Elements) == 0 {
		return "Array<Any>"
	}

	first := c.checkExpr(n.Elements[0])
	for _, elem := range n.Elements[1:] {
		elemType := c.checkExpr(elem)
		if elemType != first {
			c.errorf(elem.Location(), "array elements must share a common type; expected '%s', got '%s'", first, elemType)
		}
	}

	return fmt.Sprintf("Array<%s>", first)
}

func (c *Checker) checkIndex(n *ast.IndexExpression) Type {
	arrayType := c.checkExpr(n.Array)
	indexType := c.checkExpr(n.Index)

	if indexType != Int {
		c.errorf(n.Loc, "array index must be 'Int', got '%s'", indexType)
	}

	if !strings.HasPrefix(arrayType, "Array<") {
		c.errorf(n.Loc, "cannot index a value of type '%s'", arrayType)
		return Unknown
	}

	return strings.TrimSuffix(strings.TrimPrefix(arrayType, "Array<"), ">")
}
