// Package semantic runs a second, independent walk over the AST to
// build the navigation model an LSP adapter queries: definitions,
// references, and hover text.
package semantic

import (
	"fmt"
	"strings"

	"github.com/aetherscript/aetherscript-lsp/internal/ast"
	"github.com/aetherscript/aetherscript-lsp/internal/symboltable"
)

// DefinitionKind tags the three kinds of name-introducing site.
type DefinitionKind int

const (
	FunctionDefinition DefinitionKind = iota
	VariableDefinition
	ParameterDefinition
)

func (k DefinitionKind) String() string {
	switch k {
	case FunctionDefinition:
		return "function"
	case VariableDefinition:
		return "variable"
	case ParameterDefinition:
		return "parameter"
	default:
		return "unknown"
	}
}

// Definition is the point where a name is introduced.
type Definition struct {
	Name     string
	Kind     DefinitionKind
	Location ast.SourceLocation
	TypeName string
	Detail   string
}

// Reference is a usage site bound to the Definition discovered there.
type Reference struct {
	Name       string
	Location   ast.SourceLocation
	Definition Definition
}

// Info is the full navigation model for one analysis run.
type Info struct {
	Definitions map[string][]Definition
	// AllDefinitions holds every Definition in source-visit order,
	// regardless of name — the map above loses that ordering once
	// definitions for different names interleave.
	AllDefinitions []Definition
	References     []Reference
	Errors         []string
}

// FindDefinition returns the first recorded Definition of name, or
// false if there is none. This is scope-blind by design: it is wrong
// for shadowed names, a known and preserved weakness (see the module's
// design notes) rather than an oversight.
func (info *Info) FindDefinition(name string, _ ast.SourceLocation) (Definition, bool) {
	defs := info.Definitions[name]
	if len(defs) == 0 {
		return Definition{}, false
	}
	return defs[0], true
}

// FindAllReferences returns every Reference to name whose bound
// Definition's location equals defLocation exactly.
func (info *Info) FindAllReferences(name string, defLocation ast.SourceLocation) []Reference {
	var result []Reference
	for _, ref := range info.References {
		if ref.Name == name && ref.Definition.Location == defLocation {
			result = append(result, ref)
		}
	}
	return result
}

// FindHoverInfo formats hover text for the first Definition of name.
func (info *Info) FindHoverInfo(name string, loc ast.SourceLocation) (string, bool) {
	def, ok := info.FindDefinition(name, loc)
	if !ok {
		return "", false
	}
	if def.Detail != "" {
		return fmt.Sprintf("%s %s: %s\n%s", def.Kind, def.Name, def.TypeName, def.Detail), true
	}
	return fmt.Sprintf("%s %s: %s", def.Kind, def.Name, def.TypeName), true
}

// Analyzer performs the walk that produces an Info.
type Analyzer struct {
	table           *symboltable.Table
	info            *Info
	currentFunction string
}

// NewAnalyzer creates an Analyzer with the built-in print definition
// pre-recorded at the synthetic location (0,0).
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		table: symboltable.NewTable(),
		info: &Info{
			Definitions: make(map[string][]Definition),
		},
	}
	a.table.Root().Define(symboltable.Symbol{
		Name:      "print",
		Kind:      symboltable.FunctionSymbolKind,
		TypeName:  "Void",
		IsBuiltin: true,
		Parameters: []symboltable.Symbol{
			{Name: "value", Kind: symboltable.VariableSymbolKind, TypeName: "Any"},
		},
	})
	a.recordDefinition("print", FunctionDefinition, ast.SourceLocation{Line: 0, Column: 0}, "Void",
		"Built-in function: print(value: Any) -> Void")
	return a
}

// Analyze runs the full walk over program and returns the resulting
// Info.
func Analyze(program *ast.Program) *Info {
	a := NewAnalyzer()
	for _, stmt := range program.Statements {
		a.walkStmt(stmt)
	}
	return a.info
}

func (a *Analyzer) recordDefinition(name string, kind DefinitionKind, loc ast.SourceLocation, typeName, detail string) Definition {
	def := Definition{Name: name, Kind: kind, Location: loc, TypeName: typeName, Detail: detail}
	a.info.Definitions[name] = append(a.info.Definitions[name], def)
	a.info.AllDefinitions = append(a.info.AllDefinitions, def)
	return def
}

func (a *Analyzer) walkStmt(stmt ast.Stmt) {
	switch n := stmt.(type) {
	case *ast.VariableDeclaration:
		a.walkVariableDeclaration(n)
	case *ast.FunctionDeclaration:
		a.walkFunctionDeclaration(n)
	case *ast.ReturnStatement:
		if n.Value != nil {
			a.walkExpr(n.Value)
		}
	case *ast.IfStatement:
		a.walkExpr(n.Condition)
		a.walkStmt(n.Then)
		if n.Else != nil {
			a.walkStmt(n.Else)
		}
	case *ast.WhileStatement:
		a.walkExpr(n.Condition)
		a.walkStmt(n.Body)
	case *ast.ForStatement:
		a.walkForStatement(n)
	case *ast.BlockStatement:
		a.walkBlockScoped(n)
	case *ast.ExpressionStatement:
		a.walkExpr(n.Expression)
	}
}

func (a *Analyzer) walkStatementsInScope(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		a.walkStmt(stmt)
	}
}

func (a *Analyzer) walkBlockScoped(block *ast.BlockStatement) {
	defer a.table.EnterScope("block")()
	a.walkStatementsInScope(block.Statements)
}

func (a *Analyzer) walkVariableDeclaration(n *ast.VariableDeclaration) {
	// The analyzer never runs type inference; an unannotated variable
	// is recorded with the placeholder type "inferred".
	typeName := n.TypeAnnotation
	if typeName == "" {
		typeName = "inferred"
	}

	a.recordDefinition(n.Name, VariableDefinition, n.Loc, typeName, "")

	if a.table.Current().ContainsLocal(n.Name) {
		a.info.Errors = append(a.info.Errors,
			fmt.Sprintf("Variable '%s' is already defined at %d:%d", n.Name, n.Loc.Line, n.Loc.Column))
	} else {
		a.table.Current().Define(symboltable.Symbol{
			Name:      n.Name,
			Kind:      symboltable.VariableSymbolKind,
			TypeName:  typeName,
			IsMutable: true,
		})
	}

	// The variable is in scope before its initializer is walked, so
	// `var x = x;` resolves rather than reporting x as undefined.
	if n.Initializer != nil {
		a.walkExpr(n.Initializer)
	}
}

func (a *Analyzer) walkFunctionDeclaration(n *ast.FunctionDeclaration) {
	paramSymbols := make([]symboltable.Symbol, len(n.Params))
	paramStrs := make([]string, len(n.Params))
	for i, p := range n.Params {
		paramSymbols[i] = symboltable.Symbol{
			Name:      p.Name,
			Kind:      symboltable.VariableSymbolKind,
			TypeName:  p.TypeAnnotation,
			IsMutable: true,
		}
		paramStrs[i] = fmt.Sprintf("%s: %s", p.Name, p.TypeAnnotation)
	}

	detail := fmt.Sprintf("function %s(%s) -> %s", n.Name, strings.Join(paramStrs, ", "), n.ReturnType)
	a.recordDefinition(n.Name, FunctionDefinition, n.Loc, n.ReturnType, detail)

	if a.table.Current().ContainsLocal(n.Name) {
		a.info.Errors = append(a.info.Errors,
			fmt.Sprintf("Function '%s' is already defined at %d:%d", n.Name, n.Loc.Line, n.Loc.Column))
	} else {
		a.table.Current().Define(symboltable.Symbol{
			Name:       n.Name,
			Kind:       symboltable.FunctionSymbolKind,
			TypeName:   n.ReturnType,
			Parameters: paramSymbols,
		})
	}

	previousFunction := a.currentFunction
	a.currentFunction = n.Name
	defer func() { a.currentFunction = previousFunction }()

	defer a.table.EnterScope("function:" + n.Name)()
	for i, p := range n.Params {
		a.recordDefinition(p.Name, ParameterDefinition, p.Loc, p.TypeAnnotation, "")
		a.table.Current().Define(paramSymbols[i])
	}

	a.walkStatementsInScope(n.Body.Statements)
}

func (a *Analyzer) walkForStatement(n *ast.ForStatement) {
	defer a.table.EnterScope("for")()

	if n.Init != nil {
		a.walkStmt(n.Init)
	}
	if n.Condition != nil {
		a.walkExpr(n.Condition)
	}
	if n.Increment != nil {
		a.walkExpr(n.Increment)
	}
	a.walkStatementsInScope(n.Body.Statements)
}

func (a *Analyzer) walkExpr(expr ast.Expr) {
	switch n := expr.(type) {
	case *ast.Identifier:
		a.walkIdentifier(n)
	case *ast.BinaryExpression:
		a.walkExpr(n.Left)
		a.walkExpr(n.Right)
	case *ast.UnaryExpression:
		a.walkExpr(n.Operand)
	case *ast.CallExpression:
		a.walkExpr(n.Callee)
		for _, arg := range n.Arguments {
			a.walkExpr(arg)
		}
	case *ast.AssignmentExpression:
		a.walkExpr(n.Target)
		a.walkExpr(n.Value)
	case *ast.ArrayLiteral:
		for _, elem := range n.Elements {
			a.walkExpr(elem)
		}
	case *ast.IndexExpression:
		a.walkExpr(n.Array)
		a.walkExpr(n.Index)
	}
}

func (a *Analyzer) walkIdentifier(n *ast.Identifier) {
	if _, ok := a.table.Current().Resolve(n.Name); !ok {
		a.info.Errors = append(a.info.Errors, fmt.Sprintf("Undefined identifier '%s' at %d:%d", n.Name, n.Loc.Line, n.Loc.Column))
		return
	}

	if def, ok := a.info.FindDefinition(n.Name, n.Loc); ok {
		a.info.References = append(a.info.References, Reference{
			Name:       n.Name,
			Location:   n.Loc,
			Definition: def,
		})
	}
}
