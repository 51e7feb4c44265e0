// Package tooling owns the per-document cache and converts the core
// pipeline's results (AST, parse/type/semantic errors) into the
// LSP-shaped data the adapter layer in internal/lsp consumes.
package tooling

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aetherscript/aetherscript-lsp/internal/ast"
	"github.com/aetherscript/aetherscript-lsp/internal/parser"
	"github.com/aetherscript/aetherscript-lsp/internal/semantic"
	"github.com/aetherscript/aetherscript-lsp/internal/typechecker"
)

// Position is a 0-based LSP position.
type Position struct {
	Line      int
	Character int
}

// Range is a 0-based LSP range.
type Range struct {
	Start Position
	End   Position
}

// Location pairs a document URI with a Range inside it.
type Location struct {
	URI   string
	Range Range
}

// DiagnosticSeverity mirrors the LSP severity enumeration.
type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
)

// Diagnostic is one converted, LSP-ready diagnostic entry.
type Diagnostic struct {
	Range    Range
	Severity DiagnosticSeverity
	Source   string
	Message  string
}

// SymbolKind mirrors the subset of LSP SymbolKind values this language
// produces.
type SymbolKind int

const (
	SymbolKindFunction SymbolKind = iota
	SymbolKindVariable
	SymbolKindParameter
)

// Symbol is a flattened Definition, ready for documentSymbol/
// workspace/symbol responses.
type Symbol struct {
	Name          string
	Kind          SymbolKind
	Range         Range
	Type          string
	Detail        string
	ContainerName string
}

// Hover is the markdown-formatted hover payload for one symbol.
type Hover struct {
	Contents string
	Range    Range
}

// CompletionKind mirrors the LSP CompletionItemKind values this
// language produces.
type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindType
	CompletionKindFunction
	CompletionKindVariable
)

// CompletionItem is one candidate returned from GetCompletions.
type CompletionItem struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// Document is the cached, latest-analysis state for one open file.
type Document struct {
	URI         string
	Text        string
	Program     *ast.Program
	ParseErrors []*parser.ParseError
	TypeErrors  []typechecker.TypeError
	Semantic    *semantic.Info
	Symbols     []Symbol
}

// Config bounds diagnostic volume per file; MaxDiagnostics <= 0 means
// unbounded.
type Config struct {
	MaxDiagnostics int
}

// API is the thread-safe per-document cache the LSP layer calls into.
type API struct {
	mu         sync.RWMutex
	documents  map[string]*Document
	config     Config
	onTruncate func(uri string, kind string, dropped int)
}

// NewAPI creates an API with default configuration.
func NewAPI() *API {
	return NewAPIWithConfig(Config{MaxDiagnostics: 200})
}

// NewAPIWithConfig creates an API with explicit configuration.
func NewAPIWithConfig(cfg Config) *API {
	return &API{
		documents: make(map[string]*Document),
		config:    cfg,
	}
}

// OnTruncate installs a callback invoked whenever GetDiagnostics drops
// entries past Config.MaxDiagnostics, so the caller can log it.
func (a *API) OnTruncate(fn func(uri, kind string, dropped int)) {
	a.onTruncate = fn
}

// ParseFile runs the full pipeline over text and installs the result
// as uri's Document, replacing any previous one.
func (a *API) ParseFile(uri, text string) *Document {
	return a.UpdateDocument(uri, text)
}

// UpdateDocument re-runs the pipeline over text and atomically
// replaces uri's cached Document. The pipeline itself runs without
// holding the lock, so concurrent documents never block each other.
func (a *API) UpdateDocument(uri, text string) *Document {
	doc := a.analyze(uri, text)

	a.mu.Lock()
	a.documents[uri] = doc
	a.mu.Unlock()

	return doc
}

func (a *API) analyze(uri, text string) *Document {
	program, parseErrors := parser.Parse(text)
	typeErrors := typechecker.Check(program)
	semanticInfo := semantic.Analyze(program)

	doc := &Document{
		URI:         uri,
		Text:        text,
		Program:     program,
		ParseErrors: parseErrors,
		TypeErrors:  typeErrors,
		Semantic:    semanticInfo,
	}
	doc.Symbols = extractSymbols(semanticInfo)
	return doc
}

// extractSymbols flattens an analysis run's Definitions, in
// source-visit order, into the Symbol shape documentSymbol/
// workspace/symbol respond with.
func extractSymbols(info *semantic.Info) []Symbol {
	if info == nil {
		return nil
	}
	symbols := make([]Symbol, 0, len(info.AllDefinitions))
	for _, def := range info.AllDefinitions {
		kind := SymbolKindVariable
		switch def.Kind.String() {
		case "function":
			kind = SymbolKindFunction
		case "parameter":
			kind = SymbolKindParameter
		}
		symbols = append(symbols, Symbol{
			Name:   def.Name,
			Kind:   kind,
			Range:  pointRange(def.Location.Line, def.Location.Column, len(def.Name)),
			Type:   def.TypeName,
			Detail: def.Detail,
		})
	}
	return symbols
}

// GetDocument returns the cached Document for uri, if any.
func (a *API) GetDocument(uri string) (*Document, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	doc, ok := a.documents[uri]
	return doc, ok
}

// CloseDocument removes uri from the cache.
func (a *API) CloseDocument(uri string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.documents, uri)
}

// AllDocuments returns a snapshot of every cached Document, sorted by
// URI so that callers flattening symbols across documents (workspace/
// symbol) get a stable, spec-ordered result: by document, then by each
// document's own declaration order.
func (a *API) AllDocuments() []*Document {
	a.mu.RLock()
	defer a.mu.RUnlock()

	docs := make([]*Document, 0, len(a.documents))
	for _, doc := range a.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	return docs
}

// GetDiagnostics converts a Document's parse, type, and semantic
// errors into LSP diagnostics, parse errors first, then type errors,
// then semantic errors — each truncated independently to
// Config.MaxDiagnostics.
func (a *API) GetDiagnostics(uri string) []Diagnostic {
	doc, ok := a.GetDocument(uri)
	if !ok {
		return nil
	}

	var diags []Diagnostic

	parseDiags := make([]Diagnostic, 0, len(doc.ParseErrors))
	for _, perr := range doc.ParseErrors {
		parseDiags = append(parseDiags, Diagnostic{
			Range:    pointRange(perr.Token.Line, perr.Token.Column, len(perr.Token.Lexeme)),
			Severity: SeverityError,
			Source:   "aetherscript-parser",
			Message:  perr.Message,
		})
	}
	diags = append(diags, a.truncate(uri, "parser", parseDiags)...)

	typeDiags := make([]Diagnostic, 0, len(doc.TypeErrors))
	for _, terr := range doc.TypeErrors {
		typeDiags = append(typeDiags, Diagnostic{
			Range:    pointRange(terr.Line, terr.Column, 1),
			Severity: SeverityError,
			Source:   "aetherscript-type-checker",
			Message:  terr.Message,
		})
	}
	diags = append(diags, a.truncate(uri, "type-checker", typeDiags)...)

	if doc.Semantic != nil {
		semDiags := make([]Diagnostic, 0, len(doc.Semantic.Errors))
		for _, serr := range doc.Semantic.Errors {
			message, line, col := parseTrailingLocation(serr)
			semDiags = append(semDiags, Diagnostic{
				Range:    pointRange(line, col, 1),
				Severity: SeverityWarning,
				Source:   "aetherscript-semantic-analyzer",
				Message:  message,
			})
		}
		diags = append(diags, a.truncate(uri, "semantic-analyzer", semDiags)...)
	}

	return diags
}

func (a *API) truncate(uri, kind string, diags []Diagnostic) []Diagnostic {
	if a.config.MaxDiagnostics <= 0 || len(diags) <= a.config.MaxDiagnostics {
		return diags
	}
	dropped := len(diags) - a.config.MaxDiagnostics
	if a.onTruncate != nil {
		a.onTruncate(uri, kind, dropped)
	}
	return diags[:a.config.MaxDiagnostics]
}

// parseTrailingLocation recovers the "<message> at <line>:<col>"
// convention semantic errors are formatted with. If the suffix can't
// be parsed, the whole string is returned as the message at (1,1).
func parseTrailingLocation(s string) (message string, line, col int) {
	idx := strings.LastIndex(s, " at ")
	if idx < 0 {
		return s, 1, 1
	}
	loc := s[idx+len(" at "):]
	parts := strings.SplitN(loc, ":", 2)
	if len(parts) != 2 {
		return s, 1, 1
	}
	l, err1 := strconv.Atoi(parts[0])
	c, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return s, 1, 1
	}
	return s[:idx], l, c
}

// pointRange builds a 0-based Range covering wordLen characters
// starting at the 1-based (line, column) position.
func pointRange(line, column, wordLen int) Range {
	if wordLen < 1 {
		wordLen = 1
	}
	l := line - 1
	c := column - 1
	if l < 0 {
		l = 0
	}
	if c < 0 {
		c = 0
	}
	return Range{
		Start: Position{Line: l, Character: c},
		End:   Position{Line: l, Character: c + wordLen},
	}
}

// GetHover returns hover text for the identifier under pos, if any.
func (a *API) GetHover(uri string, pos Position) (*Hover, bool) {
	doc, ok := a.GetDocument(uri)
	if !ok || doc.Semantic == nil {
		return nil, false
	}

	word, wordRange, ok := wordAt(doc.Text, pos)
	if !ok {
		return nil, false
	}

	text, ok := doc.Semantic.FindHoverInfo(word, toCoreLocation(pos))
	if !ok {
		return nil, false
	}

	return &Hover{
		Contents: fmt.Sprintf("```aetherscript\n%s\n```", text),
		Range:    wordRange,
	}, true
}

// GetDefinition returns the Location of word's definition under pos,
// if it has a navigable (non-synthetic) location.
func (a *API) GetDefinition(uri string, pos Position) (*Location, bool) {
	doc, ok := a.GetDocument(uri)
	if !ok || doc.Semantic == nil {
		return nil, false
	}

	word, _, ok := wordAt(doc.Text, pos)
	if !ok {
		return nil, false
	}

	def, found := doc.Semantic.FindDefinition(word, toCoreLocation(pos))
	if !found {
		return nil, false
	}
	if def.Location.Line == 0 && def.Location.Column == 0 {
		// Synthetic location for built-ins (e.g. print): no navigable
		// target, so go-to-definition is a deliberate no-op.
		return nil, false
	}

	return &Location{
		URI:   uri,
		Range: pointRange(def.Location.Line, def.Location.Column, len(def.Name)),
	}, true
}

// GetReferences returns every reference to the word under pos, bound
// to the definition found at that location.
func (a *API) GetReferences(uri string, pos Position) []Location {
	doc, ok := a.GetDocument(uri)
	if !ok || doc.Semantic == nil {
		return nil
	}

	word, _, ok := wordAt(doc.Text, pos)
	if !ok {
		return nil
	}

	def, found := doc.Semantic.FindDefinition(word, toCoreLocation(pos))
	if !found {
		return nil
	}

	refs := doc.Semantic.FindAllReferences(word, def.Location)
	locations := make([]Location, 0, len(refs))
	for _, ref := range refs {
		locations = append(locations, Location{
			URI:   uri,
			Range: pointRange(ref.Location.Line, ref.Location.Column, len(ref.Name)),
		})
	}
	return locations
}

// GetDocumentSymbols returns the flattened Definitions for uri, in
// source-visit order.
func (a *API) GetDocumentSymbols(uri string) []Symbol {
	doc, ok := a.GetDocument(uri)
	if !ok {
		return nil
	}
	return doc.Symbols
}

// SearchWorkspaceSymbols flattens Definitions across every cached
// document, filtering by a case-insensitive substring match on query.
func (a *API) SearchWorkspaceSymbols(query string) []Symbol {
	query = strings.ToLower(query)

	var result []Symbol
	for _, doc := range a.AllDocuments() {
		for _, sym := range doc.Symbols {
			if query == "" || strings.Contains(strings.ToLower(sym.Name), query) {
				result = append(result, sym)
			}
		}
	}
	return result
}

func toCoreLocation(pos Position) ast.SourceLocation {
	return ast.SourceLocation{Line: pos.Line + 1, Column: pos.Character + 1}
}
