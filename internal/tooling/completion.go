package tooling

import "strings"

// keywordCompletions lists the fixed keyword set from lexer.Keywords,
// offered whenever completion is requested outside a type-annotation
// position.
var keywordCompletions = []CompletionItem{
	{Label: "if", Kind: CompletionKindKeyword, Detail: "conditional statement"},
	{Label: "else", Kind: CompletionKindKeyword, Detail: "else clause"},
	{Label: "elif", Kind: CompletionKindKeyword, Detail: "else-if clause"},
	{Label: "while", Kind: CompletionKindKeyword, Detail: "while loop"},
	{Label: "for", Kind: CompletionKindKeyword, Detail: "for loop"},
	{Label: "return", Kind: CompletionKindKeyword, Detail: "return statement"},
	{Label: "break", Kind: CompletionKindKeyword, Detail: "reserved keyword"},
	{Label: "continue", Kind: CompletionKindKeyword, Detail: "reserved keyword"},
	{Label: "function", Kind: CompletionKindKeyword, Detail: "declare a function"},
	{Label: "spell", Kind: CompletionKindKeyword, Detail: "declare a function"},
	{Label: "ritual", Kind: CompletionKindKeyword, Detail: "reserved keyword"},
	{Label: "conjure", Kind: CompletionKindKeyword, Detail: "reserved keyword"},
	{Label: "entity", Kind: CompletionKindKeyword, Detail: "reserved keyword"},
	{Label: "realm", Kind: CompletionKindKeyword, Detail: "reserved keyword"},
	{Label: "dimension", Kind: CompletionKindKeyword, Detail: "reserved keyword"},
	{Label: "var", Kind: CompletionKindKeyword, Detail: "declare a variable"},
	{Label: "true", Kind: CompletionKindKeyword, Detail: "boolean literal"},
	{Label: "false", Kind: CompletionKindKeyword, Detail: "boolean literal"},
}

// typeCompletions lists the fixed built-in type names, offered
// in a type-annotation position (after ':' or '->').
var typeCompletions = []CompletionItem{
	{Label: "Void", Kind: CompletionKindType, Detail: "no value"},
	{Label: "Int", Kind: CompletionKindType, Detail: "64-bit signed integer"},
	{Label: "Float", Kind: CompletionKindType, Detail: "64-bit floating point"},
	{Label: "String", Kind: CompletionKindType, Detail: "text string"},
	{Label: "Boolean", Kind: CompletionKindType, Detail: "true or false"},
	{Label: "Array", Kind: CompletionKindType, Detail: "Array<T> collection"},
	{Label: "Map", Kind: CompletionKindType, Detail: "key-value map"},
	{Label: "Element", Kind: CompletionKindType, Detail: "domain type"},
	{Label: "Energy", Kind: CompletionKindType, Detail: "domain type"},
	{Label: "Spirit", Kind: CompletionKindType, Detail: "domain type"},
	{Label: "Matter", Kind: CompletionKindType, Detail: "domain type"},
}

// GetCompletions enumerates keyword/type completions plus every
// recorded Definition visible in uri, filtered to those whose label
// starts with the word prefix immediately left of pos (case-sensitive,
// per identifier syntax). In a type-annotation position (the
// non-whitespace run left of the cursor on the current line ends with
// ':' or "->") only type completions and definitions are offered;
// otherwise keywords, types, and definitions are all offered.
func (a *API) GetCompletions(uri string, pos Position) []CompletionItem {
	doc, ok := a.GetDocument(uri)
	if !ok {
		return nil
	}

	prefix := ""
	if word, wordRange, ok := wordAt(doc.Text, pos); ok {
		prefix = word[:pos.Character-wordRange.Start.Character]
	}

	var items []CompletionItem
	if !inTypePosition(doc.Text, pos) {
		items = append(items, keywordCompletions...)
	}
	items = append(items, typeCompletions...)
	items = append(items, definitionCompletions(doc)...)

	if prefix == "" {
		return items
	}

	filtered := make([]CompletionItem, 0, len(items))
	for _, item := range items {
		if strings.HasPrefix(item.Label, prefix) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func definitionCompletions(doc *Document) []CompletionItem {
	if doc.Semantic == nil {
		return nil
	}
	items := make([]CompletionItem, 0, len(doc.Semantic.AllDefinitions))
	for _, def := range doc.Semantic.AllDefinitions {
		kind := CompletionKindVariable
		if def.Kind.String() == "function" {
			kind = CompletionKindFunction
		}
		items = append(items, CompletionItem{
			Label:  def.Name,
			Kind:   kind,
			Detail: def.TypeName,
		})
	}
	return items
}

// inTypePosition reports whether pos sits right after a ':' or "->"
// token on its line, ignoring intervening whitespace — the position a
// variable or parameter's type annotation, or a function's return
// type, is written in.
func inTypePosition(text string, pos Position) bool {
	lines := splitLines(text)
	if pos.Line < 0 || pos.Line >= len(lines) {
		return false
	}
	line := lines[pos.Line]
	if pos.Character < 0 || pos.Character > len(line) {
		return false
	}
	prefix := strings.TrimRight(line[:pos.Character], " \t")
	return strings.HasSuffix(prefix, ":") || strings.HasSuffix(prefix, "->")
}
