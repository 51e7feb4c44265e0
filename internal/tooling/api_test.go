package tooling

import (
	"strings"
	"testing"
)

func TestAPICreation(t *testing.T) {
	api := NewAPI()
	if api == nil {
		t.Fatal("NewAPI() returned nil")
	}
	if api.documents == nil {
		t.Error("API documents map is nil")
	}
	if api.config.MaxDiagnostics != 200 {
		t.Errorf("expected default MaxDiagnostics=200, got %d", api.config.MaxDiagnostics)
	}
}

func TestAPIWithCustomConfig(t *testing.T) {
	api := NewAPIWithConfig(Config{MaxDiagnostics: 5})
	if api.config.MaxDiagnostics != 5 {
		t.Errorf("expected MaxDiagnostics=5, got %d", api.config.MaxDiagnostics)
	}
}

func TestParseFile(t *testing.T) {
	api := NewAPI()
	doc := api.ParseFile("test.aether", "var x: Int = 42;")

	if doc == nil {
		t.Fatal("ParseFile() returned nil document")
	}
	if doc.URI != "test.aether" {
		t.Errorf("expected URI='test.aether', got %q", doc.URI)
	}
	if doc.Program == nil {
		t.Fatal("Document Program is nil")
	}
	if len(doc.ParseErrors) != 0 {
		t.Errorf("unexpected parse errors: %v", doc.ParseErrors)
	}
	// Symbols carries the synthetic built-in 'print' first, then the
	// document's own definitions.
	if len(doc.Symbols) != 2 || doc.Symbols[1].Name != "x" {
		t.Errorf("expected print plus one 'x' symbol, got %+v", doc.Symbols)
	}
}

func TestParseFileWithErrors(t *testing.T) {
	api := NewAPI()
	doc := api.ParseFile("test.aether", "var x Int = ;")

	if len(doc.ParseErrors) == 0 {
		t.Error("expected parse errors for invalid syntax")
	}
}

func TestUpdateDocument(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "var x: Int = 1;")

	doc := api.UpdateDocument("test.aether", "var x: Int = 1;\nvar y: Int = 2;")
	if len(doc.Symbols) != 3 {
		t.Errorf("expected 3 symbols after update (print, x, y), got %d", len(doc.Symbols))
	}
}

func TestGetDocument(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "var x: Int = 1;")

	doc, ok := api.GetDocument("test.aether")
	if !ok {
		t.Fatal("expected document to exist")
	}
	if doc.URI != "test.aether" {
		t.Errorf("expected URI='test.aether', got %q", doc.URI)
	}

	if _, ok := api.GetDocument("missing.aether"); ok {
		t.Error("expected missing document to not exist")
	}
}

func TestCloseDocument(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "var x: Int = 1;")

	api.CloseDocument("test.aether")
	if _, ok := api.GetDocument("test.aether"); ok {
		t.Error("expected document to be removed after close")
	}
}

func TestGetDiagnosticsValidSource(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "var x: Int = 42;")

	diags := api.GetDiagnostics("test.aether")
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics for valid source, got %d: %+v", len(diags), diags)
	}
}

func TestGetDiagnosticsTypeError(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", `var x: Int = "hi";`)

	diags := api.GetDiagnostics("test.aether")
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", len(diags), diags)
	}
	if diags[0].Severity != SeverityError {
		t.Errorf("expected severity=Error, got %v", diags[0].Severity)
	}
	if diags[0].Source != "aetherscript-type-checker" {
		t.Errorf("expected source='aetherscript-type-checker', got %q", diags[0].Source)
	}
}

func TestGetDiagnosticsSemanticError(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "print(y);")

	diags := api.GetDiagnostics("test.aether")
	var sawSemantic bool
	for _, d := range diags {
		if d.Source == "aetherscript-semantic-analyzer" {
			sawSemantic = true
			if d.Severity != SeverityWarning {
				t.Errorf("expected semantic diagnostic severity=Warning, got %v", d.Severity)
			}
		}
	}
	if !sawSemantic {
		t.Error("expected a semantic-analyzer diagnostic for the undefined identifier")
	}
}

func TestGetDiagnosticsTruncation(t *testing.T) {
	api := NewAPIWithConfig(Config{MaxDiagnostics: 2})
	var dropped int
	api.OnTruncate(func(uri, kind string, n int) { dropped += n })

	var src strings.Builder
	for i := 0; i < 5; i++ {
		src.WriteString(`var z: Int = "x";` + "\n")
	}
	api.ParseFile("test.aether", src.String())

	diags := api.GetDiagnostics("test.aether")
	// Each kind is truncated separately: 9 type errors and 4 semantic
	// errors become 2 + 2.
	if len(diags) != 4 {
		t.Errorf("expected truncation to 2 type-checker + 2 semantic diagnostics, got %d", len(diags))
	}
	if dropped == 0 {
		t.Error("expected OnTruncate callback to fire")
	}
}

func TestGetHover(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "var x: Int = 42;")

	hover, ok := api.GetHover("test.aether", Position{Line: 0, Character: 4})
	if !ok {
		t.Fatal("expected hover information")
	}
	if !strings.Contains(hover.Contents, "x") || !strings.Contains(hover.Contents, "Int") {
		t.Errorf("expected hover to mention name and type, got: %s", hover.Contents)
	}
}

func TestGetHoverBuiltin(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "print(1);")

	hover, ok := api.GetHover("test.aether", Position{Line: 0, Character: 1})
	if !ok {
		t.Fatal("expected hover information for print")
	}
	want := "function print: Void\nBuilt-in function: print(value: Any) -> Void"
	if !strings.Contains(hover.Contents, want) {
		t.Errorf("expected hover to contain %q, got: %s", want, hover.Contents)
	}
}

func TestGetHoverNoSymbol(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "var x: Int = 42;")

	if _, ok := api.GetHover("test.aether", Position{Line: 0, Character: 0}); ok {
		t.Error("expected no hover information on the 'var' keyword")
	}
}

func TestGetCompletionsKeywordsAndTypes(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "")

	completions := api.GetCompletions("test.aether", Position{Line: 0, Character: 0})
	var sawKeyword, sawType bool
	for _, c := range completions {
		if c.Label == "if" && c.Kind == CompletionKindKeyword {
			sawKeyword = true
		}
		if c.Label == "Int" && c.Kind == CompletionKindType {
			sawType = true
		}
	}
	if !sawKeyword {
		t.Error("expected keyword completions")
	}
	if !sawType {
		t.Error("expected type completions")
	}
}

func TestGetCompletionsTypePosition(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "var x: ")

	completions := api.GetCompletions("test.aether", Position{Line: 0, Character: 7})
	for _, c := range completions {
		if c.Kind == CompletionKindKeyword {
			t.Errorf("did not expect keyword completions in a type position, got %q", c.Label)
		}
	}
}

func TestGetCompletionsPrefixFilter(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "In")

	completions := api.GetCompletions("test.aether", Position{Line: 0, Character: 2})
	if len(completions) == 0 {
		t.Fatal("expected at least one completion for prefix 'In'")
	}
	for _, c := range completions {
		if !strings.HasPrefix(c.Label, "In") {
			t.Errorf("expected only labels with prefix 'In', got %q", c.Label)
		}
	}
}

func TestGetDefinition(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "function f(a: Int) -> Int { return a; }\nf(1);")

	loc, ok := api.GetDefinition("test.aether", Position{Line: 1, Character: 0})
	if !ok {
		t.Fatal("expected a definition location for 'f'")
	}
	if loc.URI != "test.aether" {
		t.Errorf("expected URI='test.aether', got %q", loc.URI)
	}
}

func TestGetDefinitionBuiltinSuppressed(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "print(1);")

	if _, ok := api.GetDefinition("test.aether", Position{Line: 0, Character: 1}); ok {
		t.Error("expected go-to-definition on a built-in to be suppressed")
	}
}

func TestGetReferences(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "var x: Int = 1;\nx = 2;")

	refs := api.GetReferences("test.aether", Position{Line: 0, Character: 4})
	if len(refs) == 0 {
		t.Error("expected at least one reference to 'x'")
	}
}

func TestGetDocumentSymbols(t *testing.T) {
	api := NewAPI()
	api.ParseFile("test.aether", "function f(a: Int) -> Int { return a; }")

	// AllDefinitions also carries the synthetic built-in 'print'
	// Definition every Analyzer run pre-records, ahead of every
	// document-visible definition.
	symbols := api.GetDocumentSymbols("test.aether")
	if len(symbols) != 3 {
		t.Fatalf("expected 3 symbols (print, f, a), got %d: %+v", len(symbols), symbols)
	}
	if symbols[0].Name != "print" {
		t.Errorf("expected first symbol to be the built-in 'print', got %+v", symbols[0])
	}
	if symbols[1].Name != "f" || symbols[1].Kind != SymbolKindFunction {
		t.Errorf("expected second symbol to be function 'f', got %+v", symbols[1])
	}
	if symbols[2].Name != "a" || symbols[2].Kind != SymbolKindParameter {
		t.Errorf("expected third symbol to be parameter 'a', got %+v", symbols[2])
	}
}

func TestSearchWorkspaceSymbols(t *testing.T) {
	api := NewAPI()
	api.ParseFile("a.aether", "var apple: Int = 1;")
	api.ParseFile("b.aether", "var banana: Int = 2;")

	results := api.SearchWorkspaceSymbols("app")
	if len(results) != 1 || results[0].Name != "apple" {
		t.Errorf("expected exactly one match for 'app', got %+v", results)
	}

	// Each document also carries the synthetic built-in 'print'
	// Definition, so the unfiltered search sees both user symbols plus
	// one 'print' per cached document.
	all := api.SearchWorkspaceSymbols("")
	if len(all) != 4 {
		t.Errorf("expected 4 symbols (apple, banana, print x2), got %d: %+v", len(all), all)
	}
}

func TestSearchWorkspaceSymbolsOrderedByDocumentThenDeclaration(t *testing.T) {
	api := NewAPI()
	// Parsed out of URI order, to confirm AllDocuments sorts rather
	// than returning cache (map) iteration order.
	api.ParseFile("z.aether", "function fz1() -> Void {} function fz2() -> Void {}")
	api.ParseFile("a.aether", "function fa1() -> Void {} function fa2() -> Void {}")

	matches := api.SearchWorkspaceSymbols("f")
	var got []string
	for _, s := range matches {
		if s.Name == "print" {
			continue
		}
		got = append(got, s.Name)
	}

	want := []string{"fa1", "fa2", "fz1", "fz2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("position %d: expected %q, got %q (full: %v)", i, name, got[i], got)
		}
	}
}

func TestAllDocumentsSortedByURI(t *testing.T) {
	api := NewAPI()
	api.ParseFile("c.aether", "var x: Int = 1;")
	api.ParseFile("a.aether", "var y: Int = 1;")
	api.ParseFile("b.aether", "var z: Int = 1;")

	docs := api.AllDocuments()
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	for i, want := range []string{"a.aether", "b.aether", "c.aether"} {
		if docs[i].URI != want {
			t.Errorf("position %d: expected URI %q, got %q", i, want, docs[i].URI)
		}
	}
}

func TestThreadSafety(t *testing.T) {
	api := NewAPI()
	source := "var x: Int = 1;"

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			api.ParseFile("test.aether", source)
			api.GetDocument("test.aether")
			api.GetDiagnostics("test.aether")
			api.GetDocumentSymbols("test.aether")
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
