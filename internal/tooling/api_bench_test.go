package tooling

import (
	"fmt"
	"testing"
)

const benchSimpleSource = `
function add(a: Int, b: Int) -> Int {
    return a + b;
}
var total: Int = add(1, 2);
`

const benchComplexSource = `
function fib(n: Int) -> Int {
    if (n < 2) {
        return n;
    }
    return fib(n - 1) + fib(n - 2);
}

function main() -> Void {
    var i: Int = 0;
    while (i < 10) {
        print(fib(i));
        i = i + 1;
    }
    for (var j: Int = 0; j < 5; j = j + 1) {
        print(j);
    }
}
`

func BenchmarkParseSimpleProgram(b *testing.B) {
	api := NewAPI()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.ParseFile(fmt.Sprintf("test%d.aether", i), benchSimpleSource)
	}
}

func BenchmarkParseComplexProgram(b *testing.B) {
	api := NewAPI()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.ParseFile(fmt.Sprintf("test%d.aether", i), benchComplexSource)
	}
}

// BenchmarkGetHover targets <50ms per operation.
func BenchmarkGetHover(b *testing.B) {
	api := NewAPI()
	api.ParseFile("test.aether", benchSimpleSource)

	// Position on "add" in the call expression.
	pos := Position{Line: 4, Character: 18}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.GetHover("test.aether", pos)
	}

	if b.N > 0 {
		msPerOp := b.Elapsed().Nanoseconds() / int64(b.N) / 1_000_000
		if msPerOp > 50 {
			b.Errorf("GetHover took %dms per operation, expected <50ms", msPerOp)
		}
	}
}

// BenchmarkGetCompletions targets <50ms per operation.
func BenchmarkGetCompletions(b *testing.B) {
	api := NewAPI()
	api.ParseFile("test.aether", benchComplexSource)

	pos := Position{Line: 10, Character: 4}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.GetCompletions("test.aether", pos)
	}

	if b.N > 0 {
		msPerOp := b.Elapsed().Nanoseconds() / int64(b.N) / 1_000_000
		if msPerOp > 50 {
			b.Errorf("GetCompletions took %dms per operation, expected <50ms", msPerOp)
		}
	}
}

func BenchmarkGetCompletionsTypePosition(b *testing.B) {
	api := NewAPI()
	source := "var x: "
	api.ParseFile("test.aether", source)

	pos := Position{Line: 0, Character: 7}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.GetCompletions("test.aether", pos)
	}
}

// BenchmarkGetDefinition targets <50ms per operation.
func BenchmarkGetDefinition(b *testing.B) {
	api := NewAPI()
	api.ParseFile("test.aether", benchSimpleSource)

	pos := Position{Line: 4, Character: 18}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.GetDefinition("test.aether", pos)
	}

	if b.N > 0 {
		msPerOp := b.Elapsed().Nanoseconds() / int64(b.N) / 1_000_000
		if msPerOp > 50 {
			b.Errorf("GetDefinition took %dms per operation, expected <50ms", msPerOp)
		}
	}
}

func BenchmarkGetReferences(b *testing.B) {
	api := NewAPI()
	api.ParseFile("test.aether", benchSimpleSource)

	pos := Position{Line: 4, Character: 18}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.GetReferences("test.aether", pos)
	}
}

func BenchmarkGetDocumentSymbols(b *testing.B) {
	api := NewAPI()
	api.ParseFile("test.aether", benchComplexSource)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.GetDocumentSymbols("test.aether")
	}
}

func BenchmarkGetDiagnostics(b *testing.B) {
	api := NewAPI()
	api.ParseFile("test.aether", benchComplexSource)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.GetDiagnostics("test.aether")
	}
}

func BenchmarkUpdateDocument(b *testing.B) {
	api := NewAPI()
	api.ParseFile("test.aether", benchSimpleSource)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.UpdateDocument("test.aether", benchComplexSource)
	}
}

func BenchmarkConcurrentAccess(b *testing.B) {
	api := NewAPI()
	api.ParseFile("test.aether", benchComplexSource)
	pos := Position{Line: 10, Character: 4}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			api.GetDiagnostics("test.aether")
			api.GetHover("test.aether", pos)
			api.GetDocumentSymbols("test.aether")
		}
	})
}

func BenchmarkSearchWorkspaceSymbols(b *testing.B) {
	api := NewAPI()
	for i := 0; i < 100; i++ {
		api.ParseFile(fmt.Sprintf("test%d.aether", i), fmt.Sprintf("var value%d: Int = %d;", i, i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		api.SearchWorkspaceSymbols(fmt.Sprintf("value%d", i%100))
	}
}

func BenchmarkMultipleDocuments(b *testing.B) {
	api := NewAPI()

	sources := []string{
		benchSimpleSource,
		benchComplexSource,
		`var a: Int = 1;
var b: Int = 2;
var c: Int = a + b;`,
		`function greet(name: String) -> Void { print(name); }`,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j, source := range sources {
			api.ParseFile(fmt.Sprintf("test%d_%d.aether", i, j), source)
		}
	}
}
